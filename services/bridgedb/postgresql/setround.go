// Copyright © 2026 Weald Technology Trading.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package postgresql

import (
	"context"

	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/services/bridgedb"
	"go.opentelemetry.io/otel"
)

// SetRound sets a round.
func (s *Service) SetRound(ctx context.Context, round *bridgedb.Round) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "SetRound")
	defer span.End()

	if round == nil {
		return errors.New("round nil")
	}

	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	_, err := tx.Exec(ctx, `
INSERT INTO t_rounds(f_number
                    ,f_id
                    ,f_start
                    ,f_end
                    ,f_relays
                    )
VALUES($1,$2,$3,$4,$5)
ON CONFLICT (f_number) DO
UPDATE
SET f_id = excluded.f_id
   ,f_start = excluded.f_start
   ,f_end = excluded.f_end
   ,f_relays = excluded.f_relays
`,
		round.Number,
		round.ID,
		round.Start,
		round.End,
		round.Relays,
	)

	return err
}

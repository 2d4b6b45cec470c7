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

// SetPeriod sets a withdrawal period.
func (s *Service) SetPeriod(ctx context.Context, period *bridgedb.Period) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "SetPeriod")
	defer span.End()

	if period == nil {
		return errors.New("period nil")
	}

	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	_, err := tx.Exec(ctx, `
INSERT INTO t_periods(f_token
                     ,f_id
                     ,f_total
                     ,f_considered
                     )
VALUES($1,$2,$3,$4)
ON CONFLICT (f_token,f_id) DO
UPDATE
SET f_total = excluded.f_total
   ,f_considered = excluded.f_considered
`,
		period.Token,
		period.ID,
		toDecimal(period.Total),
		toDecimal(period.Considered),
	)

	return err
}

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

// SetCommand sets a journalled command.
func (s *Service) SetCommand(ctx context.Context, command *bridgedb.Command) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "SetCommand")
	defer span.End()

	if command == nil {
		return errors.New("command nil")
	}

	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	_, err := tx.Exec(ctx, `
INSERT INTO t_commands(f_sequence
                      ,f_tx_id
                      ,f_name
                      ,f_data
                      ,f_timestamp
                      ,f_result
                      ,f_effects
                      )
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (f_sequence) DO
UPDATE
SET f_tx_id = excluded.f_tx_id
   ,f_name = excluded.f_name
   ,f_data = excluded.f_data
   ,f_timestamp = excluded.f_timestamp
   ,f_result = excluded.f_result
   ,f_effects = excluded.f_effects
`,
		command.Sequence,
		command.TxID,
		command.Name,
		command.Data,
		command.Timestamp,
		command.Result,
		command.Effects,
	)

	return err
}

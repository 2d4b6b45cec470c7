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

// SetEvent sets an event.
func (s *Service) SetEvent(ctx context.Context, event *bridgedb.Event) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "SetEvent")
	defer span.End()

	if event == nil {
		return errors.New("event nil")
	}

	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	_, err := tx.Exec(ctx, `
INSERT INTO t_events(f_id
                    ,f_configuration
                    ,f_kind
                    ,f_round
                    ,f_source_tx_ref
                    ,f_source_index
                    ,f_source_timestamp
                    ,f_initializer
                    ,f_required_votes
                    ,f_confirms
                    ,f_rejects
                    ,f_status
                    ,f_balance
                    ,f_closed
                    )
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (f_id) DO
UPDATE
SET f_confirms = excluded.f_confirms
   ,f_rejects = excluded.f_rejects
   ,f_status = excluded.f_status
   ,f_balance = excluded.f_balance
   ,f_closed = excluded.f_closed
`,
		event.ID,
		event.Configuration,
		event.Kind,
		event.Round,
		event.SourceTxRef,
		event.SourceIndex,
		event.SourceTimestamp,
		event.Initializer,
		event.RequiredVotes,
		event.Confirms,
		event.Rejects,
		event.Status,
		toDecimal(event.Balance),
		event.Closed,
	)

	return err
}

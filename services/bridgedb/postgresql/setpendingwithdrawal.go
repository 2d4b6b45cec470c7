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

// SetPendingWithdrawal sets a pending withdrawal.
func (s *Service) SetPendingWithdrawal(ctx context.Context, withdrawal *bridgedb.PendingWithdrawal) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "SetPendingWithdrawal")
	defer span.End()

	if withdrawal == nil {
		return errors.New("pending withdrawal nil")
	}

	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	_, err := tx.Exec(ctx, `
INSERT INTO t_pending_withdrawals(f_recipient
                                 ,f_id
                                 ,f_token
                                 ,f_amount
                                 ,f_bounty
                                 ,f_status
                                 ,f_timestamp
                                 ,f_event_id
                                 )
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (f_recipient,f_id) DO
UPDATE
SET f_amount = excluded.f_amount
   ,f_bounty = excluded.f_bounty
   ,f_status = excluded.f_status
`,
		withdrawal.Recipient,
		withdrawal.ID,
		withdrawal.Token,
		toDecimal(withdrawal.Amount),
		toDecimal(withdrawal.Bounty),
		withdrawal.Status,
		withdrawal.Timestamp,
		withdrawal.EventID,
	)

	return err
}

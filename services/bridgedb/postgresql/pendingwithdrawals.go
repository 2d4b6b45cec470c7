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
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/wealdtech/bridged/services/bridgedb"
	"go.opentelemetry.io/otel"
)

// PendingWithdrawals returns pending withdrawals matching the supplied filter.
func (s *Service) PendingWithdrawals(ctx context.Context,
	filter *bridgedb.PendingWithdrawalFilter,
) (
	[]*bridgedb.PendingWithdrawal,
	error,
) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "PendingWithdrawals")
	defer span.End()

	tx := s.tx(ctx)
	if tx == nil {
		ctx, err := s.BeginROTx(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to begin transaction")
		}
		tx = s.tx(ctx)
		defer s.CommitROTx(ctx)
	}

	// Build the query.
	queryBuilder := strings.Builder{}
	queryVals := make([]any, 0)

	_, _ = queryBuilder.WriteString(`
SELECT f_recipient
      ,f_id
      ,f_token
      ,f_amount
      ,f_bounty
      ,f_status
      ,f_timestamp
      ,f_event_id
FROM t_pending_withdrawals`)

	wherestr := "WHERE"

	if len(filter.Recipients) != 0 {
		queryVals = append(queryVals, filter.Recipients)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_recipient = ANY($%d)`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if len(filter.Tokens) != 0 {
		queryVals = append(queryVals, filter.Tokens)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_token = ANY($%d)`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if len(filter.Statuses) != 0 {
		queryVals = append(queryVals, filter.Statuses)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_status = ANY($%d)`, wherestr, len(queryVals)))
	}

	switch filter.Order {
	case bridgedb.OrderEarliest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_timestamp,f_recipient,f_id`)
	case bridgedb.OrderLatest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_timestamp DESC,f_recipient DESC,f_id DESC`)
	default:
		return nil, errors.New("no order specified")
	}

	if filter.Limit != 0 {
		queryVals = append(queryVals, filter.Limit)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
LIMIT $%d`, len(queryVals)))
	}

	logQuery(queryBuilder.String(), queryVals)

	rows, err := tx.Query(ctx,
		queryBuilder.String(),
		queryVals...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := make([]*bridgedb.PendingWithdrawal, 0)
	for rows.Next() {
		var amount decimal.Decimal
		var bounty decimal.Decimal
		withdrawal := &bridgedb.PendingWithdrawal{}
		err := rows.Scan(
			&withdrawal.Recipient,
			&withdrawal.ID,
			&withdrawal.Token,
			&amount,
			&bounty,
			&withdrawal.Status,
			&withdrawal.Timestamp,
			&withdrawal.EventID,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		withdrawal.Amount = amount.BigInt()
		withdrawal.Bounty = bounty.BigInt()
		withdrawals = append(withdrawals, withdrawal)
	}

	// Always return order of timestamp then recipient then ID.
	sort.Slice(withdrawals, func(i int, j int) bool {
		if withdrawals[i].Timestamp != withdrawals[j].Timestamp {
			return withdrawals[i].Timestamp < withdrawals[j].Timestamp
		}
		if order := bytes.Compare(withdrawals[i].Recipient, withdrawals[j].Recipient); order != 0 {
			return order < 0
		}

		return withdrawals[i].ID < withdrawals[j].ID
	})

	return withdrawals, nil
}

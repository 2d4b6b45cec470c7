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

// Events returns events matching the supplied filter.
func (s *Service) Events(ctx context.Context,
	filter *bridgedb.EventFilter,
) (
	[]*bridgedb.Event,
	error,
) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "Events")
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
SELECT f_id
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
FROM t_events`)

	wherestr := "WHERE"

	if len(filter.IDs) != 0 {
		queryVals = append(queryVals, filter.IDs)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_id = ANY($%d)`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if len(filter.Rounds) != 0 {
		queryVals = append(queryVals, filter.Rounds)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_round = ANY($%d)`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if len(filter.Kinds) != 0 {
		queryVals = append(queryVals, filter.Kinds)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_kind = ANY($%d)`, wherestr, len(queryVals)))
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
ORDER BY f_source_timestamp,f_id`)
	case bridgedb.OrderLatest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_source_timestamp DESC,f_id DESC`)
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

	events := make([]*bridgedb.Event, 0)
	for rows.Next() {
		var balance decimal.Decimal
		event := &bridgedb.Event{}
		err := rows.Scan(
			&event.ID,
			&event.Configuration,
			&event.Kind,
			&event.Round,
			&event.SourceTxRef,
			&event.SourceIndex,
			&event.SourceTimestamp,
			&event.Initializer,
			&event.RequiredVotes,
			&event.Confirms,
			&event.Rejects,
			&event.Status,
			&balance,
			&event.Closed,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		event.Balance = balance.BigInt()
		events = append(events, event)
	}

	// Always return order of source timestamp then ID.
	sort.Slice(events, func(i int, j int) bool {
		if events[i].SourceTimestamp != events[j].SourceTimestamp {
			return events[i].SourceTimestamp < events[j].SourceTimestamp
		}

		return bytes.Compare(events[i].ID, events[j].ID) < 0
	})

	return events, nil
}

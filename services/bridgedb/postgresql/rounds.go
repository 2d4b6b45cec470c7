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
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/services/bridgedb"
	"go.opentelemetry.io/otel"
)

// Rounds returns rounds matching the supplied filter.
func (s *Service) Rounds(ctx context.Context,
	filter *bridgedb.RoundFilter,
) (
	[]*bridgedb.Round,
	error,
) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "Rounds")
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
SELECT f_number
      ,f_id
      ,f_start
      ,f_end
      ,f_relays
FROM t_rounds`)

	wherestr := "WHERE"

	if filter.From != nil {
		queryVals = append(queryVals, *filter.From)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_number >= $%d`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if filter.To != nil {
		queryVals = append(queryVals, *filter.To)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_number <= $%d`, wherestr, len(queryVals)))
	}

	switch filter.Order {
	case bridgedb.OrderEarliest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_number`)
	case bridgedb.OrderLatest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_number DESC`)
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

	rounds := make([]*bridgedb.Round, 0)
	for rows.Next() {
		round := &bridgedb.Round{}
		err := rows.Scan(
			&round.Number,
			&round.ID,
			&round.Start,
			&round.End,
			&round.Relays,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		rounds = append(rounds, round)
	}

	// Always return order of round number.
	sort.Slice(rounds, func(i int, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})

	return rounds, nil
}

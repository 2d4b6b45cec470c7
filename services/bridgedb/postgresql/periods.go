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

// Periods returns withdrawal periods matching the supplied filter.
func (s *Service) Periods(ctx context.Context,
	filter *bridgedb.PeriodFilter,
) (
	[]*bridgedb.Period,
	error,
) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "Periods")
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
SELECT f_token
      ,f_id
      ,f_total
      ,f_considered
FROM t_periods`)

	wherestr := "WHERE"

	if len(filter.Tokens) != 0 {
		queryVals = append(queryVals, filter.Tokens)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_token = ANY($%d)`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if filter.From != nil {
		queryVals = append(queryVals, *filter.From)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_id >= $%d`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if filter.To != nil {
		queryVals = append(queryVals, *filter.To)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_id <= $%d`, wherestr, len(queryVals)))
	}

	switch filter.Order {
	case bridgedb.OrderEarliest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_id,f_token`)
	case bridgedb.OrderLatest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_id DESC,f_token DESC`)
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

	periods := make([]*bridgedb.Period, 0)
	for rows.Next() {
		var total decimal.Decimal
		var considered decimal.Decimal
		period := &bridgedb.Period{}
		err := rows.Scan(
			&period.Token,
			&period.ID,
			&total,
			&considered,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		period.Total = total.BigInt()
		period.Considered = considered.BigInt()
		periods = append(periods, period)
	}

	// Always return order of period then token.
	sort.Slice(periods, func(i int, j int) bool {
		if periods[i].ID != periods[j].ID {
			return periods[i].ID < periods[j].ID
		}

		return bytes.Compare(periods[i].Token, periods[j].Token) < 0
	})

	return periods, nil
}

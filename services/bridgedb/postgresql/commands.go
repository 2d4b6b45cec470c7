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

// Commands returns journalled commands matching the supplied filter.
func (s *Service) Commands(ctx context.Context,
	filter *bridgedb.CommandFilter,
) (
	[]*bridgedb.Command,
	error,
) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.postgresql").Start(ctx, "Commands")
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
SELECT f_sequence
      ,f_tx_id
      ,f_name
      ,f_data
      ,f_timestamp
      ,f_result
      ,f_effects
FROM t_commands`)

	wherestr := "WHERE"

	if filter.From != nil {
		queryVals = append(queryVals, *filter.From)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_sequence >= $%d`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if filter.To != nil {
		queryVals = append(queryVals, *filter.To)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_sequence <= $%d`, wherestr, len(queryVals)))
		wherestr = "  AND"
	}

	if len(filter.Names) != 0 {
		queryVals = append(queryVals, filter.Names)
		_, _ = queryBuilder.WriteString(fmt.Sprintf(`
%s f_name = ANY($%d)`, wherestr, len(queryVals)))
	}

	switch filter.Order {
	case bridgedb.OrderEarliest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_sequence`)
	case bridgedb.OrderLatest:
		_, _ = queryBuilder.WriteString(`
ORDER BY f_sequence DESC`)
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

	commands := make([]*bridgedb.Command, 0)
	for rows.Next() {
		command := &bridgedb.Command{}
		err := rows.Scan(
			&command.Sequence,
			&command.TxID,
			&command.Name,
			&command.Data,
			&command.Timestamp,
			&command.Result,
			&command.Effects,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		commands = append(commands, command)
	}

	// Always return order of sequence.
	sort.Slice(commands, func(i int, j int) bool {
		return commands[i].Sequence < commands[j].Sequence
	})

	return commands, nil
}

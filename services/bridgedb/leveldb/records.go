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


package leveldb

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/wealdtech/bridged/services/bridgedb"
	"go.opentelemetry.io/otel"
)

// put stores a record as JSON within the transaction held in the context.
func (s *Service) put(ctx context.Context, key []byte, record any) error {
	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to marshal record")
	}

	return tx.Put(key, data, nil)
}

// collect returns all records under the prefix accepted by the match function, in key order.
func collect[T any](r reader, prefix []byte, match func(*T) bool) ([]*T, error) {
	iter := r.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	res := make([]*T, 0)
	for iter.Next() {
		record := new(T)
		if err := json.Unmarshal(iter.Value(), record); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal record %x", iter.Key())
		}
		if match(record) {
			res = append(res, record)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate")
	}

	return res, nil
}

// limit applies the order and limit of a filter to results in ascending order.
func applyLimit[T any](items []*T, limit uint32, order bridgedb.Order) ([]*T, error) {
	switch order {
	case bridgedb.OrderEarliest:
		if limit != 0 && len(items) > int(limit) {
			items = items[:limit]
		}
	case bridgedb.OrderLatest:
		if limit != 0 && len(items) > int(limit) {
			items = items[len(items)-int(limit):]
		}
	default:
		return nil, errors.New("no order specified")
	}

	return items, nil
}

// sortStable sorts items by the less function, keeping key order between equal items.
func sortStable[T any](items []*T, less func(a *T, b *T) bool) {
	sort.SliceStable(items, func(i int, j int) bool {
		return less(items[i], items[j])
	})
}

func containsBytes(items [][]byte, item []byte) bool {
	for i := range items {
		if bytes.Equal(items[i], item) {
			return true
		}
	}

	return false
}

func containsValue[T comparable](items []T, item T) bool {
	for i := range items {
		if items[i] == item {
			return true
		}
	}

	return false
}

// SetRound sets a round.
func (s *Service) SetRound(ctx context.Context, round *bridgedb.Round) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "SetRound")
	defer span.End()

	if round == nil {
		return errors.New("round nil")
	}

	return s.put(ctx, key(roundPrefix, uint64Bytes(round.Number)), round)
}

// Rounds returns rounds matching the supplied filter.
func (s *Service) Rounds(ctx context.Context, filter *bridgedb.RoundFilter) ([]*bridgedb.Round, error) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "Rounds")
	defer span.End()

	rounds, err := collect(s.reader(ctx), roundPrefix, func(round *bridgedb.Round) bool {
		if filter.From != nil && round.Number < *filter.From {
			return false
		}
		if filter.To != nil && round.Number > *filter.To {
			return false
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return applyLimit(rounds, filter.Limit, filter.Order)
}

// SetEvent sets an event.
func (s *Service) SetEvent(ctx context.Context, event *bridgedb.Event) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "SetEvent")
	defer span.End()

	if event == nil {
		return errors.New("event nil")
	}

	return s.put(ctx, key(eventPrefix, event.ID), event)
}

// Events returns events matching the supplied filter.
func (s *Service) Events(ctx context.Context, filter *bridgedb.EventFilter) ([]*bridgedb.Event, error) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "Events")
	defer span.End()

	events, err := collect(s.reader(ctx), eventPrefix, func(event *bridgedb.Event) bool {
		if len(filter.IDs) != 0 && !containsBytes(filter.IDs, event.ID) {
			return false
		}
		if len(filter.Rounds) != 0 && !containsValue(filter.Rounds, event.Round) {
			return false
		}
		if len(filter.Kinds) != 0 && !containsValue(filter.Kinds, event.Kind) {
			return false
		}
		if len(filter.Statuses) != 0 && !containsValue(filter.Statuses, event.Status) {
			return false
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	// Keys are ordered by ID; results are ordered by source timestamp then ID.
	sortStable(events, func(a *bridgedb.Event, b *bridgedb.Event) bool {
		return a.SourceTimestamp < b.SourceTimestamp
	})

	return applyLimit(events, filter.Limit, filter.Order)
}

// SetPeriod sets a withdrawal period.
func (s *Service) SetPeriod(ctx context.Context, period *bridgedb.Period) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "SetPeriod")
	defer span.End()

	if period == nil {
		return errors.New("period nil")
	}

	return s.put(ctx, key(periodPrefix, uint64Bytes(period.ID), period.Token), period)
}

// Periods returns withdrawal periods matching the supplied filter.
func (s *Service) Periods(ctx context.Context, filter *bridgedb.PeriodFilter) ([]*bridgedb.Period, error) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "Periods")
	defer span.End()

	periods, err := collect(s.reader(ctx), periodPrefix, func(period *bridgedb.Period) bool {
		if len(filter.Tokens) != 0 && !containsBytes(filter.Tokens, period.Token) {
			return false
		}
		if filter.From != nil && period.ID < *filter.From {
			return false
		}
		if filter.To != nil && period.ID > *filter.To {
			return false
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return applyLimit(periods, filter.Limit, filter.Order)
}

// SetPendingWithdrawal sets a pending withdrawal.
func (s *Service) SetPendingWithdrawal(ctx context.Context, withdrawal *bridgedb.PendingWithdrawal) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "SetPendingWithdrawal")
	defer span.End()

	if withdrawal == nil {
		return errors.New("pending withdrawal nil")
	}

	return s.put(ctx, key(pendingPrefix, withdrawal.Recipient, uint64Bytes(withdrawal.ID)), withdrawal)
}

// PendingWithdrawals returns pending withdrawals matching the supplied filter.
func (s *Service) PendingWithdrawals(ctx context.Context,
	filter *bridgedb.PendingWithdrawalFilter,
) (
	[]*bridgedb.PendingWithdrawal,
	error,
) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "PendingWithdrawals")
	defer span.End()

	withdrawals, err := collect(s.reader(ctx), pendingPrefix, func(withdrawal *bridgedb.PendingWithdrawal) bool {
		if len(filter.Recipients) != 0 && !containsBytes(filter.Recipients, withdrawal.Recipient) {
			return false
		}
		if len(filter.Tokens) != 0 && !containsBytes(filter.Tokens, withdrawal.Token) {
			return false
		}
		if len(filter.Statuses) != 0 && !containsValue(filter.Statuses, withdrawal.Status) {
			return false
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	// Keys are ordered by recipient then ID; results are ordered by timestamp first.
	sortStable(withdrawals, func(a *bridgedb.PendingWithdrawal, b *bridgedb.PendingWithdrawal) bool {
		return a.Timestamp < b.Timestamp
	})

	return applyLimit(withdrawals, filter.Limit, filter.Order)
}

// SetCommand sets a journalled command.
func (s *Service) SetCommand(ctx context.Context, command *bridgedb.Command) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "SetCommand")
	defer span.End()

	if command == nil {
		return errors.New("command nil")
	}

	return s.put(ctx, key(commandPrefix, uint64Bytes(command.Sequence)), command)
}

// Commands returns journalled commands matching the supplied filter.
func (s *Service) Commands(ctx context.Context, filter *bridgedb.CommandFilter) ([]*bridgedb.Command, error) {
	ctx, span := otel.Tracer("wealdtech.bridged.services.bridgedb.leveldb").Start(ctx, "Commands")
	defer span.End()

	commands, err := collect(s.reader(ctx), commandPrefix, func(command *bridgedb.Command) bool {
		if filter.From != nil && command.Sequence < *filter.From {
			return false
		}
		if filter.To != nil && command.Sequence > *filter.To {
			return false
		}
		if len(filter.Names) != 0 && !containsValue(filter.Names, command.Name) {
			return false
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return applyLimit(commands, filter.Limit, filter.Order)
}

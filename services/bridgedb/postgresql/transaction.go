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

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// ErrNoTransaction is returned when an attempt to carry out a mutable operation is made outside of a transaction.
var ErrNoTransaction = errors.New("no transaction for action")

type transactionKey struct{}

// BeginTx begins a transaction on the database.
// The transaction is rolled back if the returned cancel function is called before CommitTx.
func (s *Service) BeginTx(ctx context.Context) (context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(ctx)
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		cancel()
		return nil, nil, errors.Wrap(err, "failed to begin transaction")
	}

	rollback := func() {
		if err := tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Warn().Err(err).Msg("Failed to roll back transaction")
		}
		cancel()
	}

	return context.WithValue(ctx, transactionKey{}, tx), rollback, nil
}

// CommitTx commits a transaction on the database.
func (*Service) CommitTx(ctx context.Context) error {
	tx, ok := ctx.Value(transactionKey{}).(pgx.Tx)
	if !ok {
		return errors.New("no transaction in context")
	}

	return tx.Commit(ctx)
}

// BeginROTx begins a read-only transaction on the database.
// The transaction should be committed with CommitROTx.
func (s *Service) BeginROTx(ctx context.Context) (context.Context, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin read-only transaction")
	}

	return context.WithValue(ctx, transactionKey{}, tx), nil
}

// CommitROTx commits a read-only transaction on the database.
func (*Service) CommitROTx(ctx context.Context) {
	tx, ok := ctx.Value(transactionKey{}).(pgx.Tx)
	if !ok {
		log.Warn().Msg("No read-only transaction in context to commit")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to commit read-only transaction")
	}
}

// tx returns the transaction held in the context, if any.
func (*Service) tx(ctx context.Context) pgx.Tx {
	tx, ok := ctx.Value(transactionKey{}).(pgx.Tx)
	if !ok {
		return nil
	}

	return tx
}

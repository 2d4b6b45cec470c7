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
	"context"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNoTransaction is returned when an attempt to carry out a mutable operation is made outside of a transaction.
var ErrNoTransaction = errors.New("no transaction for action")

type transactionKey struct{}

// reader is the read interface common to the database and its transactions.
type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// BeginTx begins a transaction on the database.
// Only one transaction may be open at a time; others block until it completes.
// The transaction is discarded if the returned cancel function is called before CommitTx.
func (s *Service) BeginTx(ctx context.Context) (context.Context, context.CancelFunc, error) {
	tx, err := s.db.OpenTransaction()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to begin transaction")
	}

	ctx, cancel := context.WithCancel(ctx)
	discard := func() {
		tx.Discard()
		cancel()
	}

	return context.WithValue(ctx, transactionKey{}, tx), discard, nil
}

// CommitTx commits a transaction on the database.
func (*Service) CommitTx(ctx context.Context) error {
	tx, ok := ctx.Value(transactionKey{}).(*leveldb.Transaction)
	if !ok {
		return errors.New("no transaction in context")
	}

	return tx.Commit()
}

// tx returns the transaction held in the context, if any.
func (*Service) tx(ctx context.Context) *leveldb.Transaction {
	tx, ok := ctx.Value(transactionKey{}).(*leveldb.Transaction)
	if !ok {
		return nil
	}

	return tx
}

// reader returns the transaction held in the context, or the database if there is none.
func (s *Service) reader(ctx context.Context) reader {
	if tx := s.tx(ctx); tx != nil {
		return tx
	}

	return s.db
}

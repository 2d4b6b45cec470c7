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


package standard

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/clock"
	"go.uber.org/atomic"
)

// database is the set of database functions used by the ledger.
type database interface {
	bridgedb.Service
	bridgedb.CommandsProvider
	bridgedb.CommandsSetter
	bridgedb.RoundsSetter
	bridgedb.EventsSetter
	bridgedb.PeriodsSetter
	bridgedb.PendingWithdrawalsSetter
}

// Service is a ledger service.
// Commands are applied one at a time; readers see the state as of the last applied command.
type Service struct {
	clock            clock.Service
	db               database
	snapshotInterval uint64
	st               *state.State
	mutex            deadlock.RWMutex
	sequence         *atomic.Uint64
}

// module-wide log.
var log zerolog.Logger

// New creates a new ledger service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "ledger").Str("impl", "standard").Logger().Level(parameters.logLevel)

	if err := registerMetrics(ctx, parameters.monitor); err != nil {
		return nil, errors.New("failed to register metrics")
	}

	db, isDatabase := parameters.db.(database)
	if !isDatabase {
		return nil, errors.New("bridge database does not provide required functions")
	}

	s := &Service{
		clock:            parameters.clock,
		db:               db,
		snapshotInterval: parameters.snapshotInterval,
		sequence:         atomic.NewUint64(0),
	}

	if err := s.restore(ctx, parameters); err != nil {
		return nil, errors.Wrap(err, "failed to restore state")
	}
	monitorSequence(s.sequence.Load())

	return s, nil
}

// State returns the current state.
func (s *Service) State(_ context.Context) *state.State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.st
}

// Sequence returns the sequence of the last journalled command.
func (s *Service) Sequence(_ context.Context) uint64 {
	return s.sequence.Load()
}

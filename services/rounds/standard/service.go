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
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/clock"
	"github.com/wealdtech/bridged/services/ledger"
	"github.com/wealdtech/bridged/services/scheduler"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// Status is the state of relay rounds as of the last check.
type Status struct {
	Round        uint64 `json:"round"`
	RoundStart   uint64 `json:"round_start"`
	RoundEnd     uint64 `json:"round_end"`
	Relays       int    `json:"relays"`
	RotationOpen bool   `json:"rotation_open"`
	// ProposeStart is the earliest start time of the next round, if rotation is open.
	ProposeStart uint64 `json:"propose_start,omitempty"`
	// StoredRound is the latest round held in the database.
	StoredRound uint64 `json:"stored_round"`
	CheckedAt   uint64 `json:"checked_at"`
}

// Service is a round rotation monitor.
type Service struct {
	scheduler      scheduler.Service
	clock          clock.Service
	stateProvider  ledger.StateProvider
	roundsProvider bridgedb.RoundsProvider
	interval       time.Duration
	activitySem    *semaphore.Weighted
	status         *atomic.Pointer[Status]
	announced      uint64
}

// module-wide log.
var log zerolog.Logger

// New creates a new service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "rounds").Str("impl", "standard").Logger().Level(parameters.logLevel)

	if err := registerMetrics(ctx, parameters.monitor); err != nil {
		return nil, errors.New("failed to register metrics")
	}

	s := &Service{
		scheduler:      parameters.scheduler,
		clock:          parameters.clock,
		stateProvider:  parameters.stateProvider,
		roundsProvider: parameters.roundsProvider,
		interval:       parameters.interval,
		activitySem:    semaphore.NewWeighted(1),
		status:         atomic.NewPointer[Status](nil),
	}

	// Check once up front so status is available immediately.
	s.check(ctx)

	runtimeFunc := func(_ context.Context, _ interface{}) (time.Time, error) {
		return time.Now().Add(s.interval), nil
	}

	if err := s.scheduler.SchedulePeriodicJob(ctx,
		"Rounds",
		"Check relay rounds",
		runtimeFunc,
		nil,
		s.checkOnScheduleTick,
		nil,
	); err != nil {
		return nil, errors.Wrap(err, "failed to schedule round checks")
	}

	return s, nil
}

// Status returns the status as of the last check.
func (s *Service) Status(_ context.Context) *Status {
	return s.status.Load()
}

func (s *Service) checkOnScheduleTick(ctx context.Context, _ interface{}) {
	// Only allow 1 handler to be active.
	acquired := s.activitySem.TryAcquire(1)
	if !acquired {
		log.Debug().Msg("Another handler running")
		return
	}
	defer s.activitySem.Release(1)

	s.check(ctx)
}

func (s *Service) check(ctx context.Context) {
	st := s.stateProvider.State(ctx)
	if st == nil {
		log.Debug().Msg("No state available")
		return
	}
	now := s.clock.Timestamp()

	current, err := st.Rounds().Current()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to obtain current round")
		return
	}
	log := log.With().Uint64("round", current.Number).Logger()

	status := &Status{
		Round:        current.Number,
		RoundStart:   current.Start,
		RoundEnd:     current.End,
		Relays:       len(current.Relays),
		RotationOpen: st.Rounds().RotationOpen(now),
		CheckedAt:    now,
	}
	if status.RotationOpen {
		status.ProposeStart = st.Rounds().ProposeStart(now)
		if s.announced != current.Number+1 {
			log.Info().Uint64("propose_start", status.ProposeStart).Msg("Relay rotation window open")
			s.announced = current.Number + 1
		}
	}
	if now >= current.End {
		log.Warn().Uint64("round_end", current.End).Msg("Current round has ended without a successor")
	}

	stored, err := s.roundsProvider.Rounds(ctx, &bridgedb.RoundFilter{
		Limit: 1,
		Order: bridgedb.OrderLatest,
	})
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Failed to obtain stored rounds")
	case len(stored) == 0:
		log.Warn().Msg("No rounds stored")
	default:
		status.StoredRound = stored[0].Number
		if stored[0].Number != current.Number {
			log.Warn().Uint64("stored_round", stored[0].Number).Msg("Stored rounds do not match ledger")
		}
	}

	s.status.Store(status)
	monitorStatus(status)
	log.Trace().Bool("rotation_open", status.RotationOpen).Uint64("round_end", current.End).Msg("Checked rounds")
}

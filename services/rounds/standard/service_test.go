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


package standard_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/services/bridgedb"
	clockstandard "github.com/wealdtech/bridged/services/clock/standard"
	"github.com/wealdtech/bridged/services/rounds/standard"
	schedulerstandard "github.com/wealdtech/bridged/services/scheduler/standard"
	"go.uber.org/atomic"
)

type stateProvider struct {
	st *state.State
}

func (p *stateProvider) State(_ context.Context) *state.State {
	return p.st
}

func (p *stateProvider) Sequence(_ context.Context) uint64 {
	return 0
}

type roundsProvider struct {
	rounds []*bridgedb.Round
	err    error
}

func (p *roundsProvider) Rounds(_ context.Context, _ *bridgedb.RoundFilter) ([]*bridgedb.Round, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.rounds) == 0 {
		return []*bridgedb.Round{}, nil
	}

	return p.rounds[len(p.rounds)-1:], nil
}

func testState(t *testing.T) *state.State {
	t.Helper()
	st, err := state.New(state.Config{
		Rounds: rounds.Config{
			RelayRoundTime:      100,
			TimeBeforeSetRelays: 20,
			MinRoundGapTime:     1,
			MinRelaysCount:      2,
		},
	}, []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000001"),
		common.HexToAddress("0x0000000000000000000000000000000000000002"),
		common.HexToAddress("0x0000000000000000000000000000000000000003"),
	}, 1000)
	require.NoError(t, err)

	return st
}

func TestService(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := schedulerstandard.New(ctx, schedulerstandard.WithLogLevel(zerolog.Disabled))
	require.NoError(t, err)
	clk, err := clockstandard.New(ctx)
	require.NoError(t, err)
	provider := &stateProvider{st: testState(t)}
	stored := &roundsProvider{}

	tests := []struct {
		name   string
		params []standard.Parameter
		err    string
	}{
		{
			name: "SchedulerMissing",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithClock(clk),
				standard.WithStateProvider(provider),
				standard.WithRoundsProvider(stored),
			},
			err: "problem with parameters: no scheduler specified",
		},
		{
			name: "ClockMissing",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithScheduler(sched),
				standard.WithStateProvider(provider),
				standard.WithRoundsProvider(stored),
			},
			err: "problem with parameters: no clock specified",
		},
		{
			name: "StateProviderMissing",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithScheduler(sched),
				standard.WithClock(clk),
				standard.WithRoundsProvider(stored),
			},
			err: "problem with parameters: no state provider specified",
		},
		{
			name: "RoundsProviderMissing",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithScheduler(sched),
				standard.WithClock(clk),
				standard.WithStateProvider(provider),
			},
			err: "problem with parameters: no rounds provider specified",
		},
		{
			name: "IntervalZero",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithScheduler(sched),
				standard.WithClock(clk),
				standard.WithStateProvider(provider),
				standard.WithRoundsProvider(stored),
				standard.WithInterval(0),
			},
			err: "problem with parameters: no interval specified",
		},
		{
			name: "Good",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithScheduler(sched),
				standard.WithClock(clk),
				standard.WithStateProvider(provider),
				standard.WithRoundsProvider(stored),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := standard.New(ctx, test.params...)
			if test.err != "" {
				require.EqualError(t, err, test.err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		now      int64
		stored   []*bridgedb.Round
		storeErr error
		expected *standard.Status
	}{
		{
			name:   "RotationClosed",
			now:    1010,
			stored: []*bridgedb.Round{{Number: 0}},
			expected: &standard.Status{
				Round:      0,
				RoundStart: 1000,
				RoundEnd:   1100,
				Relays:     3,
				CheckedAt:  1010,
			},
		},
		{
			name:   "RotationOpen",
			now:    1090,
			stored: []*bridgedb.Round{{Number: 0}},
			expected: &standard.Status{
				Round:        0,
				RoundStart:   1000,
				RoundEnd:     1100,
				Relays:       3,
				RotationOpen: true,
				ProposeStart: 1101,
				CheckedAt:    1090,
			},
		},
		{
			name: "RoundEnded",
			now:  1200,
			expected: &standard.Status{
				Round:        0,
				RoundStart:   1000,
				RoundEnd:     1100,
				Relays:       3,
				RotationOpen: true,
				ProposeStart: 1200,
				CheckedAt:    1200,
			},
		},
		{
			name:     "StoreError",
			now:      1010,
			storeErr: errors.New("mock error"),
			expected: &standard.Status{
				Round:      0,
				RoundStart: 1000,
				RoundEnd:   1100,
				Relays:     3,
				CheckedAt:  1010,
			},
		},
		{
			name:   "StoredAhead",
			now:    1010,
			stored: []*bridgedb.Round{{Number: 0}, {Number: 1}},
			expected: &standard.Status{
				Round:       0,
				RoundStart:  1000,
				RoundEnd:    1100,
				Relays:      3,
				StoredRound: 1,
				CheckedAt:   1010,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched, err := schedulerstandard.New(ctx, schedulerstandard.WithLogLevel(zerolog.Disabled))
			require.NoError(t, err)
			clk, err := clockstandard.New(ctx,
				clockstandard.WithTimeFunc(func() time.Time { return time.Unix(test.now, 0) }),
			)
			require.NoError(t, err)

			s, err := standard.New(ctx,
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithScheduler(sched),
				standard.WithClock(clk),
				standard.WithStateProvider(&stateProvider{st: testState(t)}),
				standard.WithRoundsProvider(&roundsProvider{rounds: test.stored, err: test.storeErr}),
			)
			require.NoError(t, err)
			require.Equal(t, test.expected, s.Status(ctx))
		})
	}
}

func TestPeriodicCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := schedulerstandard.New(ctx, schedulerstandard.WithLogLevel(zerolog.Disabled))
	require.NoError(t, err)
	now := atomic.NewInt64(1010)
	clk, err := clockstandard.New(ctx,
		clockstandard.WithTimeFunc(func() time.Time { return time.Unix(now.Load(), 0) }),
	)
	require.NoError(t, err)

	s, err := standard.New(ctx,
		standard.WithLogLevel(zerolog.Disabled),
		standard.WithScheduler(sched),
		standard.WithClock(clk),
		standard.WithStateProvider(&stateProvider{st: testState(t)}),
		standard.WithRoundsProvider(&roundsProvider{rounds: []*bridgedb.Round{{Number: 0}}}),
		standard.WithInterval(10*time.Millisecond),
	)
	require.NoError(t, err)
	require.False(t, s.Status(ctx).RotationOpen)

	now.Store(1090)
	require.Eventually(t, func() bool {
		return s.Status(ctx).RotationOpen
	}, 5*time.Second, 10*time.Millisecond)
}

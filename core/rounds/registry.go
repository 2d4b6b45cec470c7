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

package rounds

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/wealdtech/bridged/core/types"
)

// Registry holds every round created, indexed by number.
type Registry struct {
	config       Config
	rounds       []*Round
	lastRotation uint64
}

// New creates an empty registry.
func New(config Config) *Registry {
	return &Registry{
		config: config,
		rounds: make([]*Round, 0),
	}
}

// Config returns the configuration of the registry.
func (r *Registry) Config() Config {
	return r.config
}

// CreateRound creates the next round.
// The first round created is round 0 and is not subject to timing checks.
func (r *Registry) CreateRound(relays []common.Address,
	startTime uint64,
	now uint64,
) (
	*Round,
	[]types.Effect,
	error,
) {
	relays = types.DedupAddresses(relays)
	if len(relays) < r.config.MinRelaysCount {
		return nil, nil, ErrTooFewRelays
	}

	if len(r.rounds) > 0 {
		prev := r.rounds[len(r.rounds)-1]
		if prev.End > r.config.TimeBeforeSetRelays && now < prev.End-r.config.TimeBeforeSetRelays {
			return nil, nil, ErrTooEarly
		}
		if startTime < prev.End+r.config.MinRoundGapTime {
			return nil, nil, ErrStartTooEarly
		}
		if now < r.lastRotation+r.config.MinRoundGapTime {
			return nil, nil, ErrGapTooShort
		}
	}

	number := uint64(len(r.rounds))
	end := startTime + r.config.RelayRoundTime
	round := &Round{
		Number: number,
		Relays: relays,
		Start:  startTime,
		End:    end,
		ID:     roundID(number, startTime, end, relays),
	}
	r.rounds = append(r.rounds, round)
	r.lastRotation = now

	return round, []types.Effect{
		&RoundInitialized{
			Number:      round.Number,
			Start:       round.Start,
			End:         round.End,
			RelaysCount: len(round.Relays),
			ID:          round.ID,
		},
	}, nil
}

// NextNumber returns the number the next created round will have.
func (r *Registry) NextNumber() uint64 {
	return uint64(len(r.rounds))
}

// Round returns the given round.
func (r *Registry) Round(number uint64) (*Round, error) {
	if number >= uint64(len(r.rounds)) {
		return nil, ErrUnknownRound
	}

	return r.rounds[number], nil
}

// Current returns the latest round created.
func (r *Registry) Current() (*Round, error) {
	if len(r.rounds) == 0 {
		return nil, ErrUnknownRound
	}

	return r.rounds[len(r.rounds)-1], nil
}

// Rounds returns all rounds, lowest number first.
func (r *Registry) Rounds() []*Round {
	res := make([]*Round, len(r.rounds))
	copy(res, r.rounds)

	return res
}

// IsRelay returns true if the address is a relay of the given round.
// This never consults the current round.
func (r *Registry) IsRelay(number uint64, addr common.Address) bool {
	round, err := r.Round(number)
	if err != nil {
		return false
	}

	return round.Contains(addr)
}

// RotationOpen returns true if a rotation submitted at the given time would pass the timing checks.
func (r *Registry) RotationOpen(now uint64) bool {
	if len(r.rounds) == 0 {
		return true
	}
	prev := r.rounds[len(r.rounds)-1]
	if prev.End > r.config.TimeBeforeSetRelays && now < prev.End-r.config.TimeBeforeSetRelays {
		return false
	}

	return now >= r.lastRotation+r.config.MinRoundGapTime
}

// ProposeStart returns the earliest valid start time for the next round at the given time.
// A rotation that arrives after the current round has ended starts immediately.
func (r *Registry) ProposeStart(now uint64) uint64 {
	if len(r.rounds) == 0 {
		return now
	}
	earliest := r.rounds[len(r.rounds)-1].End + r.config.MinRoundGapTime
	if now > earliest {
		return now
	}

	return earliest
}

// Clone returns a copy of the registry.
// Rounds are immutable once created so are shared.
func (r *Registry) Clone() *Registry {
	rounds := make([]*Round, len(r.rounds))
	copy(rounds, r.rounds)

	return &Registry{
		config:       r.config,
		rounds:       rounds,
		lastRotation: r.lastRotation,
	}
}

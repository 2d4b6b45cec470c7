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

// Package state holds the bridge world state and applies commands to it.
package state

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/merge"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/risk"
	"github.com/wealdtech/bridged/core/rounds"
)

// Config is the configuration of the state.
type Config struct {
	// Owner may change limits, fees and merge settings.
	Owner common.Address `json:"owner"`
	// Approver may approve or reject pending withdrawals.
	Approver common.Address `json:"approver"`
	// Configurations maps event configurations to the kind of payload they carry.
	Configurations map[common.Address]payload.Kind `json:"configurations"`
	// Networks receive the relays of every new round.
	Networks  []string         `json:"networks"`
	Rounds    rounds.Config    `json:"rounds"`
	Consensus consensus.Config `json:"consensus"`
	// DefaultFeeBps is the withdrawal fee for tokens without their own.
	DefaultFeeBps uint64 `json:"default_fee_bps"`
	// MergeProxy is the identity merge routes and pools are derived from.
	MergeProxy common.Address `json:"merge_proxy"`
}

// configuration returns the event configuration for a payload kind.
// If several configurations carry the kind the lowest address is used.
func (c *Config) configuration(kind payload.Kind) (common.Address, bool) {
	var res common.Address
	found := false
	for addr, k := range c.Configurations {
		if k != kind {
			continue
		}
		if !found || addr.Cmp(res) < 0 {
			res = addr
			found = true
		}
	}

	return res, found
}

// State is the bridge world state.
type State struct {
	config Config
	rounds *rounds.Registry
	events *consensus.Engine
	risk   *risk.Engine
	merge  *merge.Registry
}

// New creates a state whose first round holds the given relays.
func New(config Config, relays []common.Address, start uint64) (*State, error) {
	st := &State{
		config: config,
		rounds: rounds.New(config.Rounds),
		events: consensus.New(config.Consensus),
		risk: risk.New(risk.Config{
			Owner:         config.Owner,
			Approver:      config.Approver,
			DefaultFeeBps: config.DefaultFeeBps,
		}),
		merge: merge.New(merge.Config{
			Proxy: config.MergeProxy,
			Owner: config.Owner,
		}),
	}
	if _, _, err := st.rounds.CreateRound(relays, start, start); err != nil {
		return nil, errors.Wrap(err, "failed to create first round")
	}

	return st, nil
}

// Config returns the configuration of the state.
func (s *State) Config() Config {
	return s.config
}

// Rounds returns the round registry.
func (s *State) Rounds() *rounds.Registry {
	return s.rounds
}

// Events returns the consensus engine.
func (s *State) Events() *consensus.Engine {
	return s.events
}

// Risk returns the withdrawal risk engine.
func (s *State) Risk() *risk.Engine {
	return s.risk
}

// Merge returns the merge registry.
func (s *State) Merge() *merge.Registry {
	return s.merge
}

// Clone returns a copy of the state that can be changed independently.
func (s *State) Clone() *State {
	return &State{
		config: s.config,
		rounds: s.rounds.Clone(),
		events: s.events.Clone(),
		risk:   s.risk.Clone(),
		merge:  s.merge.Clone(),
	}
}

type stateJSON struct {
	Config Config            `json:"config"`
	Rounds *rounds.Registry  `json:"rounds"`
	Events *consensus.Engine `json:"events"`
	Risk   *risk.Engine      `json:"risk"`
	Merge  *merge.Registry   `json:"merge"`
}

// MarshalJSON implements json.Marshaler.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(&stateJSON{
		Config: s.config,
		Rounds: s.rounds,
		Events: s.events,
		Risk:   s.risk,
		Merge:  s.merge,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(input []byte) error {
	data := stateJSON{
		Rounds: rounds.New(rounds.Config{}),
		Events: consensus.New(consensus.Config{}),
		Risk:   risk.New(risk.Config{}),
		Merge:  merge.New(merge.Config{}),
	}
	if err := json.Unmarshal(input, &data); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}
	if len(data.Rounds.Rounds()) == 0 {
		return errors.New("state has no rounds")
	}
	s.config = data.Config
	s.rounds = data.Rounds
	s.events = data.Events
	s.risk = data.Risk
	s.merge = data.Merge

	return nil
}

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

package consensus

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/types"
)

var (
	// ErrEventExists is returned when an event with the same identity already exists.
	ErrEventExists = types.NewError(types.KindReplay, "event already exists")
	// ErrUnderfunded is returned when an event is initialized without enough balance.
	ErrUnderfunded = types.NewError(types.KindPrecondition, "insufficient initial balance")
	// ErrUnknownEvent is returned when an event does not exist.
	ErrUnknownEvent = types.NewError(types.KindNotFound, "unknown event")
	// ErrNotRelay is returned when a vote comes from outside the event's round.
	ErrNotRelay = types.NewError(types.KindUnauthorized, "not a relay of the event round")
	// ErrEventTerminal is returned when a vote arrives after the event was decided.
	ErrEventTerminal = types.NewError(types.KindReplay, "event already decided")
	// ErrAlreadyVoted is returned when a relay votes twice.
	ErrAlreadyVoted = types.NewError(types.KindReplay, "relay already voted")
	// ErrInvalidDecision is returned for a decision other than confirm or reject.
	ErrInvalidDecision = types.NewError(types.KindPrecondition, "invalid decision")
	// ErrEventNotTerminal is returned when closing an undecided event.
	ErrEventNotTerminal = types.NewError(types.KindPrecondition, "event not decided")
	// ErrEventClosed is returned when closing an event twice.
	ErrEventClosed = types.NewError(types.KindReplay, "event already closed")
)

// RoundProvider provides rounds by number.
type RoundProvider interface {
	// Round returns the given round.
	Round(number uint64) (*rounds.Round, error)
}

// Config is the configuration of the consensus engine.
type Config struct {
	// MinInitialBalance is the minimum balance attached to any event.
	MinInitialBalance uint256.Int `json:"min_initial_balance"`
}

// Engine holds events and their votes.
type Engine struct {
	config Config
	events map[common.Hash]*Event
	// owned marks events this engine may mutate in place; others are shared with a parent.
	owned map[common.Hash]bool
}

// New creates an empty engine.
func New(config Config) *Engine {
	return &Engine{
		config: config,
		events: make(map[common.Hash]*Event),
		owned:  make(map[common.Hash]bool),
	}
}

// InitializeRequest is the data required to create an event.
type InitializeRequest struct {
	Configuration common.Address
	Envelope      payload.Envelope
	Round         uint64
	Payload       []byte
	Initializer   common.Address
	Value         uint256.Int
}

// Initialize creates an event.
// cost is the expected cost carried by the decoded payload.
func (e *Engine) Initialize(provider RoundProvider,
	req *InitializeRequest,
	cost *uint256.Int,
	kind payload.Kind,
) (
	*Event,
	[]types.Effect,
	error,
) {
	id := EventID(req.Configuration, &req.Envelope, req.Payload)
	if _, exists := e.events[id]; exists {
		return nil, nil, ErrEventExists
	}

	round, err := provider.Round(req.Round)
	if err != nil {
		return nil, nil, err
	}

	required := e.config.MinInitialBalance
	if cost != nil && cost.Gt(&required) {
		required = *cost
	}
	if req.Value.Lt(&required) {
		return nil, nil, ErrUnderfunded
	}

	event := &Event{
		ID:            id,
		Configuration: req.Configuration,
		Envelope:      req.Envelope,
		Round:         round.Number,
		Payload:       append([]byte{}, req.Payload...),
		Confirms:      make([]common.Address, 0),
		Rejects:       make([]common.Address, 0),
		Status:        StatusPending,
		Initializer:   req.Initializer,
		RequiredVotes: round.RequiredVotes(),
		Balance:       req.Value,
	}
	e.events[id] = event
	e.owned[id] = true

	return event, []types.Effect{
		&EventInitialized{
			ID:            id,
			Configuration: req.Configuration,
			Round:         round.Number,
			Kind:          kind,
			RequiredVotes: event.RequiredVotes,
		},
	}, nil
}

// Vote records a relay's decision on an event.
// Eligibility is judged against the event's round, not the current round.
func (e *Engine) Vote(provider RoundProvider,
	id common.Hash,
	relay common.Address,
	decision Decision,
) (
	*Event,
	[]types.Effect,
	error,
) {
	if decision != DecisionConfirm && decision != DecisionReject {
		return nil, nil, ErrInvalidDecision
	}
	event, exists := e.events[id]
	if !exists {
		return nil, nil, ErrUnknownEvent
	}
	round, err := provider.Round(event.Round)
	if err != nil {
		return nil, nil, err
	}
	if !round.Contains(relay) {
		return nil, nil, ErrNotRelay
	}
	if event.Status.Terminal() {
		return nil, nil, ErrEventTerminal
	}
	if event.HasVoted(relay) {
		return nil, nil, ErrAlreadyVoted
	}
	event = e.mutable(id)

	effects := []types.Effect{
		&VoteCast{
			ID:       id,
			Relay:    relay,
			Decision: decision,
		},
	}
	switch decision {
	case DecisionConfirm:
		event.Confirms = insertSorted(event.Confirms, relay)
		if len(event.Confirms) >= event.RequiredVotes {
			event.Status = StatusConfirmed
			effects = append(effects, &EventConfirmed{ID: id})
		}
	case DecisionReject:
		event.Rejects = insertSorted(event.Rejects, relay)
		if len(event.Rejects) >= event.RequiredVotes {
			event.Status = StatusRejected
			effects = append(effects, &EventRejected{ID: id})
		}
	}

	return event, effects, nil
}

// Close returns the remaining balance of a decided event to its initializer.
func (e *Engine) Close(id common.Hash) (*Event, []types.Effect, error) {
	event, exists := e.events[id]
	if !exists {
		return nil, nil, ErrUnknownEvent
	}
	if !event.Status.Terminal() {
		return nil, nil, ErrEventNotTerminal
	}
	if event.Closed {
		return nil, nil, ErrEventClosed
	}
	event = e.mutable(id)

	refund := event.Balance
	event.Balance.Clear()
	event.Closed = true

	return event, []types.Effect{
		&EventClosed{
			ID:          id,
			Initializer: event.Initializer,
			Refund:      refund,
		},
	}, nil
}

// Event returns the given event.
func (e *Engine) Event(id common.Hash) (*Event, error) {
	event, exists := e.events[id]
	if !exists {
		return nil, ErrUnknownEvent
	}

	return event, nil
}

// Events returns the number of events held.
func (e *Engine) Events() int {
	return len(e.events)
}

// Clone returns a copy of the engine.
// Events are copied on first write so neither copy observes the other's changes.
func (e *Engine) Clone() *Engine {
	events := make(map[common.Hash]*Event, len(e.events))
	for id, event := range e.events {
		events[id] = event
	}
	// The parent may no longer mutate shared events either.
	e.owned = make(map[common.Hash]bool)

	return &Engine{
		config: e.config,
		events: events,
		owned:  make(map[common.Hash]bool),
	}
}

func (e *Engine) mutable(id common.Hash) *Event {
	if !e.owned[id] {
		e.events[id] = e.events[id].clone()
		e.owned[id] = true
	}

	return e.events[id]
}

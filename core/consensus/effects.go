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
)

// EventInitialized is emitted when an event is created.
type EventInitialized struct {
	ID            common.Hash
	Configuration common.Address
	Round         uint64
	Kind          payload.Kind
	RequiredVotes int
}

// EffectName returns the name of the effect.
func (*EventInitialized) EffectName() string { return "event_initialized" }

// VoteCast is emitted for every accepted vote.
type VoteCast struct {
	ID       common.Hash
	Relay    common.Address
	Decision Decision
}

// EffectName returns the name of the effect.
func (*VoteCast) EffectName() string { return "vote_cast" }

// EventConfirmed is emitted when an event crosses the confirmation threshold.
type EventConfirmed struct {
	ID common.Hash
}

// EffectName returns the name of the effect.
func (*EventConfirmed) EffectName() string { return "event_confirmed" }

// EventRejected is emitted when an event crosses the rejection threshold.
type EventRejected struct {
	ID common.Hash
}

// EffectName returns the name of the effect.
func (*EventRejected) EffectName() string { return "event_rejected" }

// EventClosed is emitted when the balance of a terminal event is returned to its initializer.
type EventClosed struct {
	ID          common.Hash
	Initializer common.Address
	Refund      uint256.Int
}

// EffectName returns the name of the effect.
func (*EventClosed) EffectName() string { return "event_closed" }

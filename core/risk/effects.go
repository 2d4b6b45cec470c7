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

package risk

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// WithdrawalProcessed is emitted for every withdrawal processed, whatever the outcome.
type WithdrawalProcessed struct {
	Token     common.Address
	PeriodID  uint64
	Recipient common.Address
	Amount    uint256.Int
	Fee       uint256.Int
	Escrowed  bool
}

// EffectName returns the name of the effect.
func (*WithdrawalProcessed) EffectName() string { return "withdrawal_processed" }

// Released is emitted when value is paid out of the vault.
type Released struct {
	Token     common.Address
	Recipient common.Address
	Amount    uint256.Int
}

// EffectName returns the name of the effect.
func (*Released) EffectName() string { return "released" }

// PendingCreated is emitted when a withdrawal is escrowed.
type PendingCreated struct {
	Recipient common.Address
	ID        uint64
	Token     common.Address
	Amount    uint256.Int
	Status    ApproveStatus
}

// EffectName returns the name of the effect.
func (*PendingCreated) EffectName() string { return "pending_created" }

// PendingUpdated is emitted when a pending withdrawal changes.
type PendingUpdated struct {
	Recipient common.Address
	ID        uint64
	Action    string
}

// EffectName returns the name of the effect.
func (*PendingUpdated) EffectName() string { return "pending_updated" }

// LimitsUpdated is emitted when the limits of a token change.
type LimitsUpdated struct {
	Token common.Address
}

// EffectName returns the name of the effect.
func (*LimitsUpdated) EffectName() string { return "limits_updated" }

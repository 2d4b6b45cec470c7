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

// Package risk decides whether confirmed withdrawals are released or escrowed.
package risk

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ApproveStatus is the approval status of a pending withdrawal.
type ApproveStatus uint8

const (
	// ApproveStatusNotRequired is a pending withdrawal waiting only for liquidity.
	ApproveStatusNotRequired ApproveStatus = iota
	// ApproveStatusNew is a pending withdrawal waiting for the approver.
	ApproveStatusNew
	// ApproveStatusApproved is a pending withdrawal approved for release.
	ApproveStatusApproved
	// ApproveStatusRejected is a pending withdrawal held by the approver.
	ApproveStatusRejected
)

var approveStatusStrings = [...]string{
	"not required",
	"new",
	"approved",
	"rejected",
}

// String returns a string representation of the status.
func (s ApproveStatus) String() string {
	if int(s) >= len(approveStatusStrings) {
		return "unknown"
	}

	return approveStatusStrings[s]
}

// Decision is the approver's decision on a pending withdrawal.
type Decision uint8

const (
	// DecisionApprove releases the withdrawal.
	DecisionApprove Decision = iota + 1
	// DecisionReject holds the withdrawal in escrow.
	DecisionReject
)

// Limits are the withdrawal limits of a token.
type Limits struct {
	Daily      uint256.Int `json:"daily"`
	Undeclared uint256.Int `json:"undeclared"`
	Enabled    bool        `json:"enabled"`
}

// Period is the withdrawal activity of a token over one day.
type Period struct {
	Token common.Address `json:"token"`
	ID    uint64         `json:"id"`
	// Total is every withdrawal amount in the period, escrowed or not.
	Total uint256.Int `json:"total"`
	// Considered is the amount released without escrow.
	Considered uint256.Int `json:"considered"`
}

type periodKey struct {
	token common.Address
	id    uint64
}

// PendingWithdrawal is an escrowed withdrawal.
// A record with zero amount is resolved and refuses further operations.
type PendingWithdrawal struct {
	Recipient common.Address `json:"recipient"`
	ID        uint64         `json:"id"`
	Token     common.Address `json:"token"`
	Amount    uint256.Int    `json:"amount"`
	Bounty    uint256.Int    `json:"bounty"`
	Status    ApproveStatus  `json:"status"`
	Timestamp uint64         `json:"timestamp"`
	EventID   common.Hash    `json:"event_id"`
}

// Open returns true if the withdrawal has not been resolved.
func (p *PendingWithdrawal) Open() bool {
	return !p.Amount.IsZero()
}

// Withdrawal is a confirmed withdrawal to process.
type Withdrawal struct {
	Token     common.Address
	Amount    uint256.Int
	Recipient common.Address
	Timestamp uint64
	EventID   common.Hash
}

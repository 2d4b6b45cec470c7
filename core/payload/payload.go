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

// Package payload decodes event payloads into a tagged union.
package payload

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Kind is the type of a payload.
type Kind uint8

const (
	// KindUnknown is an unrecognised payload.
	KindUnknown Kind = iota
	// KindRotation installs a new relay round.
	KindRotation
	// KindWithdrawal releases value on this chain.
	KindWithdrawal
	// KindMergeBurn burns a merge pool token in favour of another representation.
	KindMergeBurn
	// KindRoundRelays announces a round to another network.
	KindRoundRelays
)

var kindStrings = [...]string{
	"unknown",
	"rotation",
	"withdrawal",
	"merge burn",
	"round relays",
}

// String returns a string representation of the kind.
func (k Kind) String() string {
	if int(k) >= len(kindStrings) {
		return kindStrings[0]
	}

	return kindStrings[k]
}

// KindFromString returns the kind for its string representation.
func KindFromString(input string) Kind {
	for i := range kindStrings {
		if kindStrings[i] == input {
			return Kind(i)
		}
	}

	return KindUnknown
}

// Payload is the decoded body of an event.
type Payload interface {
	// Kind returns the kind of the payload.
	Kind() Kind
	// Cost returns the balance the initializer must attach to cover processing.
	Cost() *uint256.Int
}

// Envelope is the fixed part of an event used for replay protection and period derivation.
type Envelope struct {
	SourceTxRef common.Hash
	Index       uint32
	BlockRef    common.Hash
	Timestamp   uint64
}

// Rotation is a request to install a new relay round.
type Rotation struct {
	Round        uint64
	Relays       []common.Address
	StartTime    uint64
	ExpectedCost uint256.Int
}

// Kind returns the kind of the payload.
func (*Rotation) Kind() Kind { return KindRotation }

// Cost returns the expected cost of the payload.
func (p *Rotation) Cost() *uint256.Int { return &p.ExpectedCost }

// Withdrawal is a release of value on this chain.
type Withdrawal struct {
	Token        common.Address
	Amount       uint256.Int
	Recipient    common.Address
	ExpectedCost uint256.Int
}

// Kind returns the kind of the payload.
func (*Withdrawal) Kind() Kind { return KindWithdrawal }

// Cost returns the expected cost of the payload.
func (p *Withdrawal) Cost() *uint256.Int { return &p.ExpectedCost }

// MergeBurn is a burn of a pool token in favour of another token in the same pool.
type MergeBurn struct {
	BurnToken   common.Address
	Amount      uint256.Int
	TargetToken common.Address
	// Recipient is the recipient on the target token's home network.
	Recipient    []byte
	ExpectedCost uint256.Int
}

// Kind returns the kind of the payload.
func (*MergeBurn) Kind() Kind { return KindMergeBurn }

// Cost returns the expected cost of the payload.
func (p *MergeBurn) Cost() *uint256.Int { return &p.ExpectedCost }

// RoundRelays announces the relays of a round to another network.
type RoundRelays struct {
	Network string
	Round   uint64
	Relays  []common.Address
	Start   uint64
	End     uint64
}

// Kind returns the kind of the payload.
func (*RoundRelays) Kind() Kind { return KindRoundRelays }

// Cost returns the expected cost of the payload.
func (*RoundRelays) Cost() *uint256.Int { return new(uint256.Int) }

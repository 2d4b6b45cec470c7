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

// Package consensus collects relay votes on cross-chain events.
package consensus

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/wealdtech/bridged/core/payload"
)

// Status is the status of an event.
type Status uint8

const (
	// StatusPending is an event still collecting votes.
	StatusPending Status = iota
	// StatusConfirmed is an event confirmed by a supermajority of its round.
	StatusConfirmed
	// StatusRejected is an event rejected by a supermajority of its round.
	StatusRejected
)

var statusStrings = [...]string{
	"pending",
	"confirmed",
	"rejected",
}

// String returns a string representation of the status.
func (s Status) String() string {
	if int(s) >= len(statusStrings) {
		return "unknown"
	}

	return statusStrings[s]
}

// Terminal returns true if no further votes are accepted.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// Decision is a relay's vote.
type Decision uint8

const (
	// DecisionConfirm is a vote to confirm.
	DecisionConfirm Decision = iota + 1
	// DecisionReject is a vote to reject.
	DecisionReject
)

// String returns a string representation of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionConfirm:
		return "confirm"
	case DecisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Event is a single cross-chain fact subject to threshold confirmation.
type Event struct {
	ID            common.Hash      `json:"id"`
	Configuration common.Address   `json:"configuration"`
	Envelope      payload.Envelope `json:"envelope"`
	Round         uint64           `json:"round"`
	Payload       []byte           `json:"payload"`
	Confirms      []common.Address `json:"confirms"`
	Rejects       []common.Address `json:"rejects"`
	Status        Status           `json:"status"`
	Initializer   common.Address   `json:"initializer"`
	// RequiredVotes is fixed when the event is created.
	RequiredVotes int         `json:"required_votes"`
	Balance       uint256.Int `json:"balance"`
	Closed        bool        `json:"closed"`
}

// HasVoted returns true if the relay has voted on the event.
func (e *Event) HasVoted(relay common.Address) bool {
	return contains(e.Confirms, relay) || contains(e.Rejects, relay)
}

func (e *Event) clone() *Event {
	res := *e
	res.Confirms = append([]common.Address{}, e.Confirms...)
	res.Rejects = append([]common.Address{}, e.Rejects...)

	return &res
}

// EventID derives the identity of an event from its configuration, envelope and payload.
func EventID(configuration common.Address, envelope *payload.Envelope, data []byte) common.Hash {
	buf := make([]byte, 0, common.AddressLength+2*common.HashLength+12+len(data))
	buf = append(buf, configuration.Bytes()...)
	buf = append(buf, envelope.SourceTxRef.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, envelope.Index)
	buf = append(buf, envelope.BlockRef.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, envelope.Timestamp)
	buf = append(buf, data...)

	return crypto.Keccak256Hash(buf)
}

func contains(addrs []common.Address, addr common.Address) bool {
	for i := range addrs {
		if addrs[i] == addr {
			return true
		}
	}

	return false
}

// insertSorted adds an address keeping ascending order.
func insertSorted(addrs []common.Address, addr common.Address) []common.Address {
	pos := len(addrs)
	for i := range addrs {
		if addr.Cmp(addrs[i]) < 0 {
			pos = i
			break
		}
	}
	addrs = append(addrs, common.Address{})
	copy(addrs[pos+1:], addrs[pos:])
	addrs[pos] = addr

	return addrs
}

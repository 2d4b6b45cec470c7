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

// Package rounds maintains the rotating relay rounds.
package rounds

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/wealdtech/bridged/core/types"
)

var (
	// ErrTooFewRelays is returned when a round would have fewer relays than required.
	ErrTooFewRelays = types.NewError(types.KindPrecondition, "not enough relays")
	// ErrTooEarly is returned when a rotation arrives before the current round allows it.
	ErrTooEarly = types.NewError(types.KindPrecondition, "too early to set relays")
	// ErrStartTooEarly is returned when a round would start before the previous round ends plus the gap.
	ErrStartTooEarly = types.NewError(types.KindPrecondition, "round start too early")
	// ErrGapTooShort is returned when rotations arrive too close together.
	ErrGapTooShort = types.NewError(types.KindPrecondition, "round gap too short")
	// ErrUnknownRound is returned when a round does not exist.
	ErrUnknownRound = types.NewError(types.KindNotFound, "unknown round")
	// ErrUnexpectedRound is returned when a rotation names a round other than the next.
	ErrUnexpectedRound = types.NewError(types.KindPrecondition, "unexpected round number")
)

// Config is the configuration of the round registry.
type Config struct {
	// RelayRoundTime is the duration of a round, in seconds.
	RelayRoundTime uint64 `json:"relay_round_time"`
	// TimeBeforeSetRelays is the time before the end of a round from which the next round may be set.
	TimeBeforeSetRelays uint64 `json:"time_before_set_relays"`
	// MinRoundGapTime is the minimum time between a round's end and the next round's start,
	// and between two rotations.
	MinRoundGapTime uint64 `json:"min_round_gap_time"`
	// MinRelaysCount is the minimum number of relays in a round.
	MinRelaysCount int `json:"min_relays_count"`
}

// Round is a time-boxed relay set.
type Round struct {
	Number uint64           `json:"number"`
	Relays []common.Address `json:"relays"`
	Start  uint64           `json:"start"`
	End    uint64           `json:"end"`
	ID     common.Hash      `json:"id"`
}

// RequiredVotes returns the number of votes required for a decision in this round.
func (r *Round) RequiredVotes() int {
	return RequiredVotes(len(r.Relays))
}

// Contains returns true if the address is a relay of the round.
func (r *Round) Contains(addr common.Address) bool {
	for i := range r.Relays {
		if r.Relays[i] == addr {
			return true
		}
	}

	return false
}

// RequiredVotes returns the supermajority for a relay set of the given size.
func RequiredVotes(relays int) int {
	return relays*2/3 + 1
}

// RoundInitialized is emitted when a round is created.
type RoundInitialized struct {
	Number      uint64
	Start       uint64
	End         uint64
	RelaysCount int
	ID          common.Hash
}

// EffectName returns the name of the effect.
func (*RoundInitialized) EffectName() string { return "round_initialized" }

// roundID derives the identity of a round from its contents.
func roundID(number uint64, start uint64, end uint64, relays []common.Address) common.Hash {
	data := make([]byte, 24, 24+len(relays)*common.AddressLength)
	binary.BigEndian.PutUint64(data[0:8], number)
	binary.BigEndian.PutUint64(data[8:16], start)
	binary.BigEndian.PutUint64(data[16:24], end)
	for i := range relays {
		data = append(data, relays[i].Bytes()...)
	}

	return crypto.Keccak256Hash(data)
}

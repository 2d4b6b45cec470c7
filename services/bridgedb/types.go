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


package bridgedb

import (
	"math/big"
	"time"
)

// Round holds information about a relay round.
type Round struct {
	Number uint64
	ID     []byte
	Start  uint64
	End    uint64
	Relays [][]byte
}

// Event holds information about a bridge event.
type Event struct {
	ID            []byte
	Configuration []byte
	Kind          string
	Round         uint64
	// SourceTxRef, SourceIndex and SourceTimestamp locate the event on its source chain.
	SourceTxRef     []byte
	SourceIndex     uint32
	SourceTimestamp uint64
	Initializer     []byte
	RequiredVotes   uint32
	Confirms        uint32
	Rejects         uint32
	Status          string
	Balance         *big.Int
	Closed          bool
}

// Period holds the withdrawal activity of a token over one day.
type Period struct {
	Token      []byte
	ID         uint64
	Total      *big.Int
	Considered *big.Int
}

// PendingWithdrawal holds information about an escrowed withdrawal.
type PendingWithdrawal struct {
	Recipient []byte
	ID        uint64
	Token     []byte
	Amount    *big.Int
	Bounty    *big.Int
	Status    string
	Timestamp uint64
	EventID   []byte
}

// Command holds a journalled command.
type Command struct {
	Sequence  uint64
	TxID      string
	Name      string
	Data      []byte
	Timestamp time.Time
	// Result is "succeeded" or the error returned when applying the command.
	Result  string
	Effects uint32
}

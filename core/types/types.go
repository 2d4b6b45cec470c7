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

// Package types holds the values shared by the bridge core.
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// SecondsPerPeriod is the length of a withdrawal period.
const SecondsPerPeriod = uint64(86400)

// Effect is an externally visible outcome of a state transition.
type Effect interface {
	// EffectName is the name of the effect, used in logs and metrics.
	EffectName() string
}

// PeriodID returns the withdrawal period for a timestamp.
func PeriodID(timestamp uint64) uint64 {
	return timestamp / SecondsPerPeriod
}

// OutboundTransfer is an instruction to move value back to another network.
type OutboundTransfer struct {
	Token     common.Address
	Amount    uint256.Int
	Recipient []byte
	Reason    string
}

// EffectName returns the name of the effect.
func (*OutboundTransfer) EffectName() string { return "outbound_transfer" }

// ZeroAddress is the empty address.
var ZeroAddress = common.Address{}

// NewAmount returns an amount from a uint64.
func NewAmount(val uint64) uint256.Int {
	return *uint256.NewInt(val)
}

// DedupAddresses returns the unique addresses of the input, sorted in ascending order.
func DedupAddresses(addrs []common.Address) []common.Address {
	seen := make(map[common.Address]struct{}, len(addrs))
	res := make([]common.Address, 0, len(addrs))
	for _, addr := range addrs {
		if _, exists := seen[addr]; exists {
			continue
		}
		seen[addr] = struct{}{}
		res = append(res, addr)
	}
	SortAddresses(res)

	return res
}

// SortAddresses sorts addresses in ascending byte order.
func SortAddresses(addrs []common.Address) {
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j].Cmp(addrs[j-1]) < 0; j-- {
			addrs[j], addrs[j-1] = addrs[j-1], addrs[j]
		}
	}
}

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
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

type tokenJSON struct {
	Token        common.Address `json:"token"`
	Limits       *Limits        `json:"limits,omitempty"`
	FeeBps       *uint64        `json:"fee_bps,omitempty"`
	Fees         *uint256.Int   `json:"fees,omitempty"`
	Liquidity    *uint256.Int   `json:"liquidity,omitempty"`
	PendingTotal *uint256.Int   `json:"pending_total,omitempty"`
}

type engineJSON struct {
	Config  Config               `json:"config"`
	Tokens  []*tokenJSON         `json:"tokens"`
	Periods []*Period            `json:"periods"`
	Pending []*PendingWithdrawal `json:"pending"`
}

// MarshalJSON implements json.Marshaler.
func (e *Engine) MarshalJSON() ([]byte, error) {
	tokens := make(map[common.Address]*tokenJSON)
	token := func(addr common.Address) *tokenJSON {
		if _, exists := tokens[addr]; !exists {
			tokens[addr] = &tokenJSON{Token: addr}
		}
		return tokens[addr]
	}
	for addr, limits := range e.limits {
		token(addr).Limits = limits
	}
	for addr, bps := range e.feeBps {
		token(addr).FeeBps = &bps
	}
	for addr, total := range e.fees {
		token(addr).Fees = total
	}
	for addr, total := range e.liquidity {
		token(addr).Liquidity = total
	}
	for addr, total := range e.pendingTotal {
		token(addr).PendingTotal = total
	}

	data := &engineJSON{
		Config:  e.config,
		Tokens:  make([]*tokenJSON, 0, len(tokens)),
		Periods: make([]*Period, 0, len(e.periods)),
		Pending: make([]*PendingWithdrawal, 0),
	}
	for _, t := range tokens {
		data.Tokens = append(data.Tokens, t)
	}
	for _, period := range e.periods {
		data.Periods = append(data.Periods, period)
	}
	for _, records := range e.pending {
		data.Pending = append(data.Pending, records...)
	}

	return json.Marshal(data)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Engine) UnmarshalJSON(input []byte) error {
	var data engineJSON
	if err := json.Unmarshal(input, &data); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}

	res := New(data.Config)
	for _, t := range data.Tokens {
		if t.Limits != nil {
			res.limits[t.Token] = t.Limits
		}
		if t.FeeBps != nil {
			res.feeBps[t.Token] = *t.FeeBps
		}
		if t.Fees != nil {
			res.fees[t.Token] = t.Fees
		}
		if t.Liquidity != nil {
			res.liquidity[t.Token] = t.Liquidity
		}
		if t.PendingTotal != nil {
			res.pendingTotal[t.Token] = t.PendingTotal
		}
	}
	for _, period := range data.Periods {
		res.periods[periodKey{token: period.Token, id: period.ID}] = period
	}
	for _, record := range data.Pending {
		res.pending[record.Recipient] = append(res.pending[record.Recipient], record)
	}
	for recipient, records := range res.pending {
		ordered := make([]*PendingWithdrawal, len(records))
		for _, record := range records {
			if record.ID >= uint64(len(records)) || ordered[record.ID] != nil {
				return errors.New("pending withdrawals out of sequence")
			}
			ordered[record.ID] = record
		}
		res.pending[recipient] = ordered
	}
	*e = *res

	return nil
}

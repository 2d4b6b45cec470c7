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
	"github.com/wealdtech/bridged/core/types"
)

// Config returns the configuration of the engine.
func (e *Engine) Config() Config {
	return e.config
}

// Limits returns the limits of a token.
func (e *Engine) Limits(token common.Address) Limits {
	if limits, exists := e.limits[token]; exists {
		return *limits
	}

	return Limits{}
}

// FeeBps returns the withdrawal fee of a token, in basis points.
func (e *Engine) FeeBps(token common.Address) uint64 {
	if bps, exists := e.feeBps[token]; exists {
		return bps
	}

	return e.config.DefaultFeeBps
}

// Period returns the activity of a token for a period.
func (e *Engine) Period(token common.Address, id uint64) Period {
	if period, exists := e.periods[periodKey{token: token, id: id}]; exists {
		return *period
	}

	return Period{Token: token, ID: id}
}

// PeriodAt returns the activity of a token for the period containing the timestamp.
func (e *Engine) PeriodAt(token common.Address, timestamp uint64) Period {
	return e.Period(token, types.PeriodID(timestamp))
}

// Pending returns a pending withdrawal, resolved or not.
func (e *Engine) Pending(recipient common.Address, id uint64) (*PendingWithdrawal, error) {
	records := e.pending[recipient]
	if id >= uint64(len(records)) {
		return nil, ErrUnknownPending
	}
	res := *records[id]

	return &res, nil
}

// PendingFor returns all pending withdrawals of a recipient, resolved or not.
func (e *Engine) PendingFor(recipient common.Address) []*PendingWithdrawal {
	records := e.pending[recipient]
	res := make([]*PendingWithdrawal, len(records))
	for i := range records {
		record := *records[i]
		res[i] = &record
	}

	return res
}

// PendingTotal returns the sum of open pending withdrawals of a token.
func (e *Engine) PendingTotal(token common.Address) *uint256.Int {
	return value(e.pendingTotal, token)
}

// PendingTotalFor returns the sum of open pending withdrawals of a recipient per token.
func (e *Engine) PendingTotalFor(recipient common.Address) map[common.Address]*uint256.Int {
	res := make(map[common.Address]*uint256.Int)
	for _, record := range e.pending[recipient] {
		if record.Open() {
			accumulate(res, record.Token, &record.Amount)
		}
	}

	return res
}

// Fees returns the withdrawal fees collected for a token.
func (e *Engine) Fees(token common.Address) *uint256.Int {
	return value(e.fees, token)
}

// Liquidity returns the vault balance available for releases of a token.
func (e *Engine) Liquidity(token common.Address) *uint256.Int {
	return value(e.liquidity, token)
}

// Clone returns a deep copy of the engine.
func (e *Engine) Clone() *Engine {
	res := New(e.config)
	for token, limits := range e.limits {
		l := *limits
		res.limits[token] = &l
	}
	for token, bps := range e.feeBps {
		res.feeBps[token] = bps
	}
	for key, period := range e.periods {
		p := *period
		res.periods[key] = &p
	}
	for recipient, records := range e.pending {
		copied := make([]*PendingWithdrawal, len(records))
		for i := range records {
			record := *records[i]
			copied[i] = &record
		}
		res.pending[recipient] = copied
	}
	copyTotals(res.fees, e.fees)
	copyTotals(res.liquidity, e.liquidity)
	copyTotals(res.pendingTotal, e.pendingTotal)

	return res
}

func value(totals map[common.Address]*uint256.Int, token common.Address) *uint256.Int {
	if total, exists := totals[token]; exists {
		return new(uint256.Int).Set(total)
	}

	return new(uint256.Int)
}

func copyTotals(dst map[common.Address]*uint256.Int, src map[common.Address]*uint256.Int) {
	for token, total := range src {
		dst[token] = new(uint256.Int).Set(total)
	}
}

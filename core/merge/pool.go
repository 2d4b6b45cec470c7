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

// Package merge reconciles multiple representations of a foreign asset into one canonical token.
package merge

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/wealdtech/bridged/core/types"
)

// MaxDecimals is the largest supported difference in decimals between two tokens.
const MaxDecimals = 77

var (
	routeSalt = []byte("merge-router")
	poolSalt  = []byte("merge-pool")
)

// ErrAmountOverflow is returned when scaling an amount overflows.
var ErrAmountOverflow = types.NewError(types.KindPrecondition, "scaled amount overflows")

// PoolToken is a member of a merge pool.
type PoolToken struct {
	Token    common.Address `json:"token"`
	Decimals uint8          `json:"decimals"`
	Enabled  bool           `json:"enabled"`
	// HomeChainID and HomeToken identify the token on its home network.
	HomeChainID int32  `json:"home_chain_id"`
	HomeToken   []byte `json:"home_token,omitempty"`
}

// Pool is a set of representations of one asset with a single canon token.
type Pool struct {
	ID     common.Address `json:"id"`
	Nonce  uint64         `json:"nonce"`
	Tokens []*PoolToken   `json:"tokens"`
	Canon  common.Address `json:"canon"`
}

// Token returns the given member of the pool.
func (p *Pool) Token(token common.Address) (*PoolToken, bool) {
	for i := range p.Tokens {
		if p.Tokens[i].Token == token {
			return p.Tokens[i], true
		}
	}

	return nil, false
}

func (p *Pool) clone() *Pool {
	res := *p
	res.Tokens = make([]*PoolToken, len(p.Tokens))
	for i := range p.Tokens {
		token := *p.Tokens[i]
		token.HomeToken = append([]byte{}, p.Tokens[i].HomeToken...)
		res.Tokens[i] = &token
	}

	return &res
}

// Route binds an alien token to a pool.
type Route struct {
	ID         common.Address `json:"id"`
	AlienToken common.Address `json:"alien_token"`
	// Pool is the zero address until set.
	Pool common.Address `json:"pool"`
}

// DeriveRoute returns the identity of the route for an alien token.
func DeriveRoute(proxy common.Address, alienToken common.Address) common.Address {
	return common.BytesToAddress(crypto.Keccak256(routeSalt, proxy.Bytes(), alienToken.Bytes())[12:])
}

// DerivePool returns the identity of the pool deployed with a nonce.
func DerivePool(proxy common.Address, nonce uint64) common.Address {
	return common.BytesToAddress(crypto.Keccak256(poolSalt, proxy.Bytes(), binary.BigEndian.AppendUint64(nil, nonce))[12:])
}

// Scale converts an amount between decimals, rounding down.
func Scale(amount *uint256.Int, from uint8, to uint8) (*uint256.Int, error) {
	switch {
	case from == to:
		return new(uint256.Int).Set(amount), nil
	case to > from:
		if to-from > MaxDecimals {
			return nil, ErrAmountOverflow
		}
		factor := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(to-from)))
		res, overflow := new(uint256.Int).MulOverflow(amount, factor)
		if overflow {
			return nil, ErrAmountOverflow
		}

		return res, nil
	default:
		if from-to > MaxDecimals {
			return new(uint256.Int), nil
		}
		factor := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(from-to)))

		return new(uint256.Int).Div(amount, factor), nil
	}
}

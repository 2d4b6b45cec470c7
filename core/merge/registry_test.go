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

package merge_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/merge"
	"github.com/wealdtech/bridged/core/types"
)

var (
	proxy = common.HexToAddress("0x0000000000000000000000000000000000000100")
	owner = common.HexToAddress("0x0000000000000000000000000000000000000101")
	canon = common.HexToAddress("0x0000000000000000000000000000000000000200")
	alien = common.HexToAddress("0x0000000000000000000000000000000000000201")
	other = common.HexToAddress("0x0000000000000000000000000000000000000202")
)

func poolTokens() []*merge.PoolToken {
	return []*merge.PoolToken{
		{Token: canon, Decimals: 9, HomeChainID: 1, HomeToken: []byte{0x01}},
		{Token: alien, Decimals: 6, HomeChainID: 56, HomeToken: []byte{0x02}},
	}
}

// newRegistry returns a registry with an enabled pool bound to the alien token's route.
func newRegistry(t *testing.T) (*merge.Registry, common.Address) {
	t.Helper()
	registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
	_, _, err := registry.DeployRoute(owner, alien)
	require.NoError(t, err)
	pool, _, err := registry.DeployPool(owner, 0, poolTokens(), 0)
	require.NoError(t, err)
	_, err = registry.EnableAll(owner, pool.ID)
	require.NoError(t, err)
	_, err = registry.SetPool(owner, alien, pool.ID)
	require.NoError(t, err)

	return registry, pool.ID
}

func TestDerive(t *testing.T) {
	registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
	require.Equal(t, registry.DeriveRoute(alien), merge.DeriveRoute(proxy, alien))
	require.NotEqual(t, merge.DeriveRoute(proxy, alien), merge.DeriveRoute(proxy, other))
	require.NotEqual(t, merge.DeriveRoute(proxy, alien), merge.DeriveRoute(owner, alien))
	require.NotEqual(t, merge.DerivePool(proxy, 0), merge.DerivePool(proxy, 1))

	// Identities are known before deployment.
	route, _, err := registry.DeployRoute(owner, alien)
	require.NoError(t, err)
	require.Equal(t, merge.DeriveRoute(proxy, alien), route.ID)
	pool, _, err := registry.DeployPool(owner, 5, poolTokens(), 0)
	require.NoError(t, err)
	require.Equal(t, merge.DerivePool(proxy, 5), pool.ID)
}

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		amount *uint256.Int
		from   uint8
		to     uint8
		res    uint64
		err    string
	}{
		{
			name:   "Same",
			amount: uint256.NewInt(333),
			from:   6,
			to:     6,
			res:    333,
		},
		{
			name:   "Up",
			amount: uint256.NewInt(333),
			from:   6,
			to:     9,
			res:    333000,
		},
		{
			name:   "Down",
			amount: uint256.NewInt(33300),
			from:   9,
			to:     6,
			res:    33,
		},
		{
			name:   "Dust",
			amount: uint256.NewInt(999),
			from:   9,
			to:     6,
			res:    0,
		},
		{
			name:   "Overflow",
			amount: new(uint256.Int).Lsh(uint256.NewInt(1), 250),
			from:   0,
			to:     18,
			err:    "scaled amount overflows",
		},
		{
			name:   "TooManyDecimals",
			amount: uint256.NewInt(1),
			from:   0,
			to:     78,
			err:    "scaled amount overflows",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := merge.Scale(test.amount, test.from, test.to)
			if test.err != "" {
				require.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.res, res.Uint64())
		})
	}
}

func TestDeployPool(t *testing.T) {
	tests := []struct {
		name   string
		caller common.Address
		tokens []*merge.PoolToken
		canon  int
		err    string
	}{
		{
			name:   "NotOwner",
			caller: canon,
			tokens: poolTokens(),
			err:    "caller is not the owner",
		},
		{
			name:   "NoTokens",
			caller: owner,
			err:    "no tokens",
		},
		{
			name:   "CanonOutOfRange",
			caller: owner,
			tokens: poolTokens(),
			canon:  2,
			err:    "invalid canon index",
		},
		{
			name:   "Duplicate",
			caller: owner,
			tokens: append(poolTokens(), &merge.PoolToken{Token: alien, Decimals: 6}),
			err:    "duplicate token",
		},
		{
			name:   "Good",
			caller: owner,
			tokens: poolTokens(),
			canon:  1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
			pool, _, err := registry.DeployPool(test.caller, 0, test.tokens, test.canon)
			if test.err != "" {
				require.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, alien, pool.Canon)
			for _, token := range pool.Tokens {
				require.False(t, token.Enabled)
			}

			_, _, err = registry.DeployPool(owner, 0, poolTokens(), 0)
			require.ErrorIs(t, err, merge.ErrPoolExists)
			_, _, err = registry.DeployPool(owner, 1, poolTokens(), 0)
			require.ErrorIs(t, err, merge.ErrTokenInOtherPool)
		})
	}
}

func TestSetPool(t *testing.T) {
	registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
	pool, _, err := registry.DeployPool(owner, 0, poolTokens(), 0)
	require.NoError(t, err)

	_, err = registry.SetPool(owner, alien, pool.ID)
	require.ErrorIs(t, err, merge.ErrUnknownRoute)

	_, _, err = registry.DeployRoute(owner, alien)
	require.NoError(t, err)
	_, _, err = registry.DeployRoute(owner, alien)
	require.ErrorIs(t, err, merge.ErrRouteExists)
	_, _, err = registry.DeployRoute(owner, other)
	require.NoError(t, err)

	_, err = registry.SetPool(owner, alien, common.HexToAddress("0x01"))
	require.ErrorIs(t, err, merge.ErrUnknownPool)
	_, err = registry.SetPool(owner, alien, pool.ID)
	require.ErrorIs(t, err, merge.ErrTokenDisabled)
	_, err = registry.SetPool(canon, alien, pool.ID)
	require.ErrorIs(t, err, merge.ErrNotOwner)

	_, err = registry.EnableAll(owner, pool.ID)
	require.NoError(t, err)
	_, err = registry.SetPool(owner, other, pool.ID)
	require.ErrorIs(t, err, merge.ErrTokenNotInPool)
	_, err = registry.SetPool(owner, alien, pool.ID)
	require.NoError(t, err)

	route, err := registry.Route(alien)
	require.NoError(t, err)
	require.Equal(t, pool.ID, route.Pool)
	require.True(t, registry.Routed(alien))
	require.False(t, registry.Routed(other))
}

func TestOnDeposit(t *testing.T) {
	registry, _ := newRegistry(t)

	token, minted, effects, err := registry.OnDeposit(alien, uint256.NewInt(333))
	require.NoError(t, err)
	require.Equal(t, canon, token)
	require.Equal(t, uint64(333000), minted.Uint64())
	require.Len(t, effects, 1)

	// Unrouted tokens pass through.
	token, minted, effects, err = registry.OnDeposit(other, uint256.NewInt(333))
	require.NoError(t, err)
	require.Equal(t, other, token)
	require.Equal(t, uint64(333), minted.Uint64())
	require.Empty(t, effects)
}

func TestOnDepositDisabled(t *testing.T) {
	registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
	_, _, err := registry.DeployRoute(owner, alien)
	require.NoError(t, err)
	pool, _, err := registry.DeployPool(owner, 0, poolTokens(), 0)
	require.NoError(t, err)
	_, err = registry.EnableAll(owner, pool.ID)
	require.NoError(t, err)
	_, err = registry.SetPool(owner, alien, pool.ID)
	require.NoError(t, err)

	_, err = registry.DisableAll(other, pool.ID)
	require.ErrorIs(t, err, merge.ErrNotOwner)
	_, err = registry.DisableAll(owner, other)
	require.ErrorIs(t, err, merge.ErrUnknownPool)
	effects, err := registry.DisableAll(owner, pool.ID)
	require.NoError(t, err)
	require.Equal(t, []types.Effect{&merge.PoolDisabled{ID: pool.ID}}, effects)

	// The route stays bound but fails closed.
	require.True(t, registry.Routed(alien))
	_, _, _, err = registry.OnDeposit(alien, uint256.NewInt(1))
	require.ErrorIs(t, err, merge.ErrTokenDisabled)
	_, _, err = registry.OnBurn(alien, uint256.NewInt(1), canon, nil)
	require.ErrorIs(t, err, merge.ErrTokenDisabled)
	_, _, err = registry.OnBurn(canon, uint256.NewInt(1), alien, nil)
	require.ErrorIs(t, err, merge.ErrTokenDisabled)

	// Re-enabling restores conversion.
	_, err = registry.EnableAll(owner, pool.ID)
	require.NoError(t, err)
	_, minted, _, err := registry.OnDeposit(alien, uint256.NewInt(1))
	require.NoError(t, err)
	require.False(t, minted.IsZero())
}

func TestOnBurn(t *testing.T) {
	registry, _ := newRegistry(t)

	minted, effects, err := registry.OnBurn(canon, uint256.NewInt(33300), alien, []byte{0xaa})
	require.NoError(t, err)
	require.Equal(t, uint64(33), minted.Uint64())
	require.Len(t, effects, 1)
	burned, ok := effects[0].(*merge.Burned)
	require.True(t, ok)
	require.Equal(t, int32(56), burned.HomeChainID)
	require.Equal(t, []byte{0x02}, burned.HomeToken)
	require.Equal(t, []byte{0xaa}, burned.Recipient)

	// Dust does not fail.
	minted, _, err = registry.OnBurn(canon, uint256.NewInt(999), alien, nil)
	require.NoError(t, err)
	require.True(t, minted.IsZero())

	_, _, err = registry.OnBurn(other, uint256.NewInt(1), alien, nil)
	require.ErrorIs(t, err, merge.ErrUnknownToken)
	require.Equal(t, types.KindNotFound, types.KindOf(err))
	_, _, err = registry.OnBurn(canon, uint256.NewInt(1), other, nil)
	require.ErrorIs(t, err, merge.ErrTokenNotInPool)
}

func TestOnBurnDisabledDistinct(t *testing.T) {
	registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
	_, _, err := registry.DeployPool(owner, 0, poolTokens(), 0)
	require.NoError(t, err)

	_, _, err = registry.OnBurn(alien, uint256.NewInt(1), canon, nil)
	require.ErrorIs(t, err, merge.ErrTokenDisabled)
	require.Equal(t, types.KindPrecondition, types.KindOf(err))
	_, _, err = registry.OnBurn(other, uint256.NewInt(1), canon, nil)
	require.Equal(t, types.KindNotFound, types.KindOf(err))
}

// TestRoundTrip checks a deposit followed by a burn back to the alien token never creates value.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		alienDecimals := uint8(rng.Intn(19))
		canonDecimals := uint8(rng.Intn(19))
		registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
		_, _, err := registry.DeployRoute(owner, alien)
		require.NoError(t, err)
		pool, _, err := registry.DeployPool(owner, 0, []*merge.PoolToken{
			{Token: canon, Decimals: canonDecimals},
			{Token: alien, Decimals: alienDecimals},
		}, 0)
		require.NoError(t, err)
		_, err = registry.EnableAll(owner, pool.ID)
		require.NoError(t, err)
		_, err = registry.SetPool(owner, alien, pool.ID)
		require.NoError(t, err)

		amount := uint256.NewInt(rng.Uint64())
		_, minted, _, err := registry.OnDeposit(alien, amount)
		require.NoError(t, err)
		back, _, err := registry.OnBurn(canon, minted, alien, nil)
		require.NoError(t, err)
		require.False(t, back.Gt(amount), "decimals %d->%d amount %s", alienDecimals, canonDecimals, amount)
		if canonDecimals >= alienDecimals {
			require.Equal(t, amount, back)
		}
	}
}

func TestClone(t *testing.T) {
	registry := merge.New(merge.Config{Proxy: proxy, Owner: owner})
	pool, _, err := registry.DeployPool(owner, 0, poolTokens(), 0)
	require.NoError(t, err)

	clone := registry.Clone()
	_, err = clone.EnableAll(owner, pool.ID)
	require.NoError(t, err)

	original, err := registry.Pool(pool.ID)
	require.NoError(t, err)
	require.False(t, original.Tokens[0].Enabled)
}

func TestJSON(t *testing.T) {
	registry, id := newRegistry(t)

	data, err := json.Marshal(registry)
	require.NoError(t, err)
	res := merge.New(merge.Config{})
	require.NoError(t, json.Unmarshal(data, res))

	expected, err := registry.Pool(id)
	require.NoError(t, err)
	pool, err := res.Pool(id)
	require.NoError(t, err)
	require.Equal(t, expected, pool)
	require.True(t, res.Routed(alien))
	_, minted, _, err := res.OnDeposit(alien, uint256.NewInt(333))
	require.NoError(t, err)
	require.Equal(t, uint64(333000), minted.Uint64())
}

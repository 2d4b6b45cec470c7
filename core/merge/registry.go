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

package merge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/wealdtech/bridged/core/types"
)

var (
	// ErrNotOwner is returned when a governance call does not come from the owner.
	ErrNotOwner = types.NewError(types.KindUnauthorized, "caller is not the owner")
	// ErrRouteExists is returned when deploying a route twice.
	ErrRouteExists = types.NewError(types.KindReplay, "route already deployed")
	// ErrPoolExists is returned when deploying a pool twice.
	ErrPoolExists = types.NewError(types.KindReplay, "pool already deployed")
	// ErrUnknownRoute is returned when a route does not exist.
	ErrUnknownRoute = types.NewError(types.KindNotFound, "unknown route")
	// ErrUnknownPool is returned when a pool does not exist.
	ErrUnknownPool = types.NewError(types.KindNotFound, "unknown pool")
	// ErrUnknownToken is returned when a token is in no pool.
	ErrUnknownToken = types.NewError(types.KindNotFound, "unknown token")
	// ErrTokenDisabled is returned when operating on a disabled pool token.
	ErrTokenDisabled = types.NewError(types.KindPrecondition, "token disabled")
	// ErrTokenNotInPool is returned when a token is not a member of the pool.
	ErrTokenNotInPool = types.NewError(types.KindPrecondition, "token not in pool")
	// ErrTokenInOtherPool is returned when a token is already a member of a pool.
	ErrTokenInOtherPool = types.NewError(types.KindPrecondition, "token already in a pool")
	// ErrInvalidCanon is returned when the canon index is out of range.
	ErrInvalidCanon = types.NewError(types.KindPrecondition, "invalid canon index")
	// ErrDuplicateToken is returned when a pool lists a token twice.
	ErrDuplicateToken = types.NewError(types.KindPrecondition, "duplicate token")
	// ErrNoTokens is returned when a pool has no tokens.
	ErrNoTokens = types.NewError(types.KindPrecondition, "no tokens")
)

// Config is the configuration of the merge registry.
type Config struct {
	// Proxy is the identity routes and pools are derived from.
	Proxy common.Address `json:"proxy"`
	// Owner may deploy and bind routes and pools.
	Owner common.Address `json:"owner"`
}

// Registry holds merge routes and pools.
type Registry struct {
	config    Config
	routes    map[common.Address]*Route
	pools     map[common.Address]*Pool
	tokenPool map[common.Address]common.Address
}

// New creates an empty registry.
func New(config Config) *Registry {
	return &Registry{
		config:    config,
		routes:    make(map[common.Address]*Route),
		pools:     make(map[common.Address]*Pool),
		tokenPool: make(map[common.Address]common.Address),
	}
}

// DeriveRoute returns the identity of the route for an alien token.
func (r *Registry) DeriveRoute(alienToken common.Address) common.Address {
	return DeriveRoute(r.config.Proxy, alienToken)
}

// DerivePool returns the identity of the pool deployed with a nonce.
func (r *Registry) DerivePool(nonce uint64) common.Address {
	return DerivePool(r.config.Proxy, nonce)
}

// DeployRoute creates the route for an alien token, not yet bound to a pool.
func (r *Registry) DeployRoute(caller common.Address, alienToken common.Address) (*Route, []types.Effect, error) {
	if caller != r.config.Owner {
		return nil, nil, ErrNotOwner
	}
	if _, exists := r.routes[alienToken]; exists {
		return nil, nil, ErrRouteExists
	}

	route := &Route{
		ID:         r.DeriveRoute(alienToken),
		AlienToken: alienToken,
	}
	r.routes[alienToken] = route

	return route, []types.Effect{
		&RouteDeployed{ID: route.ID, AlienToken: alienToken},
	}, nil
}

// DeployPool creates a pool with all tokens disabled.
func (r *Registry) DeployPool(caller common.Address,
	nonce uint64,
	tokens []*PoolToken,
	canonIndex int,
) (
	*Pool,
	[]types.Effect,
	error,
) {
	if caller != r.config.Owner {
		return nil, nil, ErrNotOwner
	}
	id := r.DerivePool(nonce)
	if _, exists := r.pools[id]; exists {
		return nil, nil, ErrPoolExists
	}
	if len(tokens) == 0 {
		return nil, nil, ErrNoTokens
	}
	if canonIndex < 0 || canonIndex >= len(tokens) {
		return nil, nil, ErrInvalidCanon
	}

	pool := &Pool{
		ID:     id,
		Nonce:  nonce,
		Tokens: make([]*PoolToken, 0, len(tokens)),
		Canon:  tokens[canonIndex].Token,
	}
	for _, token := range tokens {
		if _, exists := pool.Token(token.Token); exists {
			return nil, nil, ErrDuplicateToken
		}
		if _, exists := r.tokenPool[token.Token]; exists {
			return nil, nil, ErrTokenInOtherPool
		}
		pool.Tokens = append(pool.Tokens, &PoolToken{
			Token:       token.Token,
			Decimals:    token.Decimals,
			HomeChainID: token.HomeChainID,
			HomeToken:   append([]byte{}, token.HomeToken...),
		})
	}
	r.pools[id] = pool
	for _, token := range pool.Tokens {
		r.tokenPool[token.Token] = id
	}

	return pool, []types.Effect{
		&PoolDeployed{ID: id, Canon: pool.Canon},
	}, nil
}

// EnableAll enables every token of a pool.
func (r *Registry) EnableAll(caller common.Address, id common.Address) ([]types.Effect, error) {
	if err := r.setEnabled(caller, id, true); err != nil {
		return nil, err
	}

	return []types.Effect{&PoolEnabled{ID: id}}, nil
}

// DisableAll disables every token of a pool.
// Deposits and burns through the pool fail until it is enabled again.
func (r *Registry) DisableAll(caller common.Address, id common.Address) ([]types.Effect, error) {
	if err := r.setEnabled(caller, id, false); err != nil {
		return nil, err
	}

	return []types.Effect{&PoolDisabled{ID: id}}, nil
}

func (r *Registry) setEnabled(caller common.Address, id common.Address, enabled bool) error {
	if caller != r.config.Owner {
		return ErrNotOwner
	}
	pool, exists := r.pools[id]
	if !exists {
		return ErrUnknownPool
	}
	for _, token := range pool.Tokens {
		token.Enabled = enabled
	}

	return nil
}

// SetPool binds the route of an alien token to a pool.
// Re-pointing is allowed but the same enablement checks apply.
func (r *Registry) SetPool(caller common.Address,
	alienToken common.Address,
	id common.Address,
) (
	[]types.Effect,
	error,
) {
	if caller != r.config.Owner {
		return nil, ErrNotOwner
	}
	route, exists := r.routes[alienToken]
	if !exists {
		return nil, ErrUnknownRoute
	}
	pool, exists := r.pools[id]
	if !exists {
		return nil, ErrUnknownPool
	}
	token, exists := pool.Token(alienToken)
	if !exists {
		return nil, ErrTokenNotInPool
	}
	if !token.Enabled {
		return nil, ErrTokenDisabled
	}
	canon, _ := pool.Token(pool.Canon)
	if !canon.Enabled {
		return nil, ErrTokenDisabled
	}
	route.Pool = id

	return []types.Effect{&RoutePoolSet{AlienToken: alienToken, Pool: id}}, nil
}

// Routed returns true if deposits of the token pass through a pool.
func (r *Registry) Routed(token common.Address) bool {
	route, exists := r.routes[token]

	return exists && route.Pool != (common.Address{})
}

// OnDeposit converts a deposit of an alien token to canon.
// Unrouted tokens and the canon token pass through unchanged.
// The sub-unit remainder of a conversion is discarded.
func (r *Registry) OnDeposit(alienToken common.Address,
	amount *uint256.Int,
) (
	common.Address,
	*uint256.Int,
	[]types.Effect,
	error,
) {
	if !r.Routed(alienToken) {
		return alienToken, new(uint256.Int).Set(amount), nil, nil
	}
	pool := r.pools[r.routes[alienToken].Pool]
	token, exists := pool.Token(alienToken)
	if !exists {
		return common.Address{}, nil, nil, ErrTokenNotInPool
	}
	if !token.Enabled {
		return common.Address{}, nil, nil, ErrTokenDisabled
	}
	if alienToken == pool.Canon {
		return alienToken, new(uint256.Int).Set(amount), nil, nil
	}
	canon, _ := pool.Token(pool.Canon)
	if !canon.Enabled {
		return common.Address{}, nil, nil, ErrTokenDisabled
	}

	minted, err := Scale(amount, token.Decimals, canon.Decimals)
	if err != nil {
		return common.Address{}, nil, nil, err
	}

	return pool.Canon, minted, []types.Effect{
		&Deposited{
			AlienToken: alienToken,
			Canon:      pool.Canon,
			Amount:     *amount,
			Minted:     *minted,
		},
	}, nil
}

// OnBurn burns a pool token in favour of another member of the same pool.
// Burning never fails on dust; the target amount is rounded down.
func (r *Registry) OnBurn(tokenAddr common.Address,
	amount *uint256.Int,
	targetAddr common.Address,
	recipient []byte,
) (
	*uint256.Int,
	[]types.Effect,
	error,
) {
	id, exists := r.tokenPool[tokenAddr]
	if !exists {
		return nil, nil, ErrUnknownToken
	}
	pool := r.pools[id]
	token, _ := pool.Token(tokenAddr)
	if !token.Enabled {
		return nil, nil, ErrTokenDisabled
	}
	target, exists := pool.Token(targetAddr)
	if !exists {
		return nil, nil, ErrTokenNotInPool
	}
	if !target.Enabled {
		return nil, nil, ErrTokenDisabled
	}

	minted, err := Scale(amount, token.Decimals, target.Decimals)
	if err != nil {
		return nil, nil, err
	}

	return minted, []types.Effect{
		&Burned{
			Token:       tokenAddr,
			TargetToken: targetAddr,
			Amount:      *amount,
			Minted:      *minted,
			HomeChainID: target.HomeChainID,
			HomeToken:   append([]byte{}, target.HomeToken...),
			Recipient:   append([]byte{}, recipient...),
		},
	}, nil
}

// Route returns the route of an alien token.
func (r *Registry) Route(alienToken common.Address) (*Route, error) {
	route, exists := r.routes[alienToken]
	if !exists {
		return nil, ErrUnknownRoute
	}
	res := *route

	return &res, nil
}

// Pool returns the given pool.
func (r *Registry) Pool(id common.Address) (*Pool, error) {
	pool, exists := r.pools[id]
	if !exists {
		return nil, ErrUnknownPool
	}

	return pool.clone(), nil
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	res := New(r.config)
	for token, route := range r.routes {
		copied := *route
		res.routes[token] = &copied
	}
	for id, pool := range r.pools {
		res.pools[id] = pool.clone()
	}
	for token, id := range r.tokenPool {
		res.tokenPool[token] = id
	}

	return res
}

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
)

// RouteDeployed is emitted when a route is created.
type RouteDeployed struct {
	ID         common.Address
	AlienToken common.Address
}

// EffectName returns the name of the effect.
func (*RouteDeployed) EffectName() string { return "merge_route_deployed" }

// PoolDeployed is emitted when a pool is created.
type PoolDeployed struct {
	ID    common.Address
	Canon common.Address
}

// EffectName returns the name of the effect.
func (*PoolDeployed) EffectName() string { return "merge_pool_deployed" }

// PoolEnabled is emitted when every token of a pool is enabled.
type PoolEnabled struct {
	ID common.Address
}

// EffectName returns the name of the effect.
func (*PoolEnabled) EffectName() string { return "merge_pool_enabled" }

// PoolDisabled is emitted when every token of a pool is disabled.
type PoolDisabled struct {
	ID common.Address
}

// EffectName returns the name of the effect.
func (*PoolDisabled) EffectName() string { return "merge_pool_disabled" }

// RoutePoolSet is emitted when a route is bound to a pool.
type RoutePoolSet struct {
	AlienToken common.Address
	Pool       common.Address
}

// EffectName returns the name of the effect.
func (*RoutePoolSet) EffectName() string { return "merge_route_pool_set" }

// Deposited is emitted when an alien deposit is converted to canon.
type Deposited struct {
	AlienToken common.Address
	Canon      common.Address
	Amount     uint256.Int
	Minted     uint256.Int
}

// EffectName returns the name of the effect.
func (*Deposited) EffectName() string { return "merge_deposited" }

// Burned is emitted when a pool token is burned in favour of another.
// The outbound event is addressed to the target token's home identity.
type Burned struct {
	Token       common.Address
	TargetToken common.Address
	Amount      uint256.Int
	Minted      uint256.Int
	HomeChainID int32
	HomeToken   []byte
	Recipient   []byte
}

// EffectName returns the name of the effect.
func (*Burned) EffectName() string { return "merge_burned" }

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


package standard

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/state"
)

func TestConfigDrift(t *testing.T) {
	base := func() *state.Config {
		return &state.Config{
			Owner:    common.HexToAddress("0x01"),
			Approver: common.HexToAddress("0x02"),
			Configurations: map[common.Address]payload.Kind{
				common.HexToAddress("0x03"): payload.KindWithdrawal,
			},
			Networks:      []string{"ton"},
			Rounds:        rounds.Config{RelayRoundTime: 100, MinRelaysCount: 2},
			Consensus:     consensus.Config{MinInitialBalance: *uint256.NewInt(10)},
			DefaultFeeBps: 100,
		}
	}

	tests := []struct {
		name   string
		modify func(*state.Config)
		drift  []string
	}{
		{
			name:   "Same",
			modify: func(*state.Config) {},
			drift:  []string{},
		},
		{
			name: "EmptyNetworks",
			modify: func(c *state.Config) {
				c.Networks = []string{}
			},
			drift: []string{"networks"},
		},
		{
			name: "Governance",
			modify: func(c *state.Config) {
				c.Owner = common.HexToAddress("0x11")
				c.Approver = common.HexToAddress("0x12")
			},
			drift: []string{"owner", "approver"},
		},
		{
			name: "Parameters",
			modify: func(c *state.Config) {
				c.Rounds.MinRelaysCount = 3
				c.Consensus.MinInitialBalance = *uint256.NewInt(11)
				c.DefaultFeeBps = 0
			},
			drift: []string{"rounds", "consensus", "default fee"},
		},
		{
			name: "Configurations",
			modify: func(c *state.Config) {
				c.Configurations[common.HexToAddress("0x04")] = payload.KindRotation
				c.MergeProxy = common.HexToAddress("0x05")
			},
			drift: []string{"configurations", "merge proxy"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			configured := base()
			test.modify(configured)
			require.Equal(t, test.drift, configDrift(configured, *base()))
		})
	}
}

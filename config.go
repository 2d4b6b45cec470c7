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


package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/state"
)

// configurationKinds maps configuration keys to the payload kinds they carry.
var configurationKinds = map[string]payload.Kind{
	"rotation":     payload.KindRotation,
	"withdrawal":   payload.KindWithdrawal,
	"merge-burn":   payload.KindMergeBurn,
	"round-relays": payload.KindRoundRelays,
}

// stateConfig builds the state configuration from viper.
func stateConfig() (*state.Config, error) {
	owner, err := address("governance.owner")
	if err != nil {
		return nil, err
	}
	approver, err := address("governance.approver")
	if err != nil {
		return nil, err
	}

	config := &state.Config{
		Owner:          owner,
		Approver:       approver,
		Configurations: make(map[common.Address]payload.Kind),
		Networks:       viper.GetStringSlice("rounds.networks"),
		Rounds: rounds.Config{
			RelayRoundTime:      uint64(viper.GetDuration("rounds.relay-round-time").Seconds()),
			TimeBeforeSetRelays: uint64(viper.GetDuration("rounds.time-before-set-relays").Seconds()),
			MinRoundGapTime:     uint64(viper.GetDuration("rounds.min-round-gap-time").Seconds()),
			MinRelaysCount:      viper.GetInt("rounds.min-relays-count"),
		},
		DefaultFeeBps: viper.GetUint64("limits.default-withdraw-fee-bps"),
	}
	if config.Rounds.RelayRoundTime == 0 {
		return nil, errors.New("no relay round time specified")
	}
	if config.DefaultFeeBps > 10000 {
		return nil, errors.New("default withdraw fee exceeds 10000 basis points")
	}

	for key, kind := range configurationKinds {
		for _, input := range viper.GetStringSlice(fmt.Sprintf("configurations.%s", key)) {
			if !common.IsHexAddress(input) {
				return nil, errors.Errorf("invalid configuration address %q for %s", input, key)
			}
			addr := common.HexToAddress(input)
			if existing, exists := config.Configurations[addr]; exists && existing != kind {
				return nil, errors.Errorf("configuration %s supplied for both %s and %s", addr.Hex(), existing, kind)
			}
			config.Configurations[addr] = kind
		}
	}
	if len(config.Configurations) == 0 {
		return nil, errors.New("no event configurations specified")
	}

	if minBalance := viper.GetString("consensus.min-initial-balance"); minBalance != "" {
		balance, err := uint256.FromDecimal(minBalance)
		if err != nil {
			return nil, errors.Wrap(err, "invalid minimum initial balance")
		}
		config.Consensus = consensus.Config{MinInitialBalance: *balance}
	}

	if viper.GetString("merge.proxy") != "" {
		proxy, err := address("merge.proxy")
		if err != nil {
			return nil, err
		}
		config.MergeProxy = proxy
	}

	return config, nil
}

// genesisRelays returns the relays of the first round.
func genesisRelays() ([]common.Address, error) {
	inputs := viper.GetStringSlice("genesis.relays")
	relays := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		if !common.IsHexAddress(input) {
			return nil, errors.Errorf("invalid genesis relay %q", input)
		}
		relays = append(relays, common.HexToAddress(input))
	}

	return relays, nil
}

func address(key string) (common.Address, error) {
	input := viper.GetString(key)
	if input == "" {
		return common.Address{}, errors.Errorf("no %s specified", key)
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, errors.Errorf("invalid %s", key)
	}

	return common.HexToAddress(input), nil
}

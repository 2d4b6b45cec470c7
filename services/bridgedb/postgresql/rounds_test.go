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


package postgresql_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/services/bridgedb"
)

func TestRounds(t *testing.T) {
	ctx := context.Background()
	s := newService(ctx, t)

	ctx, cancel, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer cancel()

	for i := uint64(1000000); i < 1000003; i++ {
		require.NoError(t, s.SetRound(ctx, &bridgedb.Round{
			Number: i,
			ID:     common.BigToHash(common.Big1).Bytes(),
			Start:  i * 100,
			End:    i*100 + 100,
			Relays: [][]byte{
				common.HexToAddress("0x0000000000000000000000000000000000000001").Bytes(),
				common.HexToAddress("0x0000000000000000000000000000000000000002").Bytes(),
			},
		}))
	}

	from := uint64(1000000)
	tests := []struct {
		name    string
		filter  *bridgedb.RoundFilter
		numbers []uint64
	}{
		{
			name:    "Earliest",
			filter:  &bridgedb.RoundFilter{From: &from, Limit: 2},
			numbers: []uint64{1000000, 1000001},
		},
		{
			name:    "Latest",
			filter:  &bridgedb.RoundFilter{From: &from, Limit: 2, Order: bridgedb.OrderLatest},
			numbers: []uint64{1000001, 1000002},
		},
		{
			name:    "All",
			filter:  &bridgedb.RoundFilter{From: &from},
			numbers: []uint64{1000000, 1000001, 1000002},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rounds, err := s.Rounds(ctx, test.filter)
			require.NoError(t, err)
			numbers := make([]uint64, len(rounds))
			for i := range rounds {
				numbers[i] = rounds[i].Number
				require.Len(t, rounds[i].Relays, 2)
			}
			expected, err := json.Marshal(test.numbers)
			require.NoError(t, err)
			actual, err := json.Marshal(numbers)
			require.NoError(t, err)
			require.Equal(t, string(expected), string(actual))
		})
	}
}

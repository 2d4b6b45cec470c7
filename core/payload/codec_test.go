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

package payload_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/payload"
)

func TestDecode(t *testing.T) {
	withdrawal, err := payload.Encode(&payload.Withdrawal{
		Token:        common.HexToAddress("0x0a"),
		Amount:       *uint256.NewInt(501),
		Recipient:    common.HexToAddress("0x0b"),
		ExpectedCost: *uint256.NewInt(33),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		kind payload.Kind
		err  string
	}{
		{
			name: "Nil",
			err:  "empty payload",
		},
		{
			name: "UnknownKind",
			data: []byte{0x7f, 0xc0},
			err:  "unknown payload kind 127",
		},
		{
			name: "Truncated",
			data: withdrawal[:len(withdrawal)-2],
			kind: payload.KindWithdrawal,
			err:  "invalid withdrawal payload: rlp: value size exceeds available input length",
		},
		{
			name: "TrailingData",
			data: append(append([]byte{}, withdrawal...), 0x01),
			err:  "invalid withdrawal payload: rlp: input contains more than one value",
		},
		{
			name: "Good",
			data: withdrawal,
			kind: payload.KindWithdrawal,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := payload.Decode(test.data)
			if test.err != "" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.kind, res.Kind())
		})
	}
}

func TestWithdrawalFields(t *testing.T) {
	input := &payload.Withdrawal{
		Token:        common.HexToAddress("0x0a"),
		Amount:       *uint256.NewInt(501),
		Recipient:    common.HexToAddress("0x0b"),
		ExpectedCost: *uint256.NewInt(33),
	}
	data, err := payload.Encode(input)
	require.NoError(t, err)
	require.Equal(t, byte(payload.KindWithdrawal), data[0])

	res, err := payload.Decode(data)
	require.NoError(t, err)
	require.Equal(t, input, res)
	require.Equal(t, uint64(33), res.Cost().Uint64())
}

func TestRotationFields(t *testing.T) {
	input := &payload.Rotation{
		Round:     2,
		Relays:    []common.Address{common.HexToAddress("0x01"), common.HexToAddress("0x02")},
		StartTime: 1000,
	}
	data, err := payload.Encode(input)
	require.NoError(t, err)

	res, err := payload.Decode(data)
	require.NoError(t, err)
	rotation, ok := res.(*payload.Rotation)
	require.True(t, ok)
	require.Equal(t, input.Relays, rotation.Relays)
	require.Equal(t, uint64(1000), rotation.StartTime)
	require.True(t, rotation.Cost().IsZero())
}

func TestKindFromString(t *testing.T) {
	require.Equal(t, payload.KindMergeBurn, payload.KindFromString("merge burn"))
	require.Equal(t, payload.KindUnknown, payload.KindFromString("bogus"))
	require.Equal(t, "round relays", payload.KindRoundRelays.String())
}

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

package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/types"
)

func TestKindOf(t *testing.T) {
	replay := types.NewError(types.KindReplay, "seen")

	tests := []struct {
		name string
		err  error
		kind types.Kind
	}{
		{
			name: "Nil",
			kind: types.KindUnknown,
		},
		{
			name: "Plain",
			err:  errors.New("plain"),
			kind: types.KindUnknown,
		},
		{
			name: "Direct",
			err:  replay,
			kind: types.KindReplay,
		},
		{
			name: "Wrapped",
			err:  errors.Wrap(errors.Wrap(replay, "inner"), "outer"),
			kind: types.KindReplay,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.kind, types.KindOf(test.err))
		})
	}
}

func TestKindString(t *testing.T) {
	require.Equal(t, "not found", types.KindNotFound.String())
	require.Equal(t, "unknown", types.Kind(99).String())
}

func TestPeriodID(t *testing.T) {
	require.Equal(t, uint64(0), types.PeriodID(111))
	require.Equal(t, uint64(0), types.PeriodID(86399))
	require.Equal(t, uint64(1), types.PeriodID(86400))
}

func TestDedupAddresses(t *testing.T) {
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")
	c := common.HexToAddress("0x03")

	require.Equal(t, []common.Address{a, b, c}, types.DedupAddresses([]common.Address{c, a, b, a, c}))
	require.Empty(t, types.DedupAddresses(nil))
}

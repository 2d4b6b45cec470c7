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


package standard_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/services/clock/standard"
)

func TestService(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params []standard.Parameter
		err    string
	}{
		{
			name: "TimeFuncNil",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
				standard.WithTimeFunc(nil),
			},
			err: "problem with parameters: no time function specified",
		},
		{
			name: "Good",
			params: []standard.Parameter{
				standard.WithLogLevel(zerolog.Disabled),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := standard.New(ctx, test.params...)
			if test.err != "" {
				require.EqualError(t, err, test.err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTimes(t *testing.T) {
	fixed := time.Unix(86400*3+100, 0)
	s, err := standard.New(context.Background(),
		standard.WithLogLevel(zerolog.Disabled),
		standard.WithTimeFunc(func() time.Time { return fixed }),
		standard.WithOffset(time.Hour),
	)
	require.NoError(t, err)

	require.Equal(t, uint64(86400*3+100+3600), s.Timestamp())
	require.Equal(t, uint64(3), s.CurrentPeriod())
	require.True(t, time.Unix(86400*3, 0).Equal(s.PeriodStart(3)))

	preEpoch, err := standard.New(context.Background(),
		standard.WithLogLevel(zerolog.Disabled),
		standard.WithTimeFunc(func() time.Time { return time.Unix(-10, 0) }),
	)
	require.NoError(t, err)
	require.Equal(t, uint64(0), preEpoch.Timestamp())
}

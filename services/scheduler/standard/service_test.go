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
	"github.com/wealdtech/bridged/services/scheduler"
	"github.com/wealdtech/bridged/services/scheduler/standard"
	"go.uber.org/atomic"
)

func TestPeriodicJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := standard.New(ctx, standard.WithLogLevel(zerolog.Disabled))
	require.NoError(t, err)

	runs := atomic.NewUint32(0)
	runtimeFunc := func(_ context.Context, _ interface{}) (time.Time, error) {
		if runs.Load() >= 3 {
			return time.Time{}, scheduler.ErrNoMoreInstances
		}
		return time.Now().Add(10 * time.Millisecond), nil
	}
	jobFunc := func(_ context.Context, _ interface{}) {
		runs.Inc()
	}

	require.NoError(t, s.SchedulePeriodicJob(ctx, "test", "Test job", runtimeFunc, nil, jobFunc, nil))
	require.ErrorIs(t, s.SchedulePeriodicJob(ctx, "test", "Test job", runtimeFunc, nil, jobFunc, nil), scheduler.ErrJobAlreadyExists)

	require.Eventually(t, func() bool {
		return runs.Load() == 3 && !s.JobExists(ctx, "Test job")
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCancelJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := standard.New(ctx, standard.WithLogLevel(zerolog.Disabled))
	require.NoError(t, err)

	runtimeFunc := func(_ context.Context, _ interface{}) (time.Time, error) {
		return time.Now().Add(time.Hour), nil
	}
	jobFunc := func(_ context.Context, _ interface{}) {}

	require.ErrorIs(t, s.CancelJob(ctx, "Missing"), scheduler.ErrNoSuchJob)
	require.NoError(t, s.SchedulePeriodicJob(ctx, "test", "B", runtimeFunc, nil, jobFunc, nil))
	require.NoError(t, s.SchedulePeriodicJob(ctx, "test", "A", runtimeFunc, nil, jobFunc, nil))
	require.Equal(t, []string{"A", "B"}, s.ListJobs(ctx))

	require.NoError(t, s.CancelJob(ctx, "A"))
	require.False(t, s.JobExists(ctx, "A"))
	require.True(t, s.JobExists(ctx, "B"))
}

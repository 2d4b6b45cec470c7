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


package scheduler

import (
	"context"
	"errors"
	"time"
)

// JobFunc is the type for jobs.
type JobFunc func(context.Context, interface{})

// RuntimeFunc is the type of a function that generates the next runtime.
type RuntimeFunc func(context.Context, interface{}) (time.Time, error)

// ErrNoMoreInstances is returned by the runtime generator when it has no more instances.
var ErrNoMoreInstances = errors.New("no more instances")

// ErrJobAlreadyExists is returned when a job with the same name is already scheduled.
var ErrJobAlreadyExists = errors.New("job already exists")

// ErrNoSuchJob is returned when the scheduler is asked to act on an unknown job.
var ErrNoSuchJob = errors.New("no such job")

// Service is the interface for schedulers.
type Service interface {
	// SchedulePeriodicJob schedules a job to run in a loop.
	// The loop starts by calling runtimeFunc, which sets the time for the first run.
	// Once the time as specified by runtimeFunc is met, jobFunc is called.
	// Once jobFunc returns, go back to the beginning of the loop.
	SchedulePeriodicJob(ctx context.Context,
		class string,
		name string,
		runtimeFunc RuntimeFunc,
		runtimeData interface{},
		jobFunc JobFunc,
		jobData interface{},
	) error

	// CancelJob cancels a known job.
	CancelJob(ctx context.Context, name string) error

	// JobExists returns true if a job exists.
	JobExists(ctx context.Context, name string) bool

	// ListJobs returns the names of all jobs.
	ListJobs(ctx context.Context) []string
}

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
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"github.com/wealdtech/bridged/services/scheduler"
)

// job is a scheduled periodic job.
type job struct {
	class  string
	cancel context.CancelFunc
}

// Service is a scheduler service.
type Service struct {
	jobs      map[string]*job
	jobsMutex deadlock.RWMutex
}

// module-wide log.
var log zerolog.Logger

// New creates a new scheduling service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "scheduler").Str("impl", "standard").Logger().Level(parameters.logLevel)

	if err := registerMetrics(ctx, parameters.monitor); err != nil {
		return nil, errors.New("failed to register metrics")
	}

	return &Service{
		jobs: make(map[string]*job),
	}, nil
}

// SchedulePeriodicJob schedules a job to run in a loop.
func (s *Service) SchedulePeriodicJob(ctx context.Context,
	class string,
	name string,
	runtimeFunc scheduler.RuntimeFunc,
	runtimeData interface{},
	jobFunc scheduler.JobFunc,
	jobData interface{},
) error {
	if name == "" {
		return errors.New("no name supplied")
	}
	if runtimeFunc == nil {
		return errors.New("no runtime function supplied")
	}
	if jobFunc == nil {
		return errors.New("no job function supplied")
	}

	s.jobsMutex.Lock()
	if _, exists := s.jobs[name]; exists {
		s.jobsMutex.Unlock()
		return scheduler.ErrJobAlreadyExists
	}
	jobCtx, cancel := context.WithCancel(ctx)
	j := &job{
		class:  class,
		cancel: cancel,
	}
	s.jobs[name] = j
	s.jobsMutex.Unlock()
	monitorJobScheduled(class)

	go s.runPeriodicJob(jobCtx, j, name, runtimeFunc, runtimeData, jobFunc, jobData)

	return nil
}

func (s *Service) runPeriodicJob(ctx context.Context,
	j *job,
	name string,
	runtimeFunc scheduler.RuntimeFunc,
	runtimeData interface{},
	jobFunc scheduler.JobFunc,
	jobData interface{},
) {
	log := log.With().Str("job", name).Logger()
	defer s.finishJob(j, name)

	for {
		runtime, err := runtimeFunc(ctx, runtimeData)
		if errors.Is(err, scheduler.ErrNoMoreInstances) {
			log.Trace().Msg("No more instances; period job stopping")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to obtain runtime; periodic job stopping")
			return
		}

		timer := time.NewTimer(time.Until(runtime))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Trace().Msg("Context done; periodic job stopping")
			return
		case <-timer.C:
			log.Trace().Msg("Running periodic job")
			started := time.Now()
			jobFunc(ctx, jobData)
			monitorJobCompleted(j.class, time.Since(started))
		}
	}
}

// finishJob removes a job that has stopped of its own accord.
// A job that has been cancelled, or replaced under the same name, is left alone.
func (s *Service) finishJob(j *job, name string) {
	s.jobsMutex.Lock()
	if current, exists := s.jobs[name]; exists && current == j {
		j.cancel()
		delete(s.jobs, name)
		monitorJobCancelled(j.class)
	}
	s.jobsMutex.Unlock()
}

// CancelJob cancels a known job.
func (s *Service) CancelJob(_ context.Context, name string) error {
	s.jobsMutex.Lock()
	job, exists := s.jobs[name]
	if !exists {
		s.jobsMutex.Unlock()
		return scheduler.ErrNoSuchJob
	}
	delete(s.jobs, name)
	s.jobsMutex.Unlock()

	job.cancel()
	monitorJobCancelled(job.class)

	return nil
}

// JobExists returns true if a job exists.
func (s *Service) JobExists(_ context.Context, name string) bool {
	s.jobsMutex.RLock()
	_, exists := s.jobs[name]
	s.jobsMutex.RUnlock()

	return exists
}

// ListJobs returns the names of all jobs.
func (s *Service) ListJobs(_ context.Context) []string {
	s.jobsMutex.RLock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	s.jobsMutex.RUnlock()
	sort.Strings(names)

	return names
}

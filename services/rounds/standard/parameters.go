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
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/clock"
	"github.com/wealdtech/bridged/services/ledger"
	"github.com/wealdtech/bridged/services/metrics"
	"github.com/wealdtech/bridged/services/scheduler"
)

type parameters struct {
	logLevel       zerolog.Level
	monitor        metrics.Service
	scheduler      scheduler.Service
	clock          clock.Service
	stateProvider  ledger.StateProvider
	roundsProvider bridgedb.RoundsProvider
	interval       time.Duration
}

// Parameter is the interface for service parameters.
type Parameter interface {
	apply(p *parameters)
}

type parameterFunc func(*parameters)

func (f parameterFunc) apply(p *parameters) {
	f(p)
}

// WithLogLevel sets the log level for the module.
func WithLogLevel(logLevel zerolog.Level) Parameter {
	return parameterFunc(func(p *parameters) {
		p.logLevel = logLevel
	})
}

// WithMonitor sets the monitor for the module.
func WithMonitor(monitor metrics.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithScheduler sets the scheduler for the module.
func WithScheduler(schedulerSvc scheduler.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.scheduler = schedulerSvc
	})
}

// WithClock sets the clock for the module.
func WithClock(clock clock.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.clock = clock
	})
}

// WithStateProvider sets the provider of the ledger state.
func WithStateProvider(provider ledger.StateProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.stateProvider = provider
	})
}

// WithRoundsProvider sets the provider for stored rounds.
func WithRoundsProvider(provider bridgedb.RoundsProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.roundsProvider = provider
	})
}

// WithInterval sets the interval between checks.
func WithInterval(interval time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.interval = interval
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		interval: time.Minute,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.scheduler == nil {
		return nil, errors.New("no scheduler specified")
	}
	if parameters.clock == nil {
		return nil, errors.New("no clock specified")
	}
	if parameters.stateProvider == nil {
		return nil, errors.New("no state provider specified")
	}
	if parameters.roundsProvider == nil {
		return nil, errors.New("no rounds provider specified")
	}
	if parameters.interval == 0 {
		return nil, errors.New("no interval specified")
	}

	return &parameters, nil
}

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


package http

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/ledger"
	"github.com/wealdtech/bridged/services/metrics"
)

type parameters struct {
	logLevel                   zerolog.Level
	monitor                    metrics.Service
	listenAddress              string
	submitter                  ledger.Submitter
	stateProvider              ledger.StateProvider
	roundsMonitor              RoundsMonitor
	roundsProvider             bridgedb.RoundsProvider
	eventsProvider             bridgedb.EventsProvider
	pendingWithdrawalsProvider bridgedb.PendingWithdrawalsProvider
	commandsProvider           bridgedb.CommandsProvider
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

// WithListenAddress sets the address on which to listen.
func WithListenAddress(address string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.listenAddress = address
	})
}

// WithSubmitter sets the submitter of commands.
func WithSubmitter(submitter ledger.Submitter) Parameter {
	return parameterFunc(func(p *parameters) {
		p.submitter = submitter
	})
}

// WithStateProvider sets the provider of the ledger state.
func WithStateProvider(provider ledger.StateProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.stateProvider = provider
	})
}

// WithRoundsMonitor sets the rounds monitor.
func WithRoundsMonitor(monitor RoundsMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.roundsMonitor = monitor
	})
}

// WithRoundsProvider sets the provider for stored rounds.
func WithRoundsProvider(provider bridgedb.RoundsProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.roundsProvider = provider
	})
}

// WithEventsProvider sets the provider for stored events.
func WithEventsProvider(provider bridgedb.EventsProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.eventsProvider = provider
	})
}

// WithPendingWithdrawalsProvider sets the provider for stored pending withdrawals.
func WithPendingWithdrawalsProvider(provider bridgedb.PendingWithdrawalsProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.pendingWithdrawalsProvider = provider
	})
}

// WithCommandsProvider sets the provider for the command journal.
func WithCommandsProvider(provider bridgedb.CommandsProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.commandsProvider = provider
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.listenAddress == "" {
		return nil, errors.New("no listen address specified")
	}
	if parameters.submitter == nil {
		return nil, errors.New("no submitter specified")
	}
	if parameters.stateProvider == nil {
		return nil, errors.New("no state provider specified")
	}
	if parameters.roundsProvider == nil {
		return nil, errors.New("no rounds provider specified")
	}
	if parameters.eventsProvider == nil {
		return nil, errors.New("no events provider specified")
	}
	if parameters.pendingWithdrawalsProvider == nil {
		return nil, errors.New("no pending withdrawals provider specified")
	}
	if parameters.commandsProvider == nil {
		return nil, errors.New("no commands provider specified")
	}

	return &parameters, nil
}

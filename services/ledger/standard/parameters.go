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

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/clock"
	"github.com/wealdtech/bridged/services/metrics"
)

type parameters struct {
	logLevel         zerolog.Level
	monitor          metrics.Service
	clock            clock.Service
	db               bridgedb.Service
	config           *state.Config
	genesisRelays    []common.Address
	genesisStart     uint64
	snapshotInterval uint64
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

// WithClock sets the clock for the module.
func WithClock(clock clock.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.clock = clock
	})
}

// WithBridgeDB sets the database for the module.
func WithBridgeDB(db bridgedb.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.db = db
	})
}

// WithConfig sets the configuration of a new state.
// It is ignored if the state is restored from the database.
func WithConfig(config *state.Config) Parameter {
	return parameterFunc(func(p *parameters) {
		p.config = config
	})
}

// WithGenesisRelays sets the relays of the first round of a new state.
func WithGenesisRelays(relays []common.Address) Parameter {
	return parameterFunc(func(p *parameters) {
		p.genesisRelays = relays
	})
}

// WithGenesisStart sets the start of the first round of a new state.
// If 0 the current time is used.
func WithGenesisStart(start uint64) Parameter {
	return parameterFunc(func(p *parameters) {
		p.genesisStart = start
	})
}

// WithSnapshotInterval sets the number of commands between state snapshots.
func WithSnapshotInterval(interval uint64) Parameter {
	return parameterFunc(func(p *parameters) {
		p.snapshotInterval = interval
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:         zerolog.GlobalLevel(),
		snapshotInterval: 1,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.clock == nil {
		return nil, errors.New("no clock specified")
	}
	if parameters.db == nil {
		return nil, errors.New("no bridge database specified")
	}
	if parameters.config == nil {
		return nil, errors.New("no configuration specified")
	}
	if parameters.snapshotInterval == 0 {
		return nil, errors.New("no snapshot interval specified")
	}

	return &parameters, nil
}

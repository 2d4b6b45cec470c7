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
)

type parameters struct {
	logLevel zerolog.Level
	timeFunc func() time.Time
	offset   time.Duration
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

// WithTimeFunc sets the function used to obtain the wall-clock time.
func WithTimeFunc(timeFunc func() time.Time) Parameter {
	return parameterFunc(func(p *parameters) {
		p.timeFunc = timeFunc
	})
}

// WithOffset sets an offset applied to the wall-clock time.
func WithOffset(offset time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.offset = offset
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		timeFunc: time.Now,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.timeFunc == nil {
		return nil, errors.New("no time function specified")
	}

	return &parameters, nil
}

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


package leveldb

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

type parameters struct {
	logLevel zerolog.Level
	path     string
	storage  storage.Storage
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

// WithPath sets the path of the database directory.
func WithPath(path string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.path = path
	})
}

// WithStorage sets the storage for the database, in place of a path.
func WithStorage(storage storage.Storage) Parameter {
	return parameterFunc(func(p *parameters) {
		p.storage = storage
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

	if parameters.path == "" && parameters.storage == nil {
		return nil, errors.New("no path specified")
	}
	if parameters.path != "" && parameters.storage != nil {
		return nil, errors.New("only one of path and storage may be specified")
	}

	return &parameters, nil
}

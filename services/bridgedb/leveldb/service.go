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
	"context"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/syndtr/goleveldb/leveldb"
)

// Service is a bridge database service backed by an embedded LevelDB store.
// Records are held as JSON under prefixed keys.
type Service struct {
	db *leveldb.DB
}

// module-wide log.
var log zerolog.Logger

var (
	metadataPrefix = []byte("metadata:")
	roundPrefix    = []byte("round:")
	eventPrefix    = []byte("event:")
	periodPrefix   = []byte("period:")
	pendingPrefix  = []byte("pending:")
	commandPrefix  = []byte("command:")
)

// New creates a new service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "bridgedb").Str("impl", "leveldb").Logger().Level(parameters.logLevel)

	var db *leveldb.DB
	if parameters.storage != nil {
		db, err = leveldb.Open(parameters.storage, nil)
	} else {
		db, err = leveldb.OpenFile(parameters.path, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	s := &Service{
		db: db,
	}

	// Close the database when the context is done.
	go func(ctx context.Context, db *leveldb.DB) {
		<-ctx.Done()
		log.Trace().Msg("Context done; closing database")
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}(ctx, db)

	return s, nil
}

// key builds a record key from its prefix and components.
func key(prefix []byte, components ...[]byte) []byte {
	res := append([]byte{}, prefix...)
	for _, component := range components {
		res = append(res, component...)
	}

	return res
}

// uint64Bytes encodes a value so that keys sort in numeric order.
func uint64Bytes(val uint64) []byte {
	res := make([]byte, 8)
	binary.BigEndian.PutUint64(res, val)

	return res
}

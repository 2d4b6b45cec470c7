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
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

type schemaMetadata struct {
	Version uint64 `json:"version"`
}

var currentVersion = uint64(1)

// SetMetadata sets a metadata key to a JSON value.
func (s *Service) SetMetadata(ctx context.Context, metadataKey string, value []byte) error {
	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	return tx.Put(key(metadataPrefix, []byte(metadataKey)), value, nil)
}

// Metadata obtains the JSON value from a metadata key.
// It returns nil if the key is not present.
func (s *Service) Metadata(ctx context.Context, metadataKey string) ([]byte, error) {
	value, err := s.reader(ctx).Get(key(metadataPrefix, []byte(metadataKey)), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to obtain metadata")
	}

	return value, nil
}

// Upgrade upgrades the database.
// Records are schemaless so this only stamps the version.
func (s *Service) Upgrade(ctx context.Context) error {
	data, err := s.Metadata(ctx, "schema")
	if err != nil {
		return errors.Wrap(err, "failed to obtain schema metadata")
	}
	if len(data) > 0 {
		var metadata schemaMetadata
		if err := json.Unmarshal(data, &metadata); err != nil {
			return errors.Wrap(err, "failed to unmarshal metadata JSON")
		}
		if metadata.Version > currentVersion {
			return errors.Errorf("database version %d is newer than supported version %d", metadata.Version, currentVersion)
		}
		if metadata.Version == currentVersion {
			return nil
		}
	}

	data, err = json.Marshal(&schemaMetadata{Version: currentVersion})
	if err != nil {
		return errors.Wrap(err, "failed to marshal metadata")
	}

	ctx, cancel, err := s.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin upgrade transaction")
	}
	if err := s.SetMetadata(ctx, "schema", data); err != nil {
		cancel()
		return errors.Wrap(err, "failed to set schema version")
	}
	if err := s.CommitTx(ctx); err != nil {
		cancel()
		return errors.Wrap(err, "failed to commit upgrade transaction")
	}
	log.Info().Uint64("version", currentVersion).Msg("Database schema set")

	return nil
}

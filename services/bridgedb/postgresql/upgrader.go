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


package postgresql

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

type schemaMetadata struct {
	Version uint64 `json:"version"`
}

var currentVersion = uint64(2)

type upgrade struct {
	funcs []func(context.Context, *Service) error
}

var upgrades = map[uint64]*upgrade{
	2: {
		funcs: []func(context.Context, *Service) error{
			addCommandsNameIndex,
		},
	},
}

// Upgrade upgrades the database.
func (s *Service) Upgrade(ctx context.Context) error {
	// See if we have anything at all.
	tableExists, err := s.tableExists(ctx, "t_metadata")
	if err != nil {
		return errors.Wrap(err, "failed to check presence of tables")
	}
	if !tableExists {
		return s.Init(ctx)
	}

	version, err := s.version(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to obtain version")
	}

	log.Trace().
		Uint64("current_version", version).
		Uint64("required_version", currentVersion).
		Msg("Checking if database upgrade is required")
	if version == currentVersion {
		// Nothing to do.
		return nil
	}

	ctx, cancel, err := s.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin upgrade transaction")
	}

	for i := version + 1; i <= currentVersion; i++ {
		log.Info().Uint64("target_version", i).Msg("Upgrading database")
		if upgrade, exists := upgrades[i]; exists {
			for i, upgradeFunc := range upgrade.funcs {
				log.Info().Int("current", i+1).Int("total", len(upgrade.funcs)).Msg("Running upgrade function")
				if err := upgradeFunc(ctx, s); err != nil {
					cancel()
					return errors.Wrap(err, "failed to upgrade")
				}
			}
		}
	}

	if err := s.setVersion(ctx, currentVersion); err != nil {
		cancel()
		return errors.Wrap(err, "failed to set latest schema version")
	}

	if err := s.CommitTx(ctx); err != nil {
		cancel()
		return errors.Wrap(err, "failed to commit upgrade transaction")
	}

	log.Info().Msg("Upgrade complete")

	return nil
}

// addCommandsNameIndex adds an index on command names to the journal.
func addCommandsNameIndex(ctx context.Context, s *Service) error {
	tx := s.tx(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	if _, err := tx.Exec(ctx, `
CREATE INDEX IF NOT EXISTS i_commands_2 ON t_commands(f_name)
`); err != nil {
		return errors.Wrap(err, "failed to create commands name index")
	}

	return nil
}

// tableExists returns true if the given table exists.
func (s *Service) tableExists(ctx context.Context, tableName string) (bool, error) {
	tx := s.tx(ctx)
	if tx == nil {
		ctx, err := s.BeginROTx(ctx)
		if err != nil {
			return false, errors.Wrap(err, "failed to begin transaction")
		}
		tx = s.tx(ctx)
		defer s.CommitROTx(ctx)
	}

	rows, err := tx.Query(ctx, `SELECT true
FROM information_schema.tables
WHERE table_schema = (SELECT current_schema())
  AND table_name = $1`, tableName)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found := false
	if rows.Next() {
		err = rows.Scan(
			&found,
		)
		if err != nil {
			return false, errors.Wrap(err, "failed to scan row")
		}
	}

	return found, nil
}

// version obtains the version of the schema.
func (s *Service) version(ctx context.Context) (uint64, error) {
	data, err := s.Metadata(ctx, "schema")
	if err != nil {
		return 0, errors.Wrap(err, "failed to obtain schema metadata")
	}

	// No data means it's version 0 of the schema.
	if len(data) == 0 {
		return 0, nil
	}

	var metadata schemaMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return 0, errors.Wrap(err, "failed to unmarshal metadata JSON")
	}

	return metadata.Version, nil
}

// setVersion sets the version of the schema.
func (s *Service) setVersion(ctx context.Context, version uint64) error {
	if tx := s.tx(ctx); tx == nil {
		return ErrNoTransaction
	}

	metadata := &schemaMetadata{
		Version: version,
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return errors.Wrap(err, "failed to marshal metadata")
	}

	return s.SetMetadata(ctx, "schema", data)
}

// Init initialises the database.
func (s *Service) Init(ctx context.Context) error {
	ctx, cancel, err := s.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin initial tables transaction")
	}
	tx := s.tx(ctx)
	if tx == nil {
		cancel()
		return ErrNoTransaction
	}

	if _, err := tx.Exec(ctx, `
-- t_metadata stores data about processing functions.
CREATE TABLE t_metadata (
  f_key    TEXT NOT NULL PRIMARY KEY
 ,f_value JSONB NOT NULL
);
CREATE UNIQUE INDEX i_metadata_1 ON t_metadata(f_key);
INSERT INTO t_metadata VALUES('schema', '{"version": 2}');

-- t_rounds contains relay rounds.
CREATE TABLE t_rounds (
  f_number BIGINT NOT NULL
 ,f_id     BYTEA NOT NULL
 ,f_start  BIGINT NOT NULL
 ,f_end    BIGINT NOT NULL
 ,f_relays BYTEA[] NOT NULL
);
CREATE UNIQUE INDEX i_rounds_1 ON t_rounds(f_number);

-- t_events contains bridge events and their voting state.
CREATE TABLE t_events (
  f_id               BYTEA NOT NULL
 ,f_configuration    BYTEA NOT NULL
 ,f_kind             TEXT NOT NULL
 ,f_round            BIGINT NOT NULL
 ,f_source_tx_ref    BYTEA NOT NULL
 ,f_source_index     BIGINT NOT NULL
 ,f_source_timestamp BIGINT NOT NULL
 ,f_initializer      BYTEA NOT NULL
 ,f_required_votes   INTEGER NOT NULL
 ,f_confirms         INTEGER NOT NULL
 ,f_rejects          INTEGER NOT NULL
 ,f_status           TEXT NOT NULL
 ,f_balance          NUMERIC NOT NULL
 ,f_closed           BOOLEAN NOT NULL
);
CREATE UNIQUE INDEX i_events_1 ON t_events(f_id);
CREATE INDEX i_events_2 ON t_events(f_round);

-- t_periods contains withdrawal totals per token per day.
CREATE TABLE t_periods (
  f_token      BYTEA NOT NULL
 ,f_id         BIGINT NOT NULL
 ,f_total      NUMERIC NOT NULL
 ,f_considered NUMERIC NOT NULL
);
CREATE UNIQUE INDEX i_periods_1 ON t_periods(f_token,f_id);

-- t_pending_withdrawals contains escrowed withdrawals.
CREATE TABLE t_pending_withdrawals (
  f_recipient BYTEA NOT NULL
 ,f_id        BIGINT NOT NULL
 ,f_token     BYTEA NOT NULL
 ,f_amount    NUMERIC NOT NULL
 ,f_bounty    NUMERIC NOT NULL
 ,f_status    TEXT NOT NULL
 ,f_timestamp BIGINT NOT NULL
 ,f_event_id  BYTEA NOT NULL
);
CREATE UNIQUE INDEX i_pending_withdrawals_1 ON t_pending_withdrawals(f_recipient,f_id);

-- t_commands is the journal of commands submitted to the ledger.
CREATE TABLE t_commands (
  f_sequence  BIGINT NOT NULL
 ,f_tx_id     TEXT NOT NULL
 ,f_name      TEXT NOT NULL
 ,f_data      JSONB NOT NULL
 ,f_timestamp TIMESTAMPTZ NOT NULL
 ,f_result    TEXT NOT NULL
 ,f_effects   INTEGER NOT NULL
);
CREATE UNIQUE INDEX i_commands_1 ON t_commands(f_sequence);
CREATE INDEX i_commands_2 ON t_commands(f_name);
`); err != nil {
		cancel()
		return errors.Wrap(err, "failed to create initial tables")
	}

	if err := s.CommitTx(ctx); err != nil {
		cancel()
		return errors.Wrap(err, "failed to commit initial tables transaction")
	}

	return nil
}

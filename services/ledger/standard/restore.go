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
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/services/bridgedb"
)

// restore loads the latest snapshot and replays the journal after it.
// With no snapshot a new state is created from the genesis parameters.
func (s *Service) restore(ctx context.Context, parameters *parameters) error {
	data, err := s.db.Metadata(ctx, snapshotKey)
	if err != nil {
		return errors.Wrap(err, "failed to obtain snapshot")
	}

	var st *state.State
	var sequence uint64
	if len(data) == 0 {
		st, err = s.genesis(ctx, parameters)
		if err != nil {
			return err
		}
	} else {
		snap := &snapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			return errors.Wrap(err, "failed to unmarshal snapshot")
		}
		if snap.State == nil {
			return errors.New("snapshot has no state")
		}
		st = snap.State
		sequence = snap.Sequence
		log.Info().Uint64("sequence", sequence).Msg("Restored state from snapshot")
		if drift := configDrift(parameters.config, st.Config()); len(drift) > 0 {
			log.Warn().
				Str("fields", strings.Join(drift, ",")).
				Msg("Configuration differs from restored state; restored values remain in force")
		}
	}

	from := sequence + 1
	records, err := s.db.Commands(ctx, &bridgedb.CommandFilter{
		From: &from,
	})
	if err != nil {
		return errors.Wrap(err, "failed to obtain journalled commands")
	}
	replayed := 0
	for _, record := range records {
		sequence = record.Sequence
		if record.Result != resultSucceeded {
			continue
		}
		cmd, err := state.NewCommand(record.Name)
		if err != nil {
			return errors.Wrapf(err, "unknown command %s at sequence %d", record.Name, record.Sequence)
		}
		if err := json.Unmarshal(record.Data, cmd); err != nil {
			return errors.Wrapf(err, "failed to unmarshal command at sequence %d", record.Sequence)
		}
		next, _, err := state.Apply(st, uint64(record.Timestamp.Unix()), cmd)
		if err != nil {
			return errors.Wrapf(err, "failed to replay command at sequence %d", record.Sequence)
		}
		st = next
		replayed++
	}
	if replayed > 0 {
		log.Info().Int("replayed", replayed).Uint64("sequence", sequence).Msg("Replayed journal")
	}

	s.st = st
	s.sequence.Store(sequence)

	return nil
}

// genesis creates and stores a new state.
func (s *Service) genesis(ctx context.Context, parameters *parameters) (*state.State, error) {
	if len(parameters.genesisRelays) == 0 {
		return nil, errors.New("no genesis relays specified")
	}
	start := parameters.genesisStart
	if start == 0 {
		start = s.clock.Timestamp()
	}

	st, err := state.New(*parameters.config, parameters.genesisRelays, start)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genesis state")
	}

	current, err := st.Rounds().Current()
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain genesis round")
	}

	ctx, cancel, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer cancel()
	if err := s.db.SetRound(ctx, roundRecord(current)); err != nil {
		return nil, errors.Wrap(err, "failed to set genesis round")
	}
	if err := s.setSnapshot(ctx, 0, st); err != nil {
		return nil, err
	}
	if err := s.db.CommitTx(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	log.Info().Int("relays", len(current.Relays)).Uint64("start", current.Start).Msg("Created genesis state")

	return st, nil
}

// configDrift returns the names of the fields that differ between
// the configured and the restored configuration.
func configDrift(configured *state.Config, restored state.Config) []string {
	drift := make([]string, 0)
	if configured.Owner != restored.Owner {
		drift = append(drift, "owner")
	}
	if configured.Approver != restored.Approver {
		drift = append(drift, "approver")
	}
	if !maps.Equal(configured.Configurations, restored.Configurations) {
		drift = append(drift, "configurations")
	}
	if !slices.Equal(configured.Networks, restored.Networks) {
		drift = append(drift, "networks")
	}
	if configured.Rounds != restored.Rounds {
		drift = append(drift, "rounds")
	}
	if !configured.Consensus.MinInitialBalance.Eq(&restored.Consensus.MinInitialBalance) {
		drift = append(drift, "consensus")
	}
	if configured.DefaultFeeBps != restored.DefaultFeeBps {
		drift = append(drift, "default fee")
	}
	if configured.MergeProxy != restored.MergeProxy {
		drift = append(drift, "merge proxy")
	}

	return drift
}

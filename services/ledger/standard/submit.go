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
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/core/types"
	"github.com/wealdtech/bridged/services/bridgedb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const resultSucceeded = "succeeded"

// Submit applies a command to the ledger, returning its effects.
// Every command is journalled, whether or not it succeeds.
// If the command cannot be journalled the ledger is left unchanged.
func (s *Service) Submit(ctx context.Context, cmd state.Command) ([]types.Effect, error) {
	if cmd == nil {
		return nil, errors.New("no command supplied")
	}
	ctx, span := otel.Tracer("wealdtech.bridged.services.ledger.standard").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("command", cmd.CommandName()),
	))
	defer span.End()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.clock.Timestamp()
	next, effects, applyErr := state.Apply(s.st, now, cmd)

	sequence := s.sequence.Load() + 1
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal command")
	}
	record := &bridgedb.Command{
		Sequence:  sequence,
		TxID:      uuid.New().String(),
		Name:      cmd.CommandName(),
		Data:      data,
		Timestamp: time.Unix(int64(now), 0),
		Result:    resultSucceeded,
		Effects:   uint32(len(effects)),
	}
	if applyErr != nil {
		record.Result = applyErr.Error()
	}
	span.SetAttributes(attribute.Int64("sequence", int64(sequence)), attribute.String("tx_id", record.TxID))

	if err := s.persist(ctx, record, next, effects, applyErr == nil); err != nil {
		span.SetStatus(codes.Error, err.Error())
		monitorCommand(record.Name, "unpersisted")
		return nil, errors.Wrap(err, "failed to persist command")
	}
	s.sequence.Store(sequence)
	monitorSequence(sequence)

	log := log.With().Uint64("sequence", sequence).Str("tx_id", record.TxID).Str("command", record.Name).Logger()
	if applyErr != nil {
		span.SetStatus(codes.Error, applyErr.Error())
		monitorCommand(record.Name, types.KindOf(applyErr).String())
		log.Debug().Err(applyErr).Msg("Command rejected")
		return nil, applyErr
	}

	s.st = next
	monitorCommand(record.Name, resultSucceeded)
	for _, effect := range effects {
		monitorEffect(effect.EffectName())
		if e := log.Trace(); e.Enabled() {
			e.Str("effect", effect.EffectName()).Interface("data", effect).Msg("Effect")
		}
	}
	log.Debug().Int("effects", len(effects)).Msg("Command applied")

	return effects, nil
}

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

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/risk"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/core/types"
	"github.com/wealdtech/bridged/services/bridgedb"
	"go.opentelemetry.io/otel"
)

const snapshotKey = "snapshot"

// snapshot is the full state as of a journal sequence.
type snapshot struct {
	Sequence uint64       `json:"sequence"`
	State    *state.State `json:"state"`
}

type pendingKey struct {
	recipient common.Address
	id        uint64
}

type periodKey struct {
	token common.Address
	id    uint64
}

// persist journals a command and, if it was applied, the records it changed.
func (s *Service) persist(ctx context.Context,
	record *bridgedb.Command,
	next *state.State,
	effects []types.Effect,
	applied bool,
) error {
	ctx, span := otel.Tracer("wealdtech.bridged.services.ledger.standard").Start(ctx, "persist")
	defer span.End()

	ctx, cancel, err := s.db.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer cancel()

	if err := s.db.SetCommand(ctx, record); err != nil {
		return errors.Wrap(err, "failed to set command")
	}

	if applied {
		if err := s.persistEffects(ctx, next, effects); err != nil {
			return err
		}
		if record.Sequence%s.snapshotInterval == 0 {
			if err := s.setSnapshot(ctx, record.Sequence, next); err != nil {
				return err
			}
		}
	}

	if err := s.db.CommitTx(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// persistEffects writes the records touched by a set of effects.
func (s *Service) persistEffects(ctx context.Context, st *state.State, effects []types.Effect) error {
	roundNumbers := make([]uint64, 0)
	eventIDs := make([]common.Hash, 0)
	periods := make([]periodKey, 0)
	pending := make([]pendingKey, 0)

	for _, effect := range effects {
		switch e := effect.(type) {
		case *rounds.RoundInitialized:
			roundNumbers = append(roundNumbers, e.Number)
		case *consensus.EventInitialized:
			eventIDs = append(eventIDs, e.ID)
		case *consensus.VoteCast:
			eventIDs = append(eventIDs, e.ID)
		case *consensus.EventClosed:
			eventIDs = append(eventIDs, e.ID)
		case *risk.WithdrawalProcessed:
			periods = append(periods, periodKey{token: e.Token, id: e.PeriodID})
		case *risk.PendingCreated:
			pending = append(pending, pendingKey{recipient: e.Recipient, id: e.ID})
		case *risk.PendingUpdated:
			pending = append(pending, pendingKey{recipient: e.Recipient, id: e.ID})
		}
	}

	for _, number := range roundNumbers {
		round, err := st.Rounds().Round(number)
		if err != nil {
			return errors.Wrapf(err, "failed to obtain round %d", number)
		}
		if err := s.db.SetRound(ctx, roundRecord(round)); err != nil {
			return errors.Wrap(err, "failed to set round")
		}
	}

	stored := make(map[common.Hash]bool)
	for _, id := range eventIDs {
		if stored[id] {
			continue
		}
		stored[id] = true
		event, err := st.Events().Event(id)
		if err != nil {
			return errors.Wrapf(err, "failed to obtain event %#x", id)
		}
		if err := s.db.SetEvent(ctx, eventRecord(st, event)); err != nil {
			return errors.Wrap(err, "failed to set event")
		}
	}

	for _, key := range periods {
		period := st.Risk().Period(key.token, key.id)
		if err := s.db.SetPeriod(ctx, periodRecord(&period)); err != nil {
			return errors.Wrap(err, "failed to set period")
		}
	}

	for _, key := range pending {
		withdrawal, err := st.Risk().Pending(key.recipient, key.id)
		if err != nil {
			return errors.Wrapf(err, "failed to obtain pending withdrawal %d of %s", key.id, key.recipient.Hex())
		}
		if err := s.db.SetPendingWithdrawal(ctx, pendingRecord(withdrawal)); err != nil {
			return errors.Wrap(err, "failed to set pending withdrawal")
		}
	}

	return nil
}

func (s *Service) setSnapshot(ctx context.Context, sequence uint64, st *state.State) error {
	data, err := json.Marshal(&snapshot{
		Sequence: sequence,
		State:    st,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}
	if err := s.db.SetMetadata(ctx, snapshotKey, data); err != nil {
		return errors.Wrap(err, "failed to set snapshot")
	}

	return nil
}

func roundRecord(round *rounds.Round) *bridgedb.Round {
	relays := make([][]byte, len(round.Relays))
	for i := range round.Relays {
		relays[i] = round.Relays[i].Bytes()
	}

	return &bridgedb.Round{
		Number: round.Number,
		ID:     round.ID.Bytes(),
		Start:  round.Start,
		End:    round.End,
		Relays: relays,
	}
}

func eventRecord(st *state.State, event *consensus.Event) *bridgedb.Event {
	return &bridgedb.Event{
		ID:              event.ID.Bytes(),
		Configuration:   event.Configuration.Bytes(),
		Kind:            st.Config().Configurations[event.Configuration].String(),
		Round:           event.Round,
		SourceTxRef:     event.Envelope.SourceTxRef.Bytes(),
		SourceIndex:     event.Envelope.Index,
		SourceTimestamp: event.Envelope.Timestamp,
		Initializer:     event.Initializer.Bytes(),
		RequiredVotes:   uint32(event.RequiredVotes),
		Confirms:        uint32(len(event.Confirms)),
		Rejects:         uint32(len(event.Rejects)),
		Status:          event.Status.String(),
		Balance:         event.Balance.ToBig(),
		Closed:          event.Closed,
	}
}

func periodRecord(period *risk.Period) *bridgedb.Period {
	return &bridgedb.Period{
		Token:      period.Token.Bytes(),
		ID:         period.ID,
		Total:      period.Total.ToBig(),
		Considered: period.Considered.ToBig(),
	}
}

func pendingRecord(withdrawal *risk.PendingWithdrawal) *bridgedb.PendingWithdrawal {
	return &bridgedb.PendingWithdrawal{
		Recipient: withdrawal.Recipient.Bytes(),
		ID:        withdrawal.ID,
		Token:     withdrawal.Token.Bytes(),
		Amount:    withdrawal.Amount.ToBig(),
		Bounty:    withdrawal.Bounty.ToBig(),
		Status:    withdrawal.Status.String(),
		Timestamp: withdrawal.Timestamp,
		EventID:   withdrawal.EventID.Bytes(),
	}
}

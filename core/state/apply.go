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

package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/risk"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/types"
)

var (
	// ErrUnknownConfiguration is returned for an event from an unknown configuration.
	ErrUnknownConfiguration = types.NewError(types.KindNotFound, "unknown event configuration")
	// ErrPayloadMismatch is returned when a payload does not match its configuration.
	ErrPayloadMismatch = types.NewError(types.KindPrecondition, "payload does not match configuration")
	// ErrInvalidPayload is returned when a payload cannot be decoded.
	ErrInvalidPayload = types.NewError(types.KindPrecondition, "invalid payload")
	// ErrUnknownCommand is returned for an unsupported command.
	ErrUnknownCommand = types.NewError(types.KindPrecondition, "unknown command")
	// ErrZeroAmount is returned for a deposit of nothing.
	ErrZeroAmount = types.NewError(types.KindPrecondition, "zero amount")
)

// RelaysAnnounced is emitted when a round's relays are confirmed for another network.
type RelaysAnnounced struct {
	EventID common.Hash
	Network string
	Round   uint64
	Relays  []common.Address
	Start   uint64
	End     uint64
}

// EffectName returns the name of the effect.
func (*RelaysAnnounced) EffectName() string { return "relays_announced" }

// Apply applies a command to the state at the given time.
// The input state is never modified; on error it is returned unchanged.
func Apply(st *State, now uint64, cmd Command) (*State, []types.Effect, error) {
	next := st.Clone()
	effects, err := next.apply(now, cmd)
	if err != nil {
		return st, nil, err
	}

	return next, effects, nil
}

func (s *State) apply(now uint64, cmd Command) ([]types.Effect, error) {
	switch c := cmd.(type) {
	case *InitializeEvent:
		return s.initializeEvent(c)
	case *Vote:
		return s.vote(now, c)
	case *CloseEvent:
		_, effects, err := s.events.Close(c.EventID)
		return effects, err
	case *SubmitSignedRotation:
		return s.submitSignedRotation(now, c)
	case *Deposit:
		return s.deposit(c)
	case *SetLimits:
		return s.risk.SetLimits(c.Caller, c.Token, &c.Daily, &c.Undeclared)
	case *EnableLimits:
		return s.risk.EnableLimits(c.Caller, c.Token, true)
	case *DisableLimits:
		return s.risk.EnableLimits(c.Caller, c.Token, false)
	case *SetWithdrawFee:
		return s.risk.SetFee(c.Caller, c.Token, c.Bps)
	case *ApprovePending:
		return s.risk.Approve(c.Caller, c.Recipient, c.ID, c.Decision)
	case *CancelPending:
		return s.risk.CancelPartial(c.Caller, c.ID, &c.Amount, c.Destination, &c.Bounty)
	case *SetBounty:
		return s.risk.SetBounty(c.Caller, c.ID, &c.Bounty)
	case *ForceResolve:
		return s.risk.ForceResolve(c.Caller, c.Recipient, c.ID)
	case *DeployMergeRoute:
		_, effects, err := s.merge.DeployRoute(c.Caller, c.AlienToken)
		return effects, err
	case *DeployMergePool:
		_, effects, err := s.merge.DeployPool(c.Caller, c.Nonce, c.Tokens, c.CanonIndex)
		return effects, err
	case *EnableMergePool:
		return s.merge.EnableAll(c.Caller, c.Pool)
	case *DisableMergePool:
		return s.merge.DisableAll(c.Caller, c.Pool)
	case *SetRoutePool:
		return s.merge.SetPool(c.Caller, c.AlienToken, c.Pool)
	default:
		return nil, ErrUnknownCommand
	}
}

func (s *State) initializeEvent(cmd *InitializeEvent) ([]types.Effect, error) {
	kind, exists := s.config.Configurations[cmd.Configuration]
	if !exists {
		return nil, ErrUnknownConfiguration
	}
	decoded, err := decode(cmd.Payload)
	if err != nil {
		return nil, err
	}
	if decoded.Kind() != kind {
		return nil, ErrPayloadMismatch
	}
	current, err := s.rounds.Current()
	if err != nil {
		return nil, err
	}

	_, effects, err := s.events.Initialize(s.rounds, &consensus.InitializeRequest{
		Configuration: cmd.Configuration,
		Envelope:      cmd.Envelope,
		Round:         current.Number,
		Payload:       cmd.Payload,
		Initializer:   cmd.Caller,
		Value:         cmd.Value,
	}, decoded.Cost(), kind)

	return effects, err
}

// vote records a vote and, if it decides the event, acts on the payload.
// A payload that cannot be acted on fails the vote.
func (s *State) vote(now uint64, cmd *Vote) ([]types.Effect, error) {
	event, effects, err := s.events.Vote(s.rounds, cmd.EventID, cmd.Relay, cmd.Decision)
	if err != nil {
		return nil, err
	}
	if event.Status != consensus.StatusConfirmed {
		return effects, nil
	}

	decoded, err := decode(event.Payload)
	if err != nil {
		return nil, err
	}
	dispatched, err := s.dispatch(now, event, decoded)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to act on %s event", decoded.Kind())
	}

	return append(effects, dispatched...), nil
}

func (s *State) dispatch(now uint64, event *consensus.Event, decoded payload.Payload) ([]types.Effect, error) {
	switch p := decoded.(type) {
	case *payload.Rotation:
		return s.rotate(now, event.ID, event.Round, p)
	case *payload.Withdrawal:
		return s.withdraw(event, p)
	case *payload.MergeBurn:
		_, effects, err := s.merge.OnBurn(p.BurnToken, &p.Amount, p.TargetToken, p.Recipient)
		return effects, err
	case *payload.RoundRelays:
		return []types.Effect{
			&RelaysAnnounced{
				EventID: event.ID,
				Network: p.Network,
				Round:   p.Round,
				Relays:  p.Relays,
				Start:   p.Start,
				End:     p.End,
			},
		}, nil
	default:
		return nil, ErrInvalidPayload
	}
}

// withdraw passes a confirmed withdrawal to the risk engine,
// converting alien representations to canon first.
func (s *State) withdraw(event *consensus.Event, p *payload.Withdrawal) ([]types.Effect, error) {
	token, amount, effects, err := s.merge.OnDeposit(p.Token, &p.Amount)
	if err != nil {
		return nil, err
	}

	return append(effects, s.risk.Process(&risk.Withdrawal{
		Token:     token,
		Amount:    *amount,
		Recipient: p.Recipient,
		Timestamp: event.Envelope.Timestamp,
		EventID:   event.ID,
	})...), nil
}

// rotate creates a new round and an announcement event per network, scoped to the approving round.
func (s *State) rotate(now uint64, sourceID common.Hash, approvingRound uint64, p *payload.Rotation) ([]types.Effect, error) {
	if p.Round != s.rounds.NextNumber() {
		return nil, rounds.ErrUnexpectedRound
	}
	start := p.StartTime
	if start == 0 {
		start = s.rounds.ProposeStart(now)
	}
	round, effects, err := s.rounds.CreateRound(p.Relays, start, now)
	if err != nil {
		return nil, err
	}

	if len(s.config.Networks) == 0 {
		return effects, nil
	}
	configuration, _ := s.config.configuration(payload.KindRoundRelays)
	for i, network := range s.config.Networks {
		announcement := &payload.RoundRelays{
			Network: network,
			Round:   round.Number,
			Relays:  round.Relays,
			Start:   round.Start,
			End:     round.End,
		}
		data, err := payload.Encode(announcement)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode round relays")
		}
		_, initialized, err := s.events.Initialize(s.rounds, &consensus.InitializeRequest{
			Configuration: configuration,
			Envelope: payload.Envelope{
				SourceTxRef: sourceID,
				Index:       uint32(i),
				Timestamp:   now,
			},
			Round:   approvingRound,
			Payload: data,
			Value:   s.config.Consensus.MinInitialBalance,
		}, announcement.Cost(), payload.KindRoundRelays)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create round relays event for %s", network)
		}
		effects = append(effects, initialized...)
	}

	return effects, nil
}

func (s *State) submitSignedRotation(now uint64, cmd *SubmitSignedRotation) ([]types.Effect, error) {
	decoded, err := decode(cmd.Payload)
	if err != nil {
		return nil, err
	}
	rotation, isRotation := decoded.(*payload.Rotation)
	if !isRotation {
		return nil, ErrPayloadMismatch
	}
	current, err := s.rounds.Current()
	if err != nil {
		return nil, err
	}
	digest := crypto.Keccak256Hash(cmd.Payload)
	if _, err := consensus.VerifySignatures(current, digest, cmd.Signatures); err != nil {
		return nil, err
	}

	return s.rotate(now, digest, current.Number, rotation)
}

func (s *State) deposit(cmd *Deposit) ([]types.Effect, error) {
	if cmd.Amount.IsZero() {
		return nil, ErrZeroAmount
	}
	token, amount, effects, err := s.merge.OnDeposit(cmd.Token, &cmd.Amount)
	if err != nil {
		return nil, err
	}
	// Withdrawals of merged tokens are paid in canon, so liquidity is held in canon.
	s.risk.Deposit(token, amount)

	return append(effects, &types.OutboundTransfer{
		Token:     token,
		Amount:    *amount,
		Recipient: append([]byte{}, cmd.Recipient...),
		Reason:    "deposit",
	}), nil
}

func decode(data []byte) (payload.Payload, error) {
	res, err := payload.Decode(data)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}

	return res, nil
}

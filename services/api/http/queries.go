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


package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/services/bridgedb"
)

type roundResponse struct {
	Number uint64   `json:"number"`
	ID     string   `json:"id"`
	Start  uint64   `json:"start"`
	End    uint64   `json:"end"`
	Relays []string `json:"relays"`
}

type eventResponse struct {
	ID              string   `json:"id"`
	Configuration   string   `json:"configuration"`
	Kind            string   `json:"kind"`
	Round           uint64   `json:"round"`
	SourceTxRef     string   `json:"source_tx_ref"`
	SourceIndex     uint32   `json:"source_index"`
	SourceTimestamp uint64   `json:"source_timestamp"`
	Initializer     string   `json:"initializer"`
	RequiredVotes   uint32   `json:"required_votes"`
	Confirms        []string `json:"confirms,omitempty"`
	Rejects         []string `json:"rejects,omitempty"`
	ConfirmCount    uint32   `json:"confirm_count"`
	RejectCount     uint32   `json:"reject_count"`
	Status          string   `json:"status"`
	Balance         string   `json:"balance"`
	Closed          bool     `json:"closed"`
}

type pendingResponse struct {
	Recipient string `json:"recipient"`
	ID        uint64 `json:"id"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	Bounty    string `json:"bounty"`
	Status    string `json:"status"`
	Timestamp uint64 `json:"timestamp"`
	EventID   string `json:"event_id"`
}

type tokenResponse struct {
	Token           string `json:"token"`
	DailyLimit      string `json:"daily_limit"`
	UndeclaredLimit string `json:"undeclared_limit"`
	LimitsEnabled   bool   `json:"limits_enabled"`
	FeeBps          uint64 `json:"fee_bps"`
	Fees            string `json:"fees"`
	Liquidity       string `json:"liquidity"`
	PendingTotal    string `json:"pending_total"`
}

type commandResponse struct {
	Sequence  uint64          `json:"sequence"`
	TxID      string          `json:"tx_id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Result    string          `json:"result"`
	Effects   uint32          `json:"effects"`
}

func (s *Service) getState(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, s.stateProvider.State(handlerContext(ctx)))
}

func (s *Service) getRounds(ctx *fasthttp.RequestCtx) {
	filter := &bridgedb.RoundFilter{}
	var err error
	if filter.Limit, filter.Order, err = limitAndOrder(ctx); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	if filter.From, err = uint64Arg(ctx, "from"); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	if filter.To, err = uint64Arg(ctx, "to"); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	rounds, err := s.roundsProvider.Rounds(handlerContext(ctx), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to obtain rounds")
		writeError(ctx, fasthttp.StatusInternalServerError, errors.New("failed to obtain rounds"))
		return
	}

	res := make([]*roundResponse, len(rounds))
	for i, round := range rounds {
		relays := make([]string, len(round.Relays))
		for j := range round.Relays {
			relays[j] = common.BytesToAddress(round.Relays[j]).Hex()
		}
		res[i] = &roundResponse{
			Number: round.Number,
			ID:     hexutil.Encode(round.ID),
			Start:  round.Start,
			End:    round.End,
			Relays: relays,
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func (s *Service) getCurrentRound(ctx *fasthttp.RequestCtx) {
	current, err := s.stateProvider.State(handlerContext(ctx)).Rounds().Current()
	if err != nil {
		writeError(ctx, statusForError(err), err)
		return
	}

	relays := make([]string, len(current.Relays))
	for i := range current.Relays {
		relays[i] = current.Relays[i].Hex()
	}
	writeJSON(ctx, fasthttp.StatusOK, &roundResponse{
		Number: current.Number,
		ID:     current.ID.Hex(),
		Start:  current.Start,
		End:    current.End,
		Relays: relays,
	})
}

func (s *Service) getRoundsStatus(ctx *fasthttp.RequestCtx) {
	if s.roundsMonitor == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, errors.New("rounds monitor not running"))
		return
	}
	status := s.roundsMonitor.Status(handlerContext(ctx))
	if status == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, errors.New("rounds not yet checked"))
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, status)
}

func (s *Service) getEvents(ctx *fasthttp.RequestCtx) {
	filter := &bridgedb.EventFilter{
		Kinds:    stringsArg(ctx, "kind"),
		Statuses: stringsArg(ctx, "status"),
	}
	for _, status := range filter.Statuses {
		if !eventStatuses[status] {
			writeError(ctx, fasthttp.StatusBadRequest, errors.New("invalid status"))
			return
		}
	}
	var err error
	if filter.Limit, filter.Order, err = limitAndOrder(ctx); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	round, err := uint64Arg(ctx, "round")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	if round != nil {
		filter.Rounds = []uint64{*round}
	}

	events, err := s.eventsProvider.Events(handlerContext(ctx), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to obtain events")
		writeError(ctx, fasthttp.StatusInternalServerError, errors.New("failed to obtain events"))
		return
	}

	res := make([]*eventResponse, len(events))
	for i, event := range events {
		res[i] = &eventResponse{
			ID:              hexutil.Encode(event.ID),
			Configuration:   common.BytesToAddress(event.Configuration).Hex(),
			Kind:            event.Kind,
			Round:           event.Round,
			SourceTxRef:     hexutil.Encode(event.SourceTxRef),
			SourceIndex:     event.SourceIndex,
			SourceTimestamp: event.SourceTimestamp,
			Initializer:     common.BytesToAddress(event.Initializer).Hex(),
			RequiredVotes:   event.RequiredVotes,
			ConfirmCount:    event.Confirms,
			RejectCount:     event.Rejects,
			Status:          event.Status,
			Balance:         event.Balance.String(),
			Closed:          event.Closed,
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

// getEvent returns an event from the ledger state, including its voters.
func (s *Service) getEvent(ctx *fasthttp.RequestCtx) {
	id, err := hashArg(ctx, "id")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	st := s.stateProvider.State(handlerContext(ctx))
	event, err := st.Events().Event(id)
	if err != nil {
		writeError(ctx, statusForError(err), err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, &eventResponse{
		ID:              event.ID.Hex(),
		Configuration:   event.Configuration.Hex(),
		Kind:            st.Config().Configurations[event.Configuration].String(),
		Round:           event.Round,
		SourceTxRef:     event.Envelope.SourceTxRef.Hex(),
		SourceIndex:     event.Envelope.Index,
		SourceTimestamp: event.Envelope.Timestamp,
		Initializer:     event.Initializer.Hex(),
		RequiredVotes:   uint32(event.RequiredVotes),
		Confirms:        addressStrings(event.Confirms),
		Rejects:         addressStrings(event.Rejects),
		ConfirmCount:    uint32(len(event.Confirms)),
		RejectCount:     uint32(len(event.Rejects)),
		Status:          event.Status.String(),
		Balance:         event.Balance.Dec(),
		Closed:          event.Closed,
	})
}

func (s *Service) getToken(ctx *fasthttp.RequestCtx) {
	token, err := addressArg(ctx, "token")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	engine := s.stateProvider.State(handlerContext(ctx)).Risk()
	limits := engine.Limits(token)
	writeJSON(ctx, fasthttp.StatusOK, &tokenResponse{
		Token:           token.Hex(),
		DailyLimit:      limits.Daily.Dec(),
		UndeclaredLimit: limits.Undeclared.Dec(),
		LimitsEnabled:   limits.Enabled,
		FeeBps:          engine.FeeBps(token),
		Fees:            engine.Fees(token).Dec(),
		Liquidity:       engine.Liquidity(token).Dec(),
		PendingTotal:    engine.PendingTotal(token).Dec(),
	})
}

func (s *Service) getPendingWithdrawals(ctx *fasthttp.RequestCtx) {
	filter := &bridgedb.PendingWithdrawalFilter{
		Statuses: stringsArg(ctx, "status"),
	}
	var err error
	if filter.Limit, filter.Order, err = limitAndOrder(ctx); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	for _, arg := range stringsArg(ctx, "token") {
		if !common.IsHexAddress(arg) {
			writeError(ctx, fasthttp.StatusBadRequest, errors.New("invalid token"))
			return
		}
		filter.Tokens = append(filter.Tokens, common.HexToAddress(arg).Bytes())
	}

	pending, err := s.pendingWithdrawalsProvider.PendingWithdrawals(handlerContext(ctx), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to obtain pending withdrawals")
		writeError(ctx, fasthttp.StatusInternalServerError, errors.New("failed to obtain pending withdrawals"))
		return
	}

	res := make([]*pendingResponse, len(pending))
	for i, withdrawal := range pending {
		res[i] = &pendingResponse{
			Recipient: common.BytesToAddress(withdrawal.Recipient).Hex(),
			ID:        withdrawal.ID,
			Token:     common.BytesToAddress(withdrawal.Token).Hex(),
			Amount:    withdrawal.Amount.String(),
			Bounty:    withdrawal.Bounty.String(),
			Status:    withdrawal.Status,
			Timestamp: withdrawal.Timestamp,
			EventID:   hexutil.Encode(withdrawal.EventID),
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

// getPendingFor returns the pending withdrawals of a recipient from the ledger state.
func (s *Service) getPendingFor(ctx *fasthttp.RequestCtx) {
	recipient, err := addressArg(ctx, "recipient")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	pending := s.stateProvider.State(handlerContext(ctx)).Risk().PendingFor(recipient)
	res := make([]*pendingResponse, len(pending))
	for i, withdrawal := range pending {
		res[i] = &pendingResponse{
			Recipient: withdrawal.Recipient.Hex(),
			ID:        withdrawal.ID,
			Token:     withdrawal.Token.Hex(),
			Amount:    withdrawal.Amount.Dec(),
			Bounty:    withdrawal.Bounty.Dec(),
			Status:    withdrawal.Status.String(),
			Timestamp: withdrawal.Timestamp,
			EventID:   withdrawal.EventID.Hex(),
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func (s *Service) getJournal(ctx *fasthttp.RequestCtx) {
	filter := &bridgedb.CommandFilter{
		Names: stringsArg(ctx, "name"),
	}
	var err error
	if filter.Limit, filter.Order, err = limitAndOrder(ctx); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	if filter.From, err = uint64Arg(ctx, "from"); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	if filter.To, err = uint64Arg(ctx, "to"); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	commands, err := s.commandsProvider.Commands(handlerContext(ctx), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to obtain commands")
		writeError(ctx, fasthttp.StatusInternalServerError, errors.New("failed to obtain commands"))
		return
	}

	res := make([]*commandResponse, len(commands))
	for i, command := range commands {
		res[i] = &commandResponse{
			Sequence:  command.Sequence,
			TxID:      command.TxID,
			Name:      command.Name,
			Data:      command.Data,
			Timestamp: command.Timestamp,
			Result:    command.Result,
			Effects:   command.Effects,
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func limitAndOrder(ctx *fasthttp.RequestCtx) (uint32, bridgedb.Order, error) {
	order := bridgedb.OrderEarliest
	switch strings.ToLower(string(ctx.QueryArgs().Peek("order"))) {
	case "", "earliest":
	case "latest":
		order = bridgedb.OrderLatest
	default:
		return 0, order, errors.New("invalid order")
	}

	limit := ctx.QueryArgs().Peek("limit")
	if len(limit) == 0 {
		return 0, order, nil
	}
	val, err := strconv.ParseUint(string(limit), 10, 32)
	if err != nil {
		return 0, order, errors.New("invalid limit")
	}

	return uint32(val), order, nil
}

func uint64Arg(ctx *fasthttp.RequestCtx, name string) (*uint64, error) {
	arg := ctx.QueryArgs().Peek(name)
	if len(arg) == 0 {
		return nil, nil
	}
	val, err := strconv.ParseUint(string(arg), 10, 64)
	if err != nil {
		return nil, errors.Errorf("invalid %s", name)
	}

	return &val, nil
}

func stringsArg(ctx *fasthttp.RequestCtx, name string) []string {
	args := ctx.QueryArgs().PeekMulti(name)
	if len(args) == 0 {
		return nil
	}
	res := make([]string, len(args))
	for i := range args {
		res[i] = string(args[i])
	}

	return res
}

func addressArg(ctx *fasthttp.RequestCtx, name string) (common.Address, error) {
	arg, ok := ctx.UserValue(name).(string)
	if !ok || !common.IsHexAddress(arg) {
		return common.Address{}, errors.Errorf("invalid %s", name)
	}

	return common.HexToAddress(arg), nil
}

func hashArg(ctx *fasthttp.RequestCtx, name string) (common.Hash, error) {
	arg, ok := ctx.UserValue(name).(string)
	if !ok {
		return common.Hash{}, errors.Errorf("invalid %s", name)
	}
	data, err := hexutil.Decode(arg)
	if err != nil || len(data) != common.HashLength {
		return common.Hash{}, errors.Errorf("invalid %s", name)
	}

	return common.BytesToHash(data), nil
}

func addressStrings(addrs []common.Address) []string {
	res := make([]string, len(addrs))
	for i := range addrs {
		res[i] = addrs[i].Hex()
	}

	return res
}

var eventStatuses = map[string]bool{
	consensus.StatusPending.String():   true,
	consensus.StatusConfirmed.String(): true,
	consensus.StatusRejected.String():  true,
}

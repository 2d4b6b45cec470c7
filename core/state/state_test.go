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

package state_test

import (
	"crypto/ecdsa"
	"encoding/json"
	"sort"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/merge"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/risk"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/core/types"
)

var (
	owner          = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	approver       = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	initializer    = common.HexToAddress("0x00000000000000000000000000000000000000a3")
	recipient      = common.HexToAddress("0x00000000000000000000000000000000000000a4")
	outsider       = common.HexToAddress("0x00000000000000000000000000000000000000a5")
	token          = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	canon          = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	alien          = common.HexToAddress("0x00000000000000000000000000000000000000b3")
	withdrawalConf = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	rotationConf   = common.HexToAddress("0x00000000000000000000000000000000000000c2")
	burnConf       = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	relaysConf     = common.HexToAddress("0x00000000000000000000000000000000000000c4")
	proxy          = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

// day is a timestamp within a single period.
const day = uint64(19000 * 86400)

type fixture struct {
	keys   []*ecdsa.PrivateKey
	relays []common.Address
	st     *state.State
	index  uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	keys := make([]*ecdsa.PrivateKey, 3)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = key
	}
	sort.Slice(keys, func(i, j int) bool {
		return crypto.PubkeyToAddress(keys[i].PublicKey).Cmp(crypto.PubkeyToAddress(keys[j].PublicKey)) < 0
	})
	relays := make([]common.Address, len(keys))
	for i := range keys {
		relays[i] = crypto.PubkeyToAddress(keys[i].PublicKey)
	}

	st, err := state.New(state.Config{
		Owner:    owner,
		Approver: approver,
		Configurations: map[common.Address]payload.Kind{
			withdrawalConf: payload.KindWithdrawal,
			rotationConf:   payload.KindRotation,
			burnConf:       payload.KindMergeBurn,
			relaysConf:     payload.KindRoundRelays,
		},
		Networks: []string{"ton", "everscale"},
		Rounds: rounds.Config{
			RelayRoundTime:      10,
			TimeBeforeSetRelays: 9,
			MinRoundGapTime:     1,
			MinRelaysCount:      2,
		},
		Consensus:     consensus.Config{MinInitialBalance: types.NewAmount(10)},
		DefaultFeeBps: 100,
		MergeProxy:    proxy,
	}, relays, 0)
	require.NoError(t, err)

	return &fixture{
		keys:   keys,
		relays: relays,
		st:     st,
	}
}

func (f *fixture) apply(t *testing.T, now uint64, cmd state.Command) []types.Effect {
	t.Helper()
	next, effects, err := state.Apply(f.st, now, cmd)
	require.NoError(t, err)
	f.st = next

	return effects
}

func (f *fixture) initialize(t *testing.T, configuration common.Address, p payload.Payload, timestamp uint64) common.Hash {
	t.Helper()
	data, err := payload.Encode(p)
	require.NoError(t, err)
	f.index++
	cmd := &state.InitializeEvent{
		Caller:        initializer,
		Configuration: configuration,
		Envelope: payload.Envelope{
			SourceTxRef: common.HexToHash("0x1234"),
			Index:       f.index,
			Timestamp:   timestamp,
		},
		Payload: data,
		Value:   types.NewAmount(100),
	}
	f.apply(t, timestamp, cmd)

	return consensus.EventID(configuration, &cmd.Envelope, data)
}

// confirm has every relay of the round confirm the event, returning the effects of the deciding vote.
func (f *fixture) confirm(t *testing.T, now uint64, id common.Hash, relays []common.Address) []types.Effect {
	t.Helper()
	var effects []types.Effect
	for _, relay := range relays {
		effects = f.apply(t, now, &state.Vote{Relay: relay, EventID: id, Decision: consensus.DecisionConfirm})
	}

	return effects
}

func findEffect[T types.Effect](effects []types.Effect) []T {
	res := make([]T, 0)
	for _, effect := range effects {
		if e, ok := effect.(T); ok {
			res = append(res, e)
		}
	}

	return res
}

func TestWithdrawalFlow(t *testing.T) {
	f := newFixture(t)
	f.apply(t, day, &state.SetLimits{Caller: owner, Token: token, Daily: types.NewAmount(700), Undeclared: types.NewAmount(500)})
	f.apply(t, day, &state.EnableLimits{Caller: owner, Token: token})
	f.apply(t, day, &state.Deposit{Caller: outsider, Token: token, Amount: types.NewAmount(10000), Recipient: []byte{0x01}})

	id := f.initialize(t, withdrawalConf, &payload.Withdrawal{
		Token:        token,
		Amount:       types.NewAmount(501),
		Recipient:    recipient,
		ExpectedCost: types.NewAmount(50),
	}, day)

	f.confirm(t, day, id, f.relays[:2])
	event, err := f.st.Events().Event(id)
	require.NoError(t, err)
	require.Equal(t, consensus.StatusPending, event.Status)

	effects := f.confirm(t, day, id, f.relays[2:])
	created := findEffect[*risk.PendingCreated](effects)
	require.Len(t, created, 1)
	require.Equal(t, uint64(496), created[0].Amount.Uint64())

	_, _, err = state.Apply(f.st, day, &state.Vote{Relay: outsider, EventID: id, Decision: consensus.DecisionReject})
	require.Equal(t, types.KindUnauthorized, types.KindOf(err))

	id = f.initialize(t, withdrawalConf, &payload.Withdrawal{
		Token:     token,
		Amount:    types.NewAmount(300),
		Recipient: recipient,
	}, day+100)
	effects = f.confirm(t, day+100, id, f.relays)
	created = findEffect[*risk.PendingCreated](effects)
	require.Len(t, created, 1)
	require.Equal(t, uint64(297), created[0].Amount.Uint64())

	period := f.st.Risk().PeriodAt(token, day)
	require.Equal(t, uint64(801), period.Total.Uint64())
	require.True(t, period.Considered.IsZero())

	// Approve the first; reject the second and cancel most of it.
	effects = f.apply(t, day, &state.ApprovePending{Caller: approver, Recipient: recipient, ID: 0, Decision: risk.DecisionApprove})
	require.Len(t, findEffect[*risk.Released](effects), 1)
	f.apply(t, day, &state.SetBounty{Caller: recipient, ID: 1, Bounty: types.NewAmount(7)})
	_, _, err = state.Apply(f.st, day, &state.ForceResolve{Caller: outsider, Recipient: recipient, ID: 1})
	require.ErrorIs(t, err, risk.ErrNotApproved)
	f.apply(t, day, &state.ApprovePending{Caller: approver, Recipient: recipient, ID: 1, Decision: risk.DecisionReject})
	effects = f.apply(t, day, &state.CancelPending{Caller: recipient, ID: 1, Amount: types.NewAmount(290), Destination: []byte{0x02}, Bounty: types.NewAmount(7)})
	require.Len(t, findEffect[*types.OutboundTransfer](effects), 1)
	require.Equal(t, uint64(7), f.st.Risk().PendingTotal(token).Uint64())
}

func TestDispatchFailureRevertsVote(t *testing.T) {
	f := newFixture(t)
	id := f.initialize(t, rotationConf, &payload.Rotation{
		Round:     1,
		Relays:    []common.Address{outsider},
		StartTime: 11,
	}, 5)
	f.confirm(t, 5, id, f.relays[:2])

	before := f.st
	res, _, err := state.Apply(f.st, 5, &state.Vote{Relay: f.relays[2], EventID: id, Decision: consensus.DecisionConfirm})
	require.ErrorIs(t, err, rounds.ErrTooFewRelays)
	require.Same(t, before, res)

	event, err := f.st.Events().Event(id)
	require.NoError(t, err)
	require.Equal(t, consensus.StatusPending, event.Status)
	require.Len(t, event.Confirms, 2)
	require.Equal(t, uint64(1), f.st.Rounds().NextNumber())
}

func TestRotation(t *testing.T) {
	f := newFixture(t)
	newRelays := []common.Address{outsider, recipient, initializer}
	id := f.initialize(t, rotationConf, &payload.Rotation{
		Round:  1,
		Relays: newRelays,
	}, 5)
	effects := f.confirm(t, 5, id, f.relays)

	initialized := findEffect[*rounds.RoundInitialized](effects)
	require.Len(t, initialized, 1)
	require.Equal(t, uint64(1), initialized[0].Number)
	require.Equal(t, uint64(11), initialized[0].Start)
	require.Equal(t, uint64(21), initialized[0].End)

	announcements := findEffect[*consensus.EventInitialized](effects)
	require.Len(t, announcements, 2)
	for _, announcement := range announcements {
		require.Equal(t, uint64(0), announcement.Round)
		require.Equal(t, payload.KindRoundRelays, announcement.Kind)
		require.Equal(t, relaysConf, announcement.Configuration)

		_, _, err := state.Apply(f.st, 6, &state.Vote{Relay: outsider, EventID: announcement.ID, Decision: consensus.DecisionConfirm})
		require.ErrorIs(t, err, consensus.ErrNotRelay)

		effects = f.confirm(t, 6, announcement.ID, f.relays)
		announced := findEffect[*state.RelaysAnnounced](effects)
		require.Len(t, announced, 1)
		require.Equal(t, uint64(1), announced[0].Round)
		require.Len(t, announced[0].Relays, 3)
	}

	// Too early for another rotation.
	id = f.initialize(t, rotationConf, &payload.Rotation{Round: 2, Relays: newRelays}, 7)
	current, err := f.st.Rounds().Current()
	require.NoError(t, err)
	f.confirm(t, 7, id, current.Relays[:2])
	_, _, err = state.Apply(f.st, 7, &state.Vote{Relay: current.Relays[2], EventID: id, Decision: consensus.DecisionConfirm})
	require.ErrorIs(t, err, rounds.ErrTooEarly)
}

func TestLateRotation(t *testing.T) {
	f := newFixture(t)
	id := f.initialize(t, rotationConf, &payload.Rotation{
		Round:  1,
		Relays: f.relays,
	}, 50)
	effects := f.confirm(t, 50, id, f.relays)
	initialized := findEffect[*rounds.RoundInitialized](effects)
	require.Len(t, initialized, 1)
	require.Equal(t, uint64(50), initialized[0].Start)
	require.Equal(t, uint64(60), initialized[0].End)
}

func TestUnexpectedRound(t *testing.T) {
	f := newFixture(t)
	id := f.initialize(t, rotationConf, &payload.Rotation{
		Round:  3,
		Relays: f.relays,
	}, 5)
	f.confirm(t, 5, id, f.relays[:2])
	_, _, err := state.Apply(f.st, 5, &state.Vote{Relay: f.relays[2], EventID: id, Decision: consensus.DecisionConfirm})
	require.ErrorIs(t, err, rounds.ErrUnexpectedRound)
}

func sign(t *testing.T, data []byte, keys []*ecdsa.PrivateKey) [][]byte {
	t.Helper()
	digest := crypto.Keccak256Hash(data)
	res := make([][]byte, len(keys))
	for i, key := range keys {
		sig, err := crypto.Sign(digest.Bytes(), key)
		require.NoError(t, err)
		res[i] = sig
	}

	return res
}

func TestSubmitSignedRotation(t *testing.T) {
	f := newFixture(t)
	data, err := payload.Encode(&payload.Rotation{
		Round:     1,
		Relays:    []common.Address{outsider, recipient},
		StartTime: 20,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		signatures [][]byte
		err        string
	}{
		{
			name:       "Short",
			signatures: [][]byte{{0x01}},
			err:        "signature 0 has length 1: invalid signature",
		},
		{
			name:       "TooFew",
			signatures: sign(t, data, f.keys[:2]),
			err:        "insufficient relay signatures",
		},
		{
			name:       "Unordered",
			signatures: sign(t, data, []*ecdsa.PrivateKey{f.keys[2], f.keys[1], f.keys[0]}),
			err:        "signers not in ascending order",
		},
		{
			name:       "Good",
			signatures: sign(t, data, f.keys),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, effects, err := state.Apply(f.st, 5, &state.SubmitSignedRotation{Payload: data, Signatures: test.signatures})
			if test.err != "" {
				require.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, findEffect[*rounds.RoundInitialized](effects), 1)
			require.Len(t, findEffect[*consensus.EventInitialized](effects), 2)
			current, err := res.Rounds().Current()
			require.NoError(t, err)
			require.Equal(t, uint64(20), current.Start)
		})
	}
}

func setupMerge(t *testing.T, f *fixture) common.Address {
	t.Helper()
	f.apply(t, 0, &state.DeployMergeRoute{Caller: owner, AlienToken: alien})
	f.apply(t, 0, &state.DeployMergePool{
		Caller: owner,
		Nonce:  1,
		Tokens: []*merge.PoolToken{
			{Token: canon, Decimals: 9},
			{Token: alien, Decimals: 6, HomeChainID: 56, HomeToken: []byte{0x56}},
		},
		CanonIndex: 0,
	})
	pool := f.st.Merge().DerivePool(1)
	f.apply(t, 0, &state.EnableMergePool{Caller: owner, Pool: pool})
	f.apply(t, 0, &state.SetRoutePool{Caller: owner, AlienToken: alien, Pool: pool})

	return pool
}

func TestWithdrawalThroughMerge(t *testing.T) {
	f := newFixture(t)
	setupMerge(t, f)
	f.apply(t, day, &state.SetWithdrawFee{Caller: owner, Token: canon, Bps: 0})

	id := f.initialize(t, withdrawalConf, &payload.Withdrawal{
		Token:     alien,
		Amount:    types.NewAmount(333),
		Recipient: recipient,
	}, day)
	effects := f.confirm(t, day, id, f.relays)

	deposited := findEffect[*merge.Deposited](effects)
	require.Len(t, deposited, 1)
	require.Equal(t, uint64(333000), deposited[0].Minted.Uint64())

	// The vault holds no canon yet so the withdrawal waits for liquidity.
	created := findEffect[*risk.PendingCreated](effects)
	require.Len(t, created, 1)
	require.Equal(t, canon, created[0].Token)
	require.Equal(t, uint64(333000), created[0].Amount.Uint64())
	require.Equal(t, risk.ApproveStatusNotRequired, created[0].Status)

	f.apply(t, day, &state.Deposit{Caller: outsider, Token: canon, Amount: types.NewAmount(333000), Recipient: []byte{0x01}})
	effects = f.apply(t, day, &state.ForceResolve{Caller: outsider, Recipient: recipient, ID: 0})
	require.Len(t, findEffect[*risk.Released](effects), 1)
}

func TestMergeBurnEvent(t *testing.T) {
	f := newFixture(t)
	setupMerge(t, f)

	id := f.initialize(t, burnConf, &payload.MergeBurn{
		BurnToken:   canon,
		Amount:      types.NewAmount(33300),
		TargetToken: alien,
		Recipient:   []byte{0xaa, 0xbb},
	}, day)
	effects := f.confirm(t, day, id, f.relays)
	burned := findEffect[*merge.Burned](effects)
	require.Len(t, burned, 1)
	require.Equal(t, uint64(33), burned[0].Minted.Uint64())
	require.Equal(t, int32(56), burned[0].HomeChainID)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	setupMerge(t, f)

	effects := f.apply(t, day, &state.Deposit{Caller: outsider, Token: alien, Amount: types.NewAmount(333), Recipient: []byte{0x01}})
	outbound := findEffect[*types.OutboundTransfer](effects)
	require.Len(t, outbound, 1)
	require.Equal(t, canon, outbound[0].Token)
	require.Equal(t, uint64(333000), outbound[0].Amount.Uint64())
	require.Equal(t, uint64(333000), f.st.Risk().Liquidity(canon).Uint64())
	require.True(t, f.st.Risk().Liquidity(alien).IsZero())

	_, _, err := state.Apply(f.st, day, &state.Deposit{Caller: outsider, Token: alien})
	require.ErrorIs(t, err, state.ErrZeroAmount)
}

func TestMergedDepositFundsWithdrawal(t *testing.T) {
	f := newFixture(t)
	setupMerge(t, f)
	f.apply(t, day, &state.SetWithdrawFee{Caller: owner, Token: canon, Bps: 0})
	f.apply(t, day, &state.Deposit{Caller: outsider, Token: alien, Amount: types.NewAmount(1000), Recipient: []byte{0x01}})

	id := f.initialize(t, withdrawalConf, &payload.Withdrawal{
		Token:     alien,
		Amount:    types.NewAmount(100),
		Recipient: recipient,
	}, day)
	effects := f.confirm(t, day, id, f.relays)

	released := findEffect[*risk.Released](effects)
	require.Len(t, released, 1)
	require.Equal(t, canon, released[0].Token)
	require.Equal(t, uint64(100000), released[0].Amount.Uint64())
	require.Empty(t, findEffect[*risk.PendingCreated](effects))
	require.Equal(t, uint64(900000), f.st.Risk().Liquidity(canon).Uint64())
}

func TestDisabledPoolRejectsDeposit(t *testing.T) {
	f := newFixture(t)
	pool := setupMerge(t, f)
	effects := f.apply(t, day, &state.DisableMergePool{Caller: owner, Pool: pool})
	require.Len(t, findEffect[*merge.PoolDisabled](effects), 1)

	res, _, err := state.Apply(f.st, day, &state.Deposit{Caller: outsider, Token: alien, Amount: types.NewAmount(333), Recipient: []byte{0x01}})
	require.ErrorIs(t, err, merge.ErrTokenDisabled)
	require.Same(t, f.st, res)
	require.True(t, f.st.Risk().Liquidity(canon).IsZero())

	f.apply(t, day, &state.EnableMergePool{Caller: owner, Pool: pool})
	f.apply(t, day, &state.Deposit{Caller: outsider, Token: alien, Amount: types.NewAmount(333), Recipient: []byte{0x01}})
	require.Equal(t, uint64(333000), f.st.Risk().Liquidity(canon).Uint64())
}

func TestInitializeErrors(t *testing.T) {
	f := newFixture(t)
	withdrawal, err := payload.Encode(&payload.Withdrawal{Token: token, Amount: types.NewAmount(1), ExpectedCost: types.NewAmount(500)})
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  *state.InitializeEvent
		err  string
		kind types.Kind
	}{
		{
			name: "UnknownConfiguration",
			cmd:  &state.InitializeEvent{Configuration: outsider, Payload: withdrawal, Value: types.NewAmount(1000)},
			err:  "unknown event configuration",
			kind: types.KindNotFound,
		},
		{
			name: "Mismatch",
			cmd:  &state.InitializeEvent{Configuration: rotationConf, Payload: withdrawal, Value: types.NewAmount(1000)},
			err:  "payload does not match configuration",
			kind: types.KindPrecondition,
		},
		{
			name: "BadPayload",
			cmd:  &state.InitializeEvent{Configuration: withdrawalConf, Payload: []byte{0x02, 0x01}, Value: types.NewAmount(1000)},
			kind: types.KindPrecondition,
		},
		{
			name: "Underfunded",
			cmd:  &state.InitializeEvent{Configuration: withdrawalConf, Payload: withdrawal, Value: types.NewAmount(499)},
			err:  "insufficient initial balance",
			kind: types.KindPrecondition,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, _, err := state.Apply(f.st, 0, test.cmd)
			require.Error(t, err)
			if test.err != "" {
				require.EqualError(t, err, test.err)
			}
			require.Equal(t, test.kind, types.KindOf(err))
			require.Same(t, f.st, res)
			require.Equal(t, 0, res.Events().Events())
		})
	}
}

func TestCloseEvent(t *testing.T) {
	f := newFixture(t)
	id := f.initialize(t, withdrawalConf, &payload.Withdrawal{Token: token, Amount: types.NewAmount(1), Recipient: recipient}, day)

	_, _, err := state.Apply(f.st, day, &state.CloseEvent{EventID: id})
	require.ErrorIs(t, err, consensus.ErrEventNotTerminal)

	for _, relay := range f.relays {
		f.apply(t, day, &state.Vote{Relay: relay, EventID: id, Decision: consensus.DecisionReject})
	}
	effects := f.apply(t, day, &state.CloseEvent{EventID: id})
	closed := findEffect[*consensus.EventClosed](effects)
	require.Len(t, closed, 1)
	require.Equal(t, initializer, closed[0].Initializer)
	require.Equal(t, uint64(100), closed[0].Refund.Uint64())

	// Rejected withdrawals are never processed.
	require.Empty(t, f.st.Risk().PendingFor(recipient))
	period := f.st.Risk().PeriodAt(token, day)
	require.True(t, period.Total.IsZero())
}

func TestNewCommand(t *testing.T) {
	original := &state.ApprovePending{Caller: approver, Recipient: recipient, ID: 3, Decision: risk.DecisionReject}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	cmd, err := state.NewCommand(original.CommandName())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, cmd))
	require.Equal(t, original, cmd)

	_, err = state.NewCommand("bogus")
	require.ErrorIs(t, err, state.ErrUnknownCommand)
}

func TestJSON(t *testing.T) {
	f := newFixture(t)
	setupMerge(t, f)
	id := f.initialize(t, withdrawalConf, &payload.Withdrawal{Token: alien, Amount: types.NewAmount(333), Recipient: recipient}, day)
	f.confirm(t, day, id, f.relays[:2])

	data, err := json.Marshal(f.st)
	require.NoError(t, err)
	res := &state.State{}
	require.NoError(t, json.Unmarshal(data, res))

	require.Equal(t, f.st.Config(), res.Config())
	require.Equal(t, f.st.Rounds().Rounds(), res.Rounds().Rounds())
	expected, err := f.st.Events().Event(id)
	require.NoError(t, err)
	event, err := res.Events().Event(id)
	require.NoError(t, err)
	require.Equal(t, expected, event)

	// The restored state carries on where the original left off.
	effects, err := func() ([]types.Effect, error) {
		_, effects, err := state.Apply(res, day, &state.Vote{Relay: f.relays[2], EventID: id, Decision: consensus.DecisionConfirm})
		return effects, err
	}()
	require.NoError(t, err)
	require.Len(t, findEffect[*merge.Deposited](effects), 1)

	require.EqualError(t, json.Unmarshal([]byte(`{"rounds":{"rounds":[]}}`), res), "state has no rounds")
}

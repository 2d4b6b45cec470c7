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

package risk_test

import (
	"encoding/json"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/core/risk"
	"github.com/wealdtech/bridged/core/types"
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	approver  = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	token     = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	recipient = common.HexToAddress("0x00000000000000000000000000000000000000dd")
	forcer    = common.HexToAddress("0x00000000000000000000000000000000000000ee")
)

// day is a timestamp within a single period.
const day = uint64(19000 * 86400)

func amount(val uint64) *uint256.Int {
	return uint256.NewInt(val)
}

func newEngine(t *testing.T, feeBps uint64, liquidity uint64) *risk.Engine {
	t.Helper()
	engine := risk.New(risk.Config{
		Owner:         owner,
		Approver:      approver,
		DefaultFeeBps: feeBps,
	})
	_, err := engine.SetLimits(owner, token, amount(700), amount(500))
	require.NoError(t, err)
	_, err = engine.EnableLimits(owner, token, true)
	require.NoError(t, err)
	engine.Deposit(token, amount(liquidity))

	return engine
}

func withdrawal(val uint64, timestamp uint64) *risk.Withdrawal {
	return &risk.Withdrawal{
		Token:     token,
		Amount:    types.NewAmount(val),
		Recipient: recipient,
		Timestamp: timestamp,
	}
}

func TestDailyLimits(t *testing.T) {
	engine := newEngine(t, 100, 10000)

	effects := engine.Process(withdrawal(501, day))
	require.Len(t, effects, 2)
	created, ok := effects[1].(*risk.PendingCreated)
	require.True(t, ok)
	require.Equal(t, uint64(496), created.Amount.Uint64())
	require.Equal(t, risk.ApproveStatusNew, created.Status)

	period := engine.PeriodAt(token, day)
	require.Equal(t, uint64(501), period.Total.Uint64())
	require.True(t, period.Considered.IsZero())

	// Individually below the undeclared limit but over the daily limit.
	effects = engine.Process(withdrawal(300, day+60))
	created, ok = effects[1].(*risk.PendingCreated)
	require.True(t, ok)
	require.Equal(t, uint64(1), created.ID)
	require.Equal(t, uint64(297), created.Amount.Uint64())

	period = engine.PeriodAt(token, day)
	require.Equal(t, uint64(801), period.Total.Uint64())
	require.True(t, period.Considered.IsZero())
	require.Equal(t, uint64(793), engine.PendingTotal(token).Uint64())
	require.Equal(t, uint64(8), engine.Fees(token).Uint64())

	// A new day starts a new period.
	effects = engine.Process(withdrawal(300, day+86400))
	released, ok := effects[1].(*risk.Released)
	require.True(t, ok)
	require.Equal(t, uint64(297), released.Amount.Uint64())
	period = engine.PeriodAt(token, day+86400)
	require.Equal(t, uint64(300), period.Considered.Uint64())
	require.Equal(t, uint64(10000-297), engine.Liquidity(token).Uint64())
}

func TestLimitsDisabled(t *testing.T) {
	engine := newEngine(t, 0, 10000)
	_, err := engine.EnableLimits(owner, token, false)
	require.NoError(t, err)

	effects := engine.Process(withdrawal(900, day))
	require.IsType(t, &risk.Released{}, effects[1])
	period := engine.PeriodAt(token, day)
	require.Equal(t, uint64(900), period.Considered.Uint64())
	require.Equal(t, uint64(900), period.Total.Uint64())
}

func TestInsufficientLiquidity(t *testing.T) {
	engine := newEngine(t, 0, 100)

	effects := engine.Process(withdrawal(200, day))
	created, ok := effects[1].(*risk.PendingCreated)
	require.True(t, ok)
	require.Equal(t, risk.ApproveStatusNotRequired, created.Status)

	_, err := engine.Approve(approver, recipient, 0, risk.DecisionApprove)
	require.ErrorIs(t, err, risk.ErrApprovalNotRequired)

	_, err = engine.ForceResolve(forcer, recipient, 0)
	require.ErrorIs(t, err, risk.ErrInsufficientLiquidity)

	engine.Deposit(token, amount(100))
	effects, err = engine.ForceResolve(forcer, recipient, 0)
	require.NoError(t, err)
	require.Len(t, effects, 2)
	require.True(t, engine.Liquidity(token).IsZero())
}

func TestApprove(t *testing.T) {
	tests := []struct {
		name      string
		prior     []risk.Decision
		caller    common.Address
		decision  risk.Decision
		liquidity uint64
		status    risk.ApproveStatus
		open      bool
		err       string
		kind      types.Kind
	}{
		{
			name:      "NotApprover",
			caller:    owner,
			decision:  risk.DecisionApprove,
			liquidity: 1000,
			err:       "caller is not the approver",
			kind:      types.KindUnauthorized,
		},
		{
			name:      "BadDecision",
			caller:    approver,
			decision:  risk.Decision(7),
			liquidity: 1000,
			err:       "invalid decision",
			kind:      types.KindPrecondition,
		},
		{
			name:      "ApproveReleases",
			caller:    approver,
			decision:  risk.DecisionApprove,
			liquidity: 1000,
			status:    risk.ApproveStatusApproved,
			open:      false,
		},
		{
			name:      "ApproveWithoutLiquidity",
			caller:    approver,
			decision:  risk.DecisionApprove,
			liquidity: 100,
			status:    risk.ApproveStatusApproved,
			open:      true,
		},
		{
			name:      "Reject",
			caller:    approver,
			decision:  risk.DecisionReject,
			liquidity: 1000,
			status:    risk.ApproveStatusRejected,
			open:      true,
		},
		{
			name:      "RejectThenApprove",
			prior:     []risk.Decision{risk.DecisionReject},
			caller:    approver,
			decision:  risk.DecisionApprove,
			liquidity: 1000,
			err:       "pending withdrawal already rejected",
			kind:      types.KindPrecondition,
		},
		{
			name:      "RejectTwice",
			prior:     []risk.Decision{risk.DecisionReject},
			caller:    approver,
			decision:  risk.DecisionReject,
			liquidity: 1000,
			err:       "pending withdrawal already rejected",
			kind:      types.KindPrecondition,
		},
		{
			name:      "ApproveThenReject",
			prior:     []risk.Decision{risk.DecisionApprove},
			caller:    approver,
			decision:  risk.DecisionReject,
			liquidity: 100,
			err:       "pending withdrawal already approved",
			kind:      types.KindPrecondition,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine := newEngine(t, 0, test.liquidity)
			engine.Process(withdrawal(600, day))
			for _, decision := range test.prior {
				_, err := engine.Approve(approver, recipient, 0, decision)
				require.NoError(t, err)
			}

			_, err := engine.Approve(test.caller, recipient, 0, test.decision)
			if test.err != "" {
				require.EqualError(t, err, test.err)
				require.Equal(t, test.kind, types.KindOf(err))
				return
			}
			require.NoError(t, err)
			pending, err := engine.Pending(recipient, 0)
			require.NoError(t, err)
			require.Equal(t, test.status, pending.Status)
			require.Equal(t, test.open, pending.Open())
		})
	}
}

func TestRejectHoldsFunds(t *testing.T) {
	engine := newEngine(t, 0, 1000)
	engine.Process(withdrawal(600, day))

	_, err := engine.Approve(approver, recipient, 0, risk.DecisionReject)
	require.NoError(t, err)
	_, err = engine.ForceResolve(forcer, recipient, 0)
	require.ErrorIs(t, err, risk.ErrNotApproved)
	require.Equal(t, uint64(600), engine.PendingTotal(token).Uint64())

	// The recipient can still recover the funds through cancel.
	effects, err := engine.CancelPartial(recipient, 0, amount(600), []byte{0x01}, amount(0))
	require.NoError(t, err)
	outbound, ok := effects[1].(*types.OutboundTransfer)
	require.True(t, ok)
	require.Equal(t, uint64(600), outbound.Amount.Uint64())
	require.True(t, engine.PendingTotal(token).IsZero())

	// Fully cancelled records are closed.
	_, err = engine.Approve(approver, recipient, 0, risk.DecisionApprove)
	require.ErrorIs(t, err, risk.ErrPendingClosed)
}

func TestCancelPartial(t *testing.T) {
	tests := []struct {
		name   string
		caller common.Address
		id     uint64
		cancel uint64
		bounty uint64
		err    string
	}{
		{
			name:   "NotOwner",
			caller: forcer,
			cancel: 100,
			err:    "unknown pending withdrawal",
		},
		{
			name:   "UnknownID",
			caller: recipient,
			id:     3,
			cancel: 100,
			err:    "unknown pending withdrawal",
		},
		{
			name:   "Zero",
			caller: recipient,
			err:    "invalid amount",
		},
		{
			name:   "TooMuch",
			caller: recipient,
			cancel: 601,
			err:    "invalid amount",
		},
		{
			name:   "BountyAboveRemainder",
			caller: recipient,
			cancel: 500,
			bounty: 101,
			err:    "bounty exceeds amount",
		},
		{
			name:   "Good",
			caller: recipient,
			cancel: 500,
			bounty: 100,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine := newEngine(t, 0, 1000)
			engine.Process(withdrawal(600, day))

			effects, err := engine.CancelPartial(test.caller, test.id, amount(test.cancel), []byte{0x01}, amount(test.bounty))
			if test.err != "" {
				require.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, effects, 2)
			pending, err := engine.Pending(recipient, 0)
			require.NoError(t, err)
			require.Equal(t, uint64(100), pending.Amount.Uint64())
			require.Equal(t, uint64(100), pending.Bounty.Uint64())
			require.Equal(t, uint64(100), engine.PendingTotal(token).Uint64())
		})
	}
}

func TestCancelApproved(t *testing.T) {
	engine := newEngine(t, 0, 0)
	engine.Process(withdrawal(600, day))
	_, err := engine.Approve(approver, recipient, 0, risk.DecisionApprove)
	require.NoError(t, err)

	_, err = engine.CancelPartial(recipient, 0, amount(100), nil, amount(0))
	require.ErrorIs(t, err, risk.ErrAlreadyApproved)
}

func TestSetBounty(t *testing.T) {
	engine := newEngine(t, 0, 0)
	engine.Process(withdrawal(600, day))

	_, err := engine.SetBounty(recipient, 0, amount(601))
	require.ErrorIs(t, err, risk.ErrBountyTooHigh)
	_, err = engine.SetBounty(forcer, 0, amount(1))
	require.ErrorIs(t, err, risk.ErrUnknownPending)

	_, err = engine.SetBounty(recipient, 0, amount(50))
	require.NoError(t, err)

	// Allowed after approval too.
	_, err = engine.Approve(approver, recipient, 0, risk.DecisionApprove)
	require.NoError(t, err)
	_, err = engine.SetBounty(recipient, 0, amount(60))
	require.NoError(t, err)
	pending, err := engine.Pending(recipient, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(60), pending.Bounty.Uint64())
}

func TestForceResolve(t *testing.T) {
	engine := newEngine(t, 0, 0)
	engine.Process(withdrawal(600, day))

	_, err := engine.ForceResolve(forcer, recipient, 0)
	require.ErrorIs(t, err, risk.ErrNotApproved)

	_, err = engine.SetBounty(recipient, 0, amount(50))
	require.NoError(t, err)
	_, err = engine.Approve(approver, recipient, 0, risk.DecisionApprove)
	require.NoError(t, err)
	engine.Deposit(token, amount(1000))

	effects, err := engine.ForceResolve(forcer, recipient, 0)
	require.NoError(t, err)
	require.Len(t, effects, 3)
	toRecipient, ok := effects[1].(*risk.Released)
	require.True(t, ok)
	require.Equal(t, recipient, toRecipient.Recipient)
	require.Equal(t, uint64(550), toRecipient.Amount.Uint64())
	toForcer, ok := effects[2].(*risk.Released)
	require.True(t, ok)
	require.Equal(t, forcer, toForcer.Recipient)
	require.Equal(t, uint64(50), toForcer.Amount.Uint64())
	require.Equal(t, uint64(400), engine.Liquidity(token).Uint64())

	// Repeated forcing fails loudly.
	_, err = engine.ForceResolve(forcer, recipient, 0)
	require.ErrorIs(t, err, risk.ErrPendingClosed)
	require.Equal(t, types.KindReplay, types.KindOf(err))
	_, err = engine.SetBounty(recipient, 0, amount(0))
	require.ErrorIs(t, err, risk.ErrPendingClosed)
}

func TestGovernance(t *testing.T) {
	engine := risk.New(risk.Config{Owner: owner, Approver: approver, DefaultFeeBps: 30})

	_, err := engine.SetLimits(approver, token, amount(10), amount(5))
	require.ErrorIs(t, err, risk.ErrNotOwner)
	require.Equal(t, types.KindUnauthorized, types.KindOf(err))
	_, err = engine.EnableLimits(forcer, token, true)
	require.ErrorIs(t, err, risk.ErrNotOwner)
	_, err = engine.SetFee(forcer, token, 10)
	require.ErrorIs(t, err, risk.ErrNotOwner)

	_, err = engine.SetLimits(owner, token, amount(5), amount(10))
	require.ErrorIs(t, err, risk.ErrInvalidLimits)
	_, err = engine.SetFee(owner, token, 10001)
	require.ErrorIs(t, err, risk.ErrInvalidFee)

	require.Equal(t, uint64(30), engine.FeeBps(token))
	_, err = engine.SetFee(owner, token, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), engine.FeeBps(token))

	_, err = engine.SetLimits(owner, token, amount(10), amount(5))
	require.NoError(t, err)
	require.False(t, engine.Limits(token).Enabled)
	_, err = engine.EnableLimits(owner, token, true)
	require.NoError(t, err)
	limits := engine.Limits(token)
	require.True(t, limits.Enabled)
	require.Equal(t, uint64(10), limits.Daily.Uint64())
}

// TestConservation checks across random activity that escrowed plus paid-out value
// always equals the net value of the withdrawals processed, and that considered never exceeds total.
func TestConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	engine := newEngine(t, 25, 2000)

	processed := new(big.Int)
	paid := new(big.Int)
	account := func(effects []types.Effect) {
		for _, effect := range effects {
			switch e := effect.(type) {
			case *risk.Released:
				paid.Add(paid, e.Amount.ToBig())
			case *types.OutboundTransfer:
				paid.Add(paid, e.Amount.ToBig())
			case *risk.WithdrawalProcessed:
				net := new(big.Int).Sub(e.Amount.ToBig(), e.Fee.ToBig())
				processed.Add(processed, net)
			}
		}
	}

	timestamp := day
	for i := 0; i < 500; i++ {
		timestamp += uint64(rng.Intn(20000))
		switch rng.Intn(6) {
		case 0, 1:
			account(engine.Process(withdrawal(uint64(rng.Intn(800)+1), timestamp)))
		case 2:
			engine.Deposit(token, amount(uint64(rng.Intn(1000))))
		case 3:
			records := engine.PendingFor(recipient)
			if len(records) > 0 {
				decision := risk.DecisionApprove
				if rng.Intn(3) == 0 {
					decision = risk.DecisionReject
				}
				effects, err := engine.Approve(approver, recipient, uint64(rng.Intn(len(records))), decision)
				if err == nil {
					account(effects)
				}
			}
		case 4:
			records := engine.PendingFor(recipient)
			if len(records) > 0 {
				effects, err := engine.ForceResolve(forcer, recipient, uint64(rng.Intn(len(records))))
				if err == nil {
					account(effects)
				}
			}
		case 5:
			records := engine.PendingFor(recipient)
			if len(records) > 0 {
				id := uint64(rng.Intn(len(records)))
				if records[id].Open() {
					half := new(uint256.Int).Rsh(&records[id].Amount, 1)
					if half.IsZero() {
						half.SetOne()
					}
					effects, err := engine.CancelPartial(recipient, id, half, nil, amount(0))
					if err == nil {
						account(effects)
					}
				}
			}
		}

		escrowed := new(big.Int)
		for _, record := range engine.PendingFor(recipient) {
			escrowed.Add(escrowed, record.Amount.ToBig())
		}
		require.Equal(t, processed.String(), new(big.Int).Add(escrowed, paid).String(), "step %d", i)
		require.Equal(t, escrowed.String(), engine.PendingTotal(token).ToBig().String())

		period := engine.PeriodAt(token, timestamp)
		require.False(t, period.Considered.Gt(&period.Total))
	}
}

func TestClone(t *testing.T) {
	engine := newEngine(t, 0, 0)
	engine.Process(withdrawal(600, day))

	clone := engine.Clone()
	_, err := clone.SetBounty(recipient, 0, amount(10))
	require.NoError(t, err)
	clone.Deposit(token, amount(5))

	pending, err := engine.Pending(recipient, 0)
	require.NoError(t, err)
	require.True(t, pending.Bounty.IsZero())
	require.True(t, engine.Liquidity(token).IsZero())
}

func TestJSON(t *testing.T) {
	engine := newEngine(t, 100, 300)
	engine.Process(withdrawal(600, day))
	engine.Process(withdrawal(200, day))
	engine.Process(withdrawal(100, day))
	_, err := engine.SetFee(owner, token, 50)
	require.NoError(t, err)

	data, err := json.Marshal(engine)
	require.NoError(t, err)
	res := risk.New(risk.Config{})
	require.NoError(t, json.Unmarshal(data, res))

	require.Equal(t, engine.Config(), res.Config())
	require.Equal(t, engine.Limits(token), res.Limits(token))
	require.Equal(t, engine.FeeBps(token), res.FeeBps(token))
	require.Equal(t, engine.PeriodAt(token, day), res.PeriodAt(token, day))
	require.Equal(t, engine.PendingFor(recipient), res.PendingFor(recipient))
	require.Equal(t, engine.PendingTotal(token), res.PendingTotal(token))
	require.Equal(t, engine.Fees(token), res.Fees(token))
	require.Equal(t, engine.Liquidity(token), res.Liquidity(token))
}

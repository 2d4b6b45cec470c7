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

package risk

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/wealdtech/bridged/core/types"
)

// MaxFeeBps is the largest withdrawal fee, in basis points.
const MaxFeeBps = uint64(10000)

var (
	// ErrNotOwner is returned when a governance call does not come from the owner.
	ErrNotOwner = types.NewError(types.KindUnauthorized, "caller is not the owner")
	// ErrNotApprover is returned when an approval does not come from the approver.
	ErrNotApprover = types.NewError(types.KindUnauthorized, "caller is not the approver")
	// ErrUnknownPending is returned when a pending withdrawal does not exist.
	ErrUnknownPending = types.NewError(types.KindNotFound, "unknown pending withdrawal")
	// ErrPendingClosed is returned when operating on a resolved pending withdrawal.
	ErrPendingClosed = types.NewError(types.KindReplay, "pending withdrawal already resolved")
	// ErrApprovalNotRequired is returned when approving a withdrawal that does not need approval.
	ErrApprovalNotRequired = types.NewError(types.KindPrecondition, "approval not required")
	// ErrAlreadyApproved is returned when approving or cancelling an approved withdrawal.
	ErrAlreadyApproved = types.NewError(types.KindPrecondition, "pending withdrawal already approved")
	// ErrAlreadyRejected is returned when deciding on a rejected withdrawal.
	ErrAlreadyRejected = types.NewError(types.KindPrecondition, "pending withdrawal already rejected")
	// ErrNotApproved is returned when forcing a withdrawal that has not been approved.
	ErrNotApproved = types.NewError(types.KindPrecondition, "pending withdrawal not approved")
	// ErrInsufficientLiquidity is returned when the vault cannot cover a release.
	ErrInsufficientLiquidity = types.NewError(types.KindPrecondition, "insufficient liquidity")
	// ErrInvalidAmount is returned for a zero or oversized cancellation.
	ErrInvalidAmount = types.NewError(types.KindPrecondition, "invalid amount")
	// ErrBountyTooHigh is returned when a bounty exceeds the pending amount.
	ErrBountyTooHigh = types.NewError(types.KindPrecondition, "bounty exceeds amount")
	// ErrInvalidFee is returned for a fee above the maximum.
	ErrInvalidFee = types.NewError(types.KindPrecondition, "invalid fee")
	// ErrInvalidDecision is returned for a decision other than approve or reject.
	ErrInvalidDecision = types.NewError(types.KindPrecondition, "invalid decision")
	// ErrInvalidLimits is returned when the undeclared limit exceeds the daily limit.
	ErrInvalidLimits = types.NewError(types.KindPrecondition, "undeclared limit exceeds daily limit")
)

// Config is the configuration of the risk engine.
type Config struct {
	// Owner may change limits and fees.
	Owner common.Address `json:"owner"`
	// Approver may approve or reject pending withdrawals.
	Approver common.Address `json:"approver"`
	// DefaultFeeBps is the withdrawal fee for tokens without their own.
	DefaultFeeBps uint64 `json:"default_fee_bps"`
}

// Engine holds limits, periods and pending withdrawals.
type Engine struct {
	config       Config
	limits       map[common.Address]*Limits
	feeBps       map[common.Address]uint64
	periods      map[periodKey]*Period
	pending      map[common.Address][]*PendingWithdrawal
	fees         map[common.Address]*uint256.Int
	liquidity    map[common.Address]*uint256.Int
	pendingTotal map[common.Address]*uint256.Int
}

// New creates an empty engine.
func New(config Config) *Engine {
	return &Engine{
		config:       config,
		limits:       make(map[common.Address]*Limits),
		feeBps:       make(map[common.Address]uint64),
		periods:      make(map[periodKey]*Period),
		pending:      make(map[common.Address][]*PendingWithdrawal),
		fees:         make(map[common.Address]*uint256.Int),
		liquidity:    make(map[common.Address]*uint256.Int),
		pendingTotal: make(map[common.Address]*uint256.Int),
	}
}

// Process decides whether a confirmed withdrawal is released immediately or escrowed.
func (e *Engine) Process(w *Withdrawal) []types.Effect {
	fee := e.fee(w.Token, &w.Amount)
	net := new(uint256.Int).Sub(&w.Amount, fee)
	accumulate(e.fees, w.Token, fee)

	periodID := types.PeriodID(w.Timestamp)
	period := e.period(w.Token, periodID)
	period.Total.Add(&period.Total, &w.Amount)

	processed := &WithdrawalProcessed{
		Token:     w.Token,
		PeriodID:  periodID,
		Recipient: w.Recipient,
		Amount:    w.Amount,
		Fee:       *fee,
	}
	effects := []types.Effect{processed}

	status := ApproveStatusNew
	escrow := false
	if limits, exists := e.limits[w.Token]; exists && limits.Enabled {
		escrow = w.Amount.Gt(&limits.Undeclared) || period.Total.Gt(&limits.Daily)
	}
	if !escrow && e.Liquidity(w.Token).Lt(net) {
		escrow = true
		status = ApproveStatusNotRequired
	}

	if escrow {
		processed.Escrowed = true
		pending := &PendingWithdrawal{
			Recipient: w.Recipient,
			ID:        uint64(len(e.pending[w.Recipient])),
			Token:     w.Token,
			Amount:    *net,
			Status:    status,
			Timestamp: w.Timestamp,
			EventID:   w.EventID,
		}
		e.pending[w.Recipient] = append(e.pending[w.Recipient], pending)
		accumulate(e.pendingTotal, w.Token, net)

		return append(effects, &PendingCreated{
			Recipient: pending.Recipient,
			ID:        pending.ID,
			Token:     pending.Token,
			Amount:    pending.Amount,
			Status:    pending.Status,
		})
	}

	period.Considered.Add(&period.Considered, &w.Amount)

	return append(effects, e.release(w.Token, w.Recipient, net))
}

// Deposit adds liquidity to the vault.
func (e *Engine) Deposit(token common.Address, amount *uint256.Int) {
	accumulate(e.liquidity, token, amount)
}

// Approve records the approver's decision on a pending withdrawal.
// Approval releases the withdrawal if the vault can cover it, otherwise it waits for ForceResolve.
// Rejection holds the funds in escrow for the recipient to cancel.
func (e *Engine) Approve(caller common.Address,
	recipient common.Address,
	id uint64,
	decision Decision,
) (
	[]types.Effect,
	error,
) {
	if caller != e.config.Approver {
		return nil, ErrNotApprover
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, ErrInvalidDecision
	}
	pending, err := e.openPending(recipient, id)
	if err != nil {
		return nil, err
	}
	switch pending.Status {
	case ApproveStatusNotRequired:
		return nil, ErrApprovalNotRequired
	case ApproveStatusApproved:
		return nil, ErrAlreadyApproved
	case ApproveStatusRejected:
		return nil, ErrAlreadyRejected
	}

	if decision == DecisionReject {
		pending.Status = ApproveStatusRejected

		return []types.Effect{
			&PendingUpdated{Recipient: recipient, ID: id, Action: "rejected"},
		}, nil
	}

	pending.Status = ApproveStatusApproved
	effects := []types.Effect{
		&PendingUpdated{Recipient: recipient, ID: id, Action: "approved"},
	}
	if e.Liquidity(pending.Token).Lt(&pending.Amount) {
		return effects, nil
	}

	amount := pending.Amount
	e.close(pending)

	return append(effects, e.release(pending.Token, recipient, &amount)), nil
}

// CancelPartial returns part of a pending withdrawal to its origin as a fresh deposit
// and sets a new bounty on the remainder.
// Only the recipient may cancel.
func (e *Engine) CancelPartial(caller common.Address,
	id uint64,
	amount *uint256.Int,
	destination []byte,
	bounty *uint256.Int,
) (
	[]types.Effect,
	error,
) {
	pending, err := e.openPending(caller, id)
	if err != nil {
		return nil, err
	}
	if pending.Status == ApproveStatusApproved {
		return nil, ErrAlreadyApproved
	}
	if amount.IsZero() || amount.Gt(&pending.Amount) {
		return nil, ErrInvalidAmount
	}
	remainder := new(uint256.Int).Sub(&pending.Amount, amount)
	if bounty.Gt(remainder) {
		return nil, ErrBountyTooHigh
	}

	pending.Amount = *remainder
	pending.Bounty = *bounty
	e.pendingTotal[pending.Token].Sub(e.pendingTotal[pending.Token], amount)

	return []types.Effect{
		&PendingUpdated{Recipient: caller, ID: id, Action: "cancelled"},
		&types.OutboundTransfer{
			Token:     pending.Token,
			Amount:    *amount,
			Recipient: append([]byte{}, destination...),
			Reason:    "pending cancel",
		},
	}, nil
}

// SetBounty sets the bounty on a pending withdrawal, whatever its approval status.
// Only the recipient may set the bounty.
func (e *Engine) SetBounty(caller common.Address,
	id uint64,
	bounty *uint256.Int,
) (
	[]types.Effect,
	error,
) {
	pending, err := e.openPending(caller, id)
	if err != nil {
		return nil, err
	}
	if bounty.Gt(&pending.Amount) {
		return nil, ErrBountyTooHigh
	}
	pending.Bounty = *bounty

	return []types.Effect{
		&PendingUpdated{Recipient: caller, ID: id, Action: "bounty"},
	}, nil
}

// ForceResolve releases an approved or approval-free pending withdrawal.
// The recipient receives the amount less the bounty and the caller receives the bounty.
func (e *Engine) ForceResolve(caller common.Address,
	recipient common.Address,
	id uint64,
) (
	[]types.Effect,
	error,
) {
	pending, err := e.openPending(recipient, id)
	if err != nil {
		return nil, err
	}
	if pending.Status != ApproveStatusApproved && pending.Status != ApproveStatusNotRequired {
		return nil, ErrNotApproved
	}
	if e.Liquidity(pending.Token).Lt(&pending.Amount) {
		return nil, ErrInsufficientLiquidity
	}

	bounty := pending.Bounty
	payout := new(uint256.Int).Sub(&pending.Amount, &bounty)
	e.close(pending)

	effects := []types.Effect{
		&PendingUpdated{Recipient: recipient, ID: id, Action: "forced"},
		e.release(pending.Token, recipient, payout),
	}
	if !bounty.IsZero() {
		effects = append(effects, e.release(pending.Token, caller, &bounty))
	}

	return effects, nil
}

// SetLimits sets the limits of a token, leaving their enablement untouched.
func (e *Engine) SetLimits(caller common.Address,
	token common.Address,
	daily *uint256.Int,
	undeclared *uint256.Int,
) (
	[]types.Effect,
	error,
) {
	if caller != e.config.Owner {
		return nil, ErrNotOwner
	}
	if undeclared.Gt(daily) {
		return nil, ErrInvalidLimits
	}
	limits := e.tokenLimits(token)
	limits.Daily = *daily
	limits.Undeclared = *undeclared

	return []types.Effect{&LimitsUpdated{Token: token}}, nil
}

// EnableLimits enables or disables the limits of a token.
func (e *Engine) EnableLimits(caller common.Address, token common.Address, enabled bool) ([]types.Effect, error) {
	if caller != e.config.Owner {
		return nil, ErrNotOwner
	}
	e.tokenLimits(token).Enabled = enabled

	return []types.Effect{&LimitsUpdated{Token: token}}, nil
}

// SetFee sets the withdrawal fee of a token, in basis points.
func (e *Engine) SetFee(caller common.Address, token common.Address, bps uint64) ([]types.Effect, error) {
	if caller != e.config.Owner {
		return nil, ErrNotOwner
	}
	if bps > MaxFeeBps {
		return nil, ErrInvalidFee
	}
	e.feeBps[token] = bps

	return []types.Effect{&LimitsUpdated{Token: token}}, nil
}

func (e *Engine) release(token common.Address, recipient common.Address, amount *uint256.Int) *Released {
	if balance, exists := e.liquidity[token]; exists {
		balance.Sub(balance, amount)
	}

	return &Released{
		Token:     token,
		Recipient: recipient,
		Amount:    *amount,
	}
}

// close zeroes a pending withdrawal.
func (e *Engine) close(pending *PendingWithdrawal) {
	e.pendingTotal[pending.Token].Sub(e.pendingTotal[pending.Token], &pending.Amount)
	pending.Amount.Clear()
	pending.Bounty.Clear()
}

func (e *Engine) openPending(recipient common.Address, id uint64) (*PendingWithdrawal, error) {
	records := e.pending[recipient]
	if id >= uint64(len(records)) {
		return nil, ErrUnknownPending
	}
	if !records[id].Open() {
		return nil, ErrPendingClosed
	}

	return records[id], nil
}

func (e *Engine) fee(token common.Address, amount *uint256.Int) *uint256.Int {
	bps := e.FeeBps(token)
	if bps == 0 {
		return new(uint256.Int)
	}
	// The quotient never exceeds amount so cannot overflow.
	fee, _ := new(uint256.Int).MulDivOverflow(amount, uint256.NewInt(bps), uint256.NewInt(MaxFeeBps))

	return fee
}

func (e *Engine) period(token common.Address, id uint64) *Period {
	key := periodKey{token: token, id: id}
	period, exists := e.periods[key]
	if !exists {
		period = &Period{Token: token, ID: id}
		e.periods[key] = period
	}

	return period
}

func (e *Engine) tokenLimits(token common.Address) *Limits {
	limits, exists := e.limits[token]
	if !exists {
		limits = &Limits{}
		e.limits[token] = limits
	}

	return limits
}

func accumulate(totals map[common.Address]*uint256.Int, token common.Address, amount *uint256.Int) {
	total, exists := totals[token]
	if !exists {
		total = new(uint256.Int)
		totals[token] = total
	}
	total.Add(total, amount)
}

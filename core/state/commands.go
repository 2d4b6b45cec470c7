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
	"github.com/holiman/uint256"
	"github.com/wealdtech/bridged/core/consensus"
	"github.com/wealdtech/bridged/core/merge"
	"github.com/wealdtech/bridged/core/payload"
	"github.com/wealdtech/bridged/core/risk"
)

// Command is a transaction against the state.
type Command interface {
	// CommandName is the name of the command, used in logs and metrics.
	CommandName() string
}

// InitializeEvent creates an event scoped to the current round.
type InitializeEvent struct {
	Caller        common.Address   `json:"caller"`
	Configuration common.Address   `json:"configuration"`
	Envelope      payload.Envelope `json:"envelope"`
	Payload       []byte           `json:"payload"`
	Value         uint256.Int      `json:"value"`
}

// Vote casts a relay's vote on an event.
type Vote struct {
	Relay    common.Address     `json:"relay"`
	EventID  common.Hash        `json:"event_id"`
	Decision consensus.Decision `json:"decision"`
}

// CloseEvent returns the balance of a decided event to its initializer.
type CloseEvent struct {
	EventID common.Hash `json:"event_id"`
}

// SubmitSignedRotation installs a round from signatures gathered off-chain from the current round.
type SubmitSignedRotation struct {
	Payload    []byte   `json:"payload"`
	Signatures [][]byte `json:"signatures"`
}

// Deposit locks value on this network for transfer to another.
type Deposit struct {
	Caller    common.Address `json:"caller"`
	Token     common.Address `json:"token"`
	Amount    uint256.Int    `json:"amount"`
	Recipient []byte         `json:"recipient"`
}

// SetLimits sets the withdrawal limits of a token.
type SetLimits struct {
	Caller     common.Address `json:"caller"`
	Token      common.Address `json:"token"`
	Daily      uint256.Int    `json:"daily"`
	Undeclared uint256.Int    `json:"undeclared"`
}

// EnableLimits enables the withdrawal limits of a token.
type EnableLimits struct {
	Caller common.Address `json:"caller"`
	Token  common.Address `json:"token"`
}

// DisableLimits disables the withdrawal limits of a token.
type DisableLimits struct {
	Caller common.Address `json:"caller"`
	Token  common.Address `json:"token"`
}

// SetWithdrawFee sets the withdrawal fee of a token.
type SetWithdrawFee struct {
	Caller common.Address `json:"caller"`
	Token  common.Address `json:"token"`
	Bps    uint64         `json:"bps"`
}

// ApprovePending approves or rejects a pending withdrawal.
type ApprovePending struct {
	Caller    common.Address `json:"caller"`
	Recipient common.Address `json:"recipient"`
	ID        uint64         `json:"id"`
	Decision  risk.Decision  `json:"decision"`
}

// CancelPending returns part of a pending withdrawal to its origin.
type CancelPending struct {
	Caller      common.Address `json:"caller"`
	ID          uint64         `json:"id"`
	Amount      uint256.Int    `json:"amount"`
	Destination []byte         `json:"destination"`
	Bounty      uint256.Int    `json:"bounty"`
}

// SetBounty sets the bounty of a pending withdrawal.
type SetBounty struct {
	Caller common.Address `json:"caller"`
	ID     uint64         `json:"id"`
	Bounty uint256.Int    `json:"bounty"`
}

// ForceResolve releases a pending withdrawal in exchange for its bounty.
type ForceResolve struct {
	Caller    common.Address `json:"caller"`
	Recipient common.Address `json:"recipient"`
	ID        uint64         `json:"id"`
}

// DeployMergeRoute creates the merge route of an alien token.
type DeployMergeRoute struct {
	Caller     common.Address `json:"caller"`
	AlienToken common.Address `json:"alien_token"`
}

// DeployMergePool creates a merge pool.
type DeployMergePool struct {
	Caller     common.Address     `json:"caller"`
	Nonce      uint64             `json:"nonce"`
	Tokens     []*merge.PoolToken `json:"tokens"`
	CanonIndex int                `json:"canon_index"`
}

// EnableMergePool enables every token of a merge pool.
type EnableMergePool struct {
	Caller common.Address `json:"caller"`
	Pool   common.Address `json:"pool"`
}

// DisableMergePool disables every token of a merge pool.
type DisableMergePool struct {
	Caller common.Address `json:"caller"`
	Pool   common.Address `json:"pool"`
}

// SetRoutePool binds a merge route to a pool.
type SetRoutePool struct {
	Caller     common.Address `json:"caller"`
	AlienToken common.Address `json:"alien_token"`
	Pool       common.Address `json:"pool"`
}

// CommandName returns the name of the command.
func (*InitializeEvent) CommandName() string { return "initialize_event" }

// CommandName returns the name of the command.
func (*Vote) CommandName() string { return "vote" }

// CommandName returns the name of the command.
func (*CloseEvent) CommandName() string { return "close_event" }

// CommandName returns the name of the command.
func (*SubmitSignedRotation) CommandName() string { return "submit_signed_rotation" }

// CommandName returns the name of the command.
func (*Deposit) CommandName() string { return "deposit" }

// CommandName returns the name of the command.
func (*SetLimits) CommandName() string { return "set_limits" }

// CommandName returns the name of the command.
func (*EnableLimits) CommandName() string { return "enable_limits" }

// CommandName returns the name of the command.
func (*DisableLimits) CommandName() string { return "disable_limits" }

// CommandName returns the name of the command.
func (*SetWithdrawFee) CommandName() string { return "set_withdraw_fee" }

// CommandName returns the name of the command.
func (*ApprovePending) CommandName() string { return "approve_pending" }

// CommandName returns the name of the command.
func (*CancelPending) CommandName() string { return "cancel_pending" }

// CommandName returns the name of the command.
func (*SetBounty) CommandName() string { return "set_bounty" }

// CommandName returns the name of the command.
func (*ForceResolve) CommandName() string { return "force_resolve" }

// CommandName returns the name of the command.
func (*DeployMergeRoute) CommandName() string { return "deploy_merge_route" }

// CommandName returns the name of the command.
func (*DeployMergePool) CommandName() string { return "deploy_merge_pool" }

// CommandName returns the name of the command.
func (*EnableMergePool) CommandName() string { return "enable_merge_pool" }

// CommandName returns the name of the command.
func (*DisableMergePool) CommandName() string { return "disable_merge_pool" }

// CommandName returns the name of the command.
func (*SetRoutePool) CommandName() string { return "set_route_pool" }

var commandFactories = map[string]func() Command{
	"initialize_event":       func() Command { return &InitializeEvent{} },
	"vote":                   func() Command { return &Vote{} },
	"close_event":            func() Command { return &CloseEvent{} },
	"submit_signed_rotation": func() Command { return &SubmitSignedRotation{} },
	"deposit":                func() Command { return &Deposit{} },
	"set_limits":             func() Command { return &SetLimits{} },
	"enable_limits":          func() Command { return &EnableLimits{} },
	"disable_limits":         func() Command { return &DisableLimits{} },
	"set_withdraw_fee":       func() Command { return &SetWithdrawFee{} },
	"approve_pending":        func() Command { return &ApprovePending{} },
	"cancel_pending":         func() Command { return &CancelPending{} },
	"set_bounty":             func() Command { return &SetBounty{} },
	"force_resolve":          func() Command { return &ForceResolve{} },
	"deploy_merge_route":     func() Command { return &DeployMergeRoute{} },
	"deploy_merge_pool":      func() Command { return &DeployMergePool{} },
	"enable_merge_pool":      func() Command { return &EnableMergePool{} },
	"disable_merge_pool":     func() Command { return &DisableMergePool{} },
	"set_route_pool":         func() Command { return &SetRoutePool{} },
}

// NewCommand returns an empty command of the given name, ready to be unmarshalled into.
func NewCommand(name string) (Command, error) {
	factory, exists := commandFactories[name]
	if !exists {
		return nil, ErrUnknownCommand
	}

	return factory(), nil
}

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


package bridgedb

import (
	"context"
)

// Service defines a minimal bridge database service.
type Service interface {
	// BeginTx begins a transaction.
	BeginTx(ctx context.Context) (context.Context, context.CancelFunc, error)

	// CommitTx commits a transaction.
	CommitTx(ctx context.Context) error

	// SetMetadata sets a metadata key to a JSON value.
	SetMetadata(ctx context.Context, key string, value []byte) error

	// Metadata obtains the JSON value from a metadata key.
	Metadata(ctx context.Context, key string) ([]byte, error)
}

// Upgrader defines functions to upgrade the database schema.
type Upgrader interface {
	// Upgrade upgrades the database.
	Upgrade(ctx context.Context) error
}

// RoundsProvider defines functions to provide round information.
type RoundsProvider interface {
	// Rounds returns rounds matching the supplied filter.
	Rounds(ctx context.Context, filter *RoundFilter) ([]*Round, error)
}

// RoundsSetter defines functions to create and update rounds.
type RoundsSetter interface {
	Service

	// SetRound sets a round.
	SetRound(ctx context.Context, round *Round) error
}

// EventsProvider defines functions to provide event information.
type EventsProvider interface {
	// Events returns events matching the supplied filter.
	Events(ctx context.Context, filter *EventFilter) ([]*Event, error)
}

// EventsSetter defines functions to create and update events.
type EventsSetter interface {
	Service

	// SetEvent sets an event.
	SetEvent(ctx context.Context, event *Event) error
}

// PeriodsProvider defines functions to provide withdrawal period information.
type PeriodsProvider interface {
	// Periods returns withdrawal periods matching the supplied filter.
	Periods(ctx context.Context, filter *PeriodFilter) ([]*Period, error)
}

// PeriodsSetter defines functions to create and update withdrawal periods.
type PeriodsSetter interface {
	Service

	// SetPeriod sets a withdrawal period.
	SetPeriod(ctx context.Context, period *Period) error
}

// PendingWithdrawalsProvider defines functions to provide pending withdrawal information.
type PendingWithdrawalsProvider interface {
	// PendingWithdrawals returns pending withdrawals matching the supplied filter.
	PendingWithdrawals(ctx context.Context, filter *PendingWithdrawalFilter) ([]*PendingWithdrawal, error)
}

// PendingWithdrawalsSetter defines functions to create and update pending withdrawals.
type PendingWithdrawalsSetter interface {
	Service

	// SetPendingWithdrawal sets a pending withdrawal.
	SetPendingWithdrawal(ctx context.Context, withdrawal *PendingWithdrawal) error
}

// CommandsProvider defines functions to provide journalled commands.
type CommandsProvider interface {
	// Commands returns journalled commands matching the supplied filter.
	Commands(ctx context.Context, filter *CommandFilter) ([]*Command, error)
}

// CommandsSetter defines functions to journal commands.
type CommandsSetter interface {
	Service

	// SetCommand sets a journalled command.
	SetCommand(ctx context.Context, command *Command) error
}

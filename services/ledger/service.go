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


package ledger

import (
	"context"

	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/core/types"
)

// Service is the ledger service.
type Service interface {
	Submitter
	StateProvider
}

// Submitter applies commands to the ledger.
type Submitter interface {
	// Submit applies a command to the ledger, returning its effects.
	// Errors from the command itself are returned unwrapped so that their kind can be inspected.
	Submit(ctx context.Context, cmd state.Command) ([]types.Effect, error)
}

// StateProvider provides the current state of the ledger.
type StateProvider interface {
	// State returns the current state.
	// The state must be treated as read-only.
	State(ctx context.Context) *state.State

	// Sequence returns the sequence of the last journalled command.
	Sequence(ctx context.Context) uint64
}

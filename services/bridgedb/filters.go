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

// Order is the order in which results should be fetched (N.B. fetched, not returned).
type Order uint8

const (
	// OrderEarliest fetches earliest items first.
	OrderEarliest Order = iota
	// OrderLatest fetches latest items first.
	OrderLatest
)

// RoundFilter defines a filter for fetching rounds.
// Filter elements are ANDed together.
// Results are always returned in ascending round number order.
type RoundFilter struct {
	// Limit is the maximum number of rounds to return.
	// If 0 then there is no limit.
	Limit uint32

	// Order is either OrderEarliest, in which case the earliest results
	// that match the filter are returned, or OrderLatest, in which case the
	// latest results that match the filter are returned.
	// The default is OrderEarliest.
	Order Order

	// From is the earliest round number to fetch.
	// If nil then there is no earliest round.
	From *uint64

	// To is the latest round number to fetch.
	// If nil then there is no latest round.
	To *uint64
}

// EventFilter defines a filter for fetching events.
// Filter elements are ANDed together.
// Results are always returned in ascending source timestamp order, then by ID.
type EventFilter struct {
	// Limit is the maximum number of events to return.
	// If 0 then there is no limit.
	Limit uint32

	// Order is either OrderEarliest, in which case the earliest results
	// that match the filter are returned, or OrderLatest, in which case the
	// latest results that match the filter are returned.
	// The default is OrderEarliest.
	Order Order

	// IDs are the IDs of the events.
	// If nil then there is no ID filter.
	IDs [][]byte

	// Rounds are the rounds in which the events were created.
	// If nil then there is no round filter.
	Rounds []uint64

	// Kinds are the payload kinds of the events.
	// If nil then there is no kind filter.
	Kinds []string

	// Statuses are the statuses of the events.
	// If nil then there is no status filter.
	Statuses []string
}

// PeriodFilter defines a filter for fetching withdrawal periods.
// Filter elements are ANDed together.
// Results are always returned in ascending period order, then by token.
type PeriodFilter struct {
	// Limit is the maximum number of periods to return.
	// If 0 then there is no limit.
	Limit uint32

	// Order is either OrderEarliest, in which case the earliest results
	// that match the filter are returned, or OrderLatest, in which case the
	// latest results that match the filter are returned.
	// The default is OrderEarliest.
	Order Order

	// Tokens are the tokens of the periods.
	// If nil then there is no token filter.
	Tokens [][]byte

	// From is the earliest period ID to fetch.
	// If nil then there is no earliest period.
	From *uint64

	// To is the latest period ID to fetch.
	// If nil then there is no latest period.
	To *uint64
}

// PendingWithdrawalFilter defines a filter for fetching pending withdrawals.
// Filter elements are ANDed together.
// Results are always returned in ascending timestamp order, then by recipient and ID.
type PendingWithdrawalFilter struct {
	// Limit is the maximum number of pending withdrawals to return.
	// If 0 then there is no limit.
	Limit uint32

	// Order is either OrderEarliest, in which case the earliest results
	// that match the filter are returned, or OrderLatest, in which case the
	// latest results that match the filter are returned.
	// The default is OrderEarliest.
	Order Order

	// Recipients are the recipients of the pending withdrawals.
	// If nil then there is no recipient filter.
	Recipients [][]byte

	// Tokens are the tokens of the pending withdrawals.
	// If nil then there is no token filter.
	Tokens [][]byte

	// Statuses are the approval statuses of the pending withdrawals.
	// If nil then there is no status filter.
	Statuses []string
}

// CommandFilter defines a filter for fetching journalled commands.
// Filter elements are ANDed together.
// Results are always returned in ascending sequence order.
type CommandFilter struct {
	// Limit is the maximum number of commands to return.
	// If 0 then there is no limit.
	Limit uint32

	// Order is either OrderEarliest, in which case the earliest results
	// that match the filter are returned, or OrderLatest, in which case the
	// latest results that match the filter are returned.
	// The default is OrderEarliest.
	Order Order

	// From is the earliest sequence to fetch.
	// If nil then there is no earliest sequence.
	From *uint64

	// To is the latest sequence to fetch.
	// If nil then there is no latest sequence.
	To *uint64

	// Names are the names of the commands.
	// If nil then there is no name filter.
	Names []string
}

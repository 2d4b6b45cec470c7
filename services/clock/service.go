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


package clock

import "time"

// Service provides the time used by the ledger.
type Service interface {
	// Now returns the current time.
	Now() time.Time

	// Timestamp returns the current time in seconds since the Unix epoch.
	Timestamp() uint64

	// CurrentPeriod returns the withdrawal period containing the current time.
	CurrentPeriod() uint64

	// PeriodStart returns the start of the given withdrawal period.
	PeriodStart(period uint64) time.Time
}

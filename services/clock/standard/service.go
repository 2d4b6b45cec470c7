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


package standard

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/wealdtech/bridged/core/types"
)

// Service provides ledger time.
type Service struct {
	timeFunc func() time.Time
	offset   time.Duration
}

// module-wide log.
var log zerolog.Logger

// New creates a new clock service.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "clock").Str("impl", "standard").Logger().Level(parameters.logLevel)

	s := &Service{
		timeFunc: parameters.timeFunc,
		offset:   parameters.offset,
	}
	log.Trace().Time("now", s.Now()).Dur("offset", s.offset).Msg("Clock started")

	return s, nil
}

// Now returns the current time.
func (s *Service) Now() time.Time {
	return s.timeFunc().Add(s.offset)
}

// Timestamp returns the current time in seconds since the Unix epoch.
// Times before the epoch are reported as 0.
func (s *Service) Timestamp() uint64 {
	now := s.Now().Unix()
	if now < 0 {
		return 0
	}

	return uint64(now)
}

// CurrentPeriod returns the withdrawal period containing the current time.
func (s *Service) CurrentPeriod() uint64 {
	return types.PeriodID(s.Timestamp())
}

// PeriodStart returns the start of the given withdrawal period.
func (*Service) PeriodStart(period uint64) time.Time {
	return time.Unix(int64(period*types.SecondsPerPeriod), 0)
}

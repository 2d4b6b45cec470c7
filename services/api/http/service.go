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
	"context"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/ledger"
	roundsstandard "github.com/wealdtech/bridged/services/rounds/standard"
)

// RoundsMonitor provides the status of relay rounds.
type RoundsMonitor interface {
	Status(ctx context.Context) *roundsstandard.Status
}

// Service is an HTTP API service.
type Service struct {
	submitter                  ledger.Submitter
	stateProvider              ledger.StateProvider
	roundsMonitor              RoundsMonitor
	roundsProvider             bridgedb.RoundsProvider
	eventsProvider             bridgedb.EventsProvider
	pendingWithdrawalsProvider bridgedb.PendingWithdrawalsProvider
	commandsProvider           bridgedb.CommandsProvider
	server                     *fasthttp.Server
}

// module-wide log.
var log zerolog.Logger

// New creates a new HTTP API service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "api").Str("impl", "http").Logger().Level(parameters.logLevel)

	if err := registerMetrics(ctx, parameters.monitor); err != nil {
		return nil, errors.New("failed to register metrics")
	}

	s := &Service{
		submitter:                  parameters.submitter,
		stateProvider:              parameters.stateProvider,
		roundsMonitor:              parameters.roundsMonitor,
		roundsProvider:             parameters.roundsProvider,
		eventsProvider:             parameters.eventsProvider,
		pendingWithdrawalsProvider: parameters.pendingWithdrawalsProvider,
		commandsProvider:           parameters.commandsProvider,
	}
	s.server = &fasthttp.Server{
		Name:         "bridged",
		Handler:      s.router().Handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", parameters.listenAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to listen")
	}

	go func() {
		log.Trace().Str("address", parameters.listenAddress).Msg("Starting API server")
		if err := s.server.Serve(listener); err != nil {
			log.Error().Err(err).Msg("API server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.server.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down API server")
		}
	}()

	return s, nil
}

func (s *Service) router() *router.Router {
	r := router.New()

	r.POST("/commands/{name}", s.submitCommand)

	r.GET("/state", s.getState)
	r.GET("/rounds", s.getRounds)
	r.GET("/rounds/current", s.getCurrentRound)
	r.GET("/rounds/status", s.getRoundsStatus)
	r.GET("/events", s.getEvents)
	r.GET("/events/{id}", s.getEvent)
	r.GET("/tokens/{token}", s.getToken)
	r.GET("/pending", s.getPendingWithdrawals)
	r.GET("/pending/{recipient}", s.getPendingFor)
	r.GET("/journal", s.getJournal)

	return r
}

// handlerContext returns the context for downstream calls made by a handler.
// A RequestCtx is only a valid context while attached to a running server.
func handlerContext(_ *fasthttp.RequestCtx) context.Context {
	return context.Background()
}

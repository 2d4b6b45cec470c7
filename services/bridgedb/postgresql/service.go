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


package postgresql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service is a bridge database service backed by PostgreSQL.
type Service struct {
	pool *pgxpool.Pool
}

// module-wide log.
var log zerolog.Logger

// New creates a new service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "bridgedb").Str("impl", "postgresql").Logger().Level(parameters.logLevel)

	config, err := pgxpool.ParseConfig(fmt.Sprintf("host=%s port=%d user=%s password=%s",
		parameters.server,
		parameters.port,
		parameters.user,
		parameters.password,
	))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database configuration")
	}
	config.MaxConns = int32(parameters.maxConnections)
	config.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(log),
		LogLevel: traceLogLevel(parameters.logLevel),
	}
	config.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())

		return nil
	}

	if parameters.clientCert != nil {
		tlsConfig, err := tlsConfig(parameters)
		if err != nil {
			return nil, err
		}
		config.ConnConfig.TLSConfig = tlsConfig
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	s := &Service{
		pool: pool,
	}

	// Close the pool when the context is done.
	go func(ctx context.Context, pool *pgxpool.Pool) {
		<-ctx.Done()
		log.Trace().Msg("Context done; closing pool")
		pool.Close()
	}(ctx, pool)

	return s, nil
}

func tlsConfig(parameters *parameters) (*tls.Config, error) {
	clientPair, err := tls.X509KeyPair(parameters.clientCert, parameters.clientKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load client keypair")
	}

	config := &tls.Config{
		Certificates: []tls.Certificate{clientPair},
		MinVersion:   tls.VersionTLS13,
		ServerName:   parameters.server,
	}

	if parameters.caCert != nil {
		rootCAs := x509.NewCertPool()
		if !rootCAs.AppendCertsFromPEM(parameters.caCert) {
			return nil, errors.New("failed to append CA certificate")
		}
		config.RootCAs = rootCAs
	}

	return config, nil
}

func traceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}

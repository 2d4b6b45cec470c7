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


package postgresql_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealdtech/bridged/services/bridgedb"
	"github.com/wealdtech/bridged/services/bridgedb/postgresql"
)

func atoi(input string) int32 {
	if input == "" {
		return 5432
	}
	val, err := strconv.ParseInt(input, 10, 32)
	if err != nil {
		val = -1
	}
	return int32(val)
}

// newService creates a service against the database configured in the environment,
// skipping the test if no database is configured.
func newService(ctx context.Context, t *testing.T) *postgresql.Service {
	t.Helper()

	if os.Getenv("BRIDGEDB_SERVER") == "" {
		t.Skip("BRIDGEDB_SERVER not set")
	}

	s, err := postgresql.New(ctx,
		postgresql.WithLogLevel(zerolog.Disabled),
		postgresql.WithServer(os.Getenv("BRIDGEDB_SERVER")),
		postgresql.WithPort(atoi(os.Getenv("BRIDGEDB_PORT"))),
		postgresql.WithUser(os.Getenv("BRIDGEDB_USER")),
		postgresql.WithPassword(os.Getenv("BRIDGEDB_PASSWORD")),
	)
	require.NoError(t, err)
	require.NoError(t, s.Upgrade(ctx))

	return s
}

func TestService(t *testing.T) {
	tests := []struct {
		name   string
		params []postgresql.Parameter
		err    string
	}{
		{
			name: "ServerMissing",
			params: []postgresql.Parameter{
				postgresql.WithLogLevel(zerolog.Disabled),
				postgresql.WithUser("bridged"),
			},
			err: "problem with parameters: no server specified",
		},
		{
			name: "UserMissing",
			params: []postgresql.Parameter{
				postgresql.WithLogLevel(zerolog.Disabled),
				postgresql.WithServer("localhost"),
			},
			err: "problem with parameters: no user specified",
		},
		{
			name: "PortInvalid",
			params: []postgresql.Parameter{
				postgresql.WithLogLevel(zerolog.Disabled),
				postgresql.WithServer("localhost"),
				postgresql.WithUser("bridged"),
				postgresql.WithPort(-1),
			},
			err: "problem with parameters: port must be supplied",
		},
		{
			name: "ClientKeyMissing",
			params: []postgresql.Parameter{
				postgresql.WithLogLevel(zerolog.Disabled),
				postgresql.WithServer("localhost"),
				postgresql.WithUser("bridged"),
				postgresql.WithClientCert([]byte("cert")),
			},
			err: "problem with parameters: client certificate and key must be supplied together",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()
			_, err := postgresql.New(ctx, test.params...)
			assert.EqualError(t, err, test.err)
		})
	}
}

func TestInterfaces(t *testing.T) {
	ctx := context.Background()
	s := newService(ctx, t)

	require.Implements(t, (*bridgedb.Service)(nil), s)
	require.Implements(t, (*bridgedb.Upgrader)(nil), s)
	require.Implements(t, (*bridgedb.RoundsProvider)(nil), s)
	require.Implements(t, (*bridgedb.RoundsSetter)(nil), s)
	require.Implements(t, (*bridgedb.EventsProvider)(nil), s)
	require.Implements(t, (*bridgedb.EventsSetter)(nil), s)
	require.Implements(t, (*bridgedb.PeriodsProvider)(nil), s)
	require.Implements(t, (*bridgedb.PeriodsSetter)(nil), s)
	require.Implements(t, (*bridgedb.PendingWithdrawalsProvider)(nil), s)
	require.Implements(t, (*bridgedb.PendingWithdrawalsSetter)(nil), s)
	require.Implements(t, (*bridgedb.CommandsProvider)(nil), s)
	require.Implements(t, (*bridgedb.CommandsSetter)(nil), s)
}

func TestMetadata(t *testing.T) {
	ctx := context.Background()
	s := newService(ctx, t)

	ctx, cancel, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer cancel()

	require.ErrorIs(t, s.SetMetadata(context.Background(), "test", []byte(`{}`)), postgresql.ErrNoTransaction)

	require.NoError(t, s.SetMetadata(ctx, "test.metadata", []byte(`{"value":1}`)))
	value, err := s.Metadata(ctx, "test.metadata")
	require.NoError(t, err)
	require.JSONEq(t, `{"value":1}`, string(value))

	value, err = s.Metadata(ctx, "test.missing")
	require.NoError(t, err)
	require.Nil(t, value)
}

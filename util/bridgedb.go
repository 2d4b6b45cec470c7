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


package util

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/wealdtech/bridged/services/bridgedb"
	leveldbbridgedb "github.com/wealdtech/bridged/services/bridgedb/leveldb"
	postgresqlbridgedb "github.com/wealdtech/bridged/services/bridgedb/postgresql"
	majordomo "github.com/wealdtech/go-majordomo"
)

// BridgeDB is the set of functions the daemon requires of the bridge database.
type BridgeDB interface {
	bridgedb.Service
	bridgedb.Upgrader
	bridgedb.RoundsProvider
	bridgedb.EventsProvider
	bridgedb.PendingWithdrawalsProvider
	bridgedb.CommandsProvider
}

// InitBridgeDB initialises the bridge database.
// A PostgreSQL server is used if configured, otherwise an embedded LevelDB database.
func InitBridgeDB(ctx context.Context, majordomo majordomo.Service) (BridgeDB, error) {
	if viper.GetString("bridgedb.server") == "" {
		return initLevelDBBridgeDB(ctx)
	}

	return initPostgreSQLBridgeDB(ctx, majordomo)
}

func initLevelDBBridgeDB(ctx context.Context) (BridgeDB, error) {
	path := viper.GetString("bridgedb.path")
	if path == "" {
		return nil, errors.New("neither bridgedb.server nor bridgedb.path supplied")
	}

	db, err := leveldbbridgedb.New(ctx,
		leveldbbridgedb.WithLogLevel(LogLevel("bridgedb")),
		leveldbbridgedb.WithPath(ResolvePath(path)),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initPostgreSQLBridgeDB(ctx context.Context, majordomo majordomo.Service) (BridgeDB, error) {
	opts := []postgresqlbridgedb.Parameter{
		postgresqlbridgedb.WithLogLevel(LogLevel("bridgedb")),
		postgresqlbridgedb.WithServer(viper.GetString("bridgedb.server")),
		postgresqlbridgedb.WithUser(viper.GetString("bridgedb.user")),
		postgresqlbridgedb.WithPassword(viper.GetString("bridgedb.password")),
		postgresqlbridgedb.WithPort(viper.GetInt32("bridgedb.port")),
		postgresqlbridgedb.WithMaxConnections(viper.GetUint("bridgedb.max-connections")),
	}

	if viper.GetString("bridgedb.client-cert") != "" {
		clientCert, err := majordomo.Fetch(ctx, viper.GetString("bridgedb.client-cert"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read client certificate")
		}
		opts = append(opts, postgresqlbridgedb.WithClientCert(clientCert))
	}

	if viper.GetString("bridgedb.client-key") != "" {
		clientKey, err := majordomo.Fetch(ctx, viper.GetString("bridgedb.client-key"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read client key")
		}
		opts = append(opts, postgresqlbridgedb.WithClientKey(clientKey))
	}

	if viper.GetString("bridgedb.ca-cert") != "" {
		caCert, err := majordomo.Fetch(ctx, viper.GetString("bridgedb.ca-cert"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read certificate authority certificate")
		}
		opts = append(opts, postgresqlbridgedb.WithCACert(caCert))
	}

	db, err := postgresqlbridgedb.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return db, nil
}

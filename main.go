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

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	// #nosec G108
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	httpapi "github.com/wealdtech/bridged/services/api/http"
	"github.com/wealdtech/bridged/services/clock"
	standardclock "github.com/wealdtech/bridged/services/clock/standard"
	"github.com/wealdtech/bridged/services/ledger"
	standardledger "github.com/wealdtech/bridged/services/ledger/standard"
	"github.com/wealdtech/bridged/services/metrics"
	nullmetrics "github.com/wealdtech/bridged/services/metrics/null"
	prometheusmetrics "github.com/wealdtech/bridged/services/metrics/prometheus"
	standardrounds "github.com/wealdtech/bridged/services/rounds/standard"
	standardscheduler "github.com/wealdtech/bridged/services/scheduler/standard"
	"github.com/wealdtech/bridged/util"
	majordomo "github.com/wealdtech/go-majordomo"
)

// ReleaseVersion is the release version for the code.
var ReleaseVersion = "0.1.0-dev"

func main() {
	os.Exit(main2())
}

func main2() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := fetchConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch configuration: %v\n", err)
		return 1
	}

	majordomoSvc, err := util.InitMajordomo(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise majordomo: %v\n", err)
		return 1
	}

	if err := initLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logging: %v\n", err)
		return 1
	}

	// runCommands will not return if a command is run.
	runCommands(ctx)

	logModules()
	log.Info().Str("version", ReleaseVersion).Msg("Starting bridged")

	if err := initTracing(ctx, majordomoSvc); err != nil {
		log.Error().Err(err).Msg("Failed to initialise tracing")
		return 1
	}

	runtime.GOMAXPROCS(runtime.NumCPU() * 8)

	if err := initProfiling(); err != nil {
		log.Error().Err(err).Msg("Failed to initialise profiling")
		return 1
	}

	log.Trace().Msg("Starting metrics service")
	monitor, err := startMonitor(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start metrics service")
		return 1
	}
	if err := registerMetrics(ctx, monitor); err != nil {
		log.Error().Err(err).Msg("Failed to register metrics")
		return 1
	}
	setRelease(ctx, ReleaseVersion)
	setReady(ctx, false)

	if err := startServices(ctx, monitor, majordomoSvc); err != nil {
		log.Error().Err(err).Msg("Failed to initialise services")
		return 1
	}
	setReady(ctx, true)

	log.Info().Msg("All services operational")

	// Wait for signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh
		if sig == syscall.SIGINT || sig == syscall.SIGTERM || sig == os.Interrupt || sig == os.Kill {
			break
		}
	}

	log.Info().Msg("Stopping bridged")

	return 0
}

// fetchConfig fetches configuration from various sources.
func fetchConfig() error {
	pflag.String("base-dir", "", "base directory for configuration files")
	pflag.String("env-file", "", "file of environment variables to load before reading the environment")
	pflag.Bool("version", false, "show version and exit")
	pflag.String("log-level", "info", "minimum level of messsages to log")
	pflag.String("log-file", "", "redirect log output to a file")
	pflag.String("profile-address", "", "Address on which to run Go profile server")
	pflag.String("tracing.address", "", "Address to which to send tracing data")
	pflag.String("api.listen-address", "", "Address on which to serve the API")
	pflag.String("bridgedb.path", "", "path to an embedded bridge database, used if no server is supplied")
	pflag.Uint("bridgedb.max-connections", 16, "maximum number of concurrent database connections")
	pflag.Uint64("ledger.snapshot-interval", 100, "number of commands between state snapshots")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return errors.Wrap(err, "failed to bind pflags to viper")
	}

	if viper.GetString("env-file") != "" {
		if err := godotenv.Load(util.ResolvePath(viper.GetString("env-file"))); err != nil {
			return errors.Wrap(err, "failed to load environment file")
		}
	}

	if viper.GetString("base-dir") != "" {
		// User-defined base directory.
		viper.AddConfigPath(util.ResolvePath(""))
		viper.SetConfigName("bridged")
	} else {
		// Home directory.
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "failed to obtain home directory")
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".bridged")
	}

	// Environment settings.
	viper.SetEnvPrefix("BRIDGED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Defaults.
	viper.SetDefault("rounds.interval", time.Minute)
	viper.SetDefault("rounds.relay-round-time", 7*24*time.Hour)
	viper.SetDefault("rounds.time-before-set-relays", 24*time.Hour)
	viper.SetDefault("rounds.min-round-gap-time", time.Hour)
	viper.SetDefault("rounds.min-relays-count", 3)
	viper.SetDefault("limits.default-withdraw-fee-bps", 0)

	if err := viper.ReadInConfig(); err != nil {
		switch {
		case errors.As(err, &viper.ConfigFileNotFoundError{}):
			// It is allowable for bridged to not have a configuration file, but only if
			// we have the information from elsewhere (e.g. environment variables).  Check
			// to see if we have a governance owner configured, as if not we aren't going to
			// get very far anyway.
			if viper.Get("version") == nil && viper.GetString("governance.owner") == "" {
				// Assume the underlying issue is that the configuration file is missing.
				return errors.Wrap(err, "could not find the configuration file")
			}
		case errors.As(err, &viper.ConfigParseError{}):
			return errors.Wrap(err, "could not parse the configuration file")
		default:
			return errors.Wrap(err, "failed to obtain configuration")
		}
	}

	return nil
}

func initProfiling() error {
	profileAddress := viper.GetString("profile-address")
	if profileAddress == "" {
		return nil
	}

	go func() {
		log.Info().Str("profile_address", profileAddress).Msg("Starting profile server")
		server := &http.Server{
			Addr:              profileAddress,
			ReadHeaderTimeout: 5 * time.Second,
		}
		if err := server.ListenAndServe(); err != nil {
			log.Warn().Str("profile_address", profileAddress).Err(err).Msg("Failed to run profile server")
		}
	}()

	return nil
}

func startMonitor(ctx context.Context) (metrics.Service, error) {
	var monitor metrics.Service
	if viper.Get("metrics.prometheus.listen-address") != nil {
		var err error
		monitor, err = prometheusmetrics.New(ctx,
			prometheusmetrics.WithLogLevel(util.LogLevel("metrics.prometheus")),
			prometheusmetrics.WithAddress(viper.GetString("metrics.prometheus.listen-address")),
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to start prometheus metrics service")
		}
		log.Info().
			Str("listen_address", viper.GetString("metrics.prometheus.listen-address")).
			Msg("Started prometheus metrics service")
	} else {
		log.Debug().Msg("No metrics service supplied; monitor not starting")
		monitor = &nullmetrics.Service{}
	}

	return monitor, nil
}

func startServices(ctx context.Context, monitor metrics.Service, majordomoSvc majordomo.Service) error {
	log.Trace().Msg("Starting bridge database")
	bridgeDB, err := util.InitBridgeDB(ctx, majordomoSvc)
	if err != nil {
		return errors.Wrap(err, "failed to start bridge database")
	}
	log.Trace().Msg("Checking for bridge schema upgrades")
	if err := bridgeDB.Upgrade(ctx); err != nil {
		return errors.Wrap(err, "failed to upgrade bridge database")
	}

	schedulerSvc, err := standardscheduler.New(ctx,
		standardscheduler.WithLogLevel(util.LogLevel("scheduler")),
		standardscheduler.WithMonitor(monitor),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start scheduler service")
	}

	clockSvc, err := standardclock.New(ctx,
		standardclock.WithLogLevel(util.LogLevel("clock")),
		standardclock.WithOffset(viper.GetDuration("clock.offset")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start clock service")
	}

	log.Trace().Msg("Starting ledger service")
	ledgerSvc, err := startLedger(ctx, monitor, clockSvc, bridgeDB)
	if err != nil {
		return errors.Wrap(err, "failed to start ledger service")
	}

	log.Trace().Msg("Starting rounds service")
	roundsSvc, err := standardrounds.New(ctx,
		standardrounds.WithLogLevel(util.LogLevel("rounds")),
		standardrounds.WithMonitor(monitor),
		standardrounds.WithScheduler(schedulerSvc),
		standardrounds.WithClock(clockSvc),
		standardrounds.WithStateProvider(ledgerSvc),
		standardrounds.WithRoundsProvider(bridgeDB),
		standardrounds.WithInterval(viper.GetDuration("rounds.interval")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start rounds service")
	}

	if viper.GetString("api.listen-address") != "" {
		log.Trace().Msg("Starting API service")
		if err := startAPI(ctx, monitor, ledgerSvc, roundsSvc, bridgeDB); err != nil {
			return errors.Wrap(err, "failed to start API service")
		}
	} else {
		log.Debug().Msg("No API listen address supplied; API not starting")
	}

	return nil
}

func startLedger(ctx context.Context,
	monitor metrics.Service,
	clockSvc clock.Service,
	bridgeDB util.BridgeDB,
) (
	*standardledger.Service,
	error,
) {
	config, err := stateConfig()
	if err != nil {
		return nil, errors.Wrap(err, "invalid state configuration")
	}
	relays, err := genesisRelays()
	if err != nil {
		return nil, errors.Wrap(err, "invalid genesis configuration")
	}

	return standardledger.New(ctx,
		standardledger.WithLogLevel(util.LogLevel("ledger")),
		standardledger.WithMonitor(monitor),
		standardledger.WithClock(clockSvc),
		standardledger.WithBridgeDB(bridgeDB),
		standardledger.WithConfig(config),
		standardledger.WithGenesisRelays(relays),
		standardledger.WithGenesisStart(viper.GetUint64("genesis.start")),
		standardledger.WithSnapshotInterval(viper.GetUint64("ledger.snapshot-interval")),
	)
}

func startAPI(ctx context.Context,
	monitor metrics.Service,
	ledgerSvc ledger.Service,
	roundsSvc httpapi.RoundsMonitor,
	bridgeDB util.BridgeDB,
) error {
	_, err := httpapi.New(ctx,
		httpapi.WithLogLevel(util.LogLevel("api")),
		httpapi.WithMonitor(monitor),
		httpapi.WithListenAddress(viper.GetString("api.listen-address")),
		httpapi.WithSubmitter(ledgerSvc),
		httpapi.WithStateProvider(ledgerSvc),
		httpapi.WithRoundsMonitor(roundsSvc),
		httpapi.WithRoundsProvider(bridgeDB),
		httpapi.WithEventsProvider(bridgeDB),
		httpapi.WithPendingWithdrawalsProvider(bridgeDB),
		httpapi.WithCommandsProvider(bridgeDB),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create API service")
	}
	log.Info().Str("listen_address", viper.GetString("api.listen-address")).Msg("Started API service")

	return nil
}

func logModules() {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Trace().Str("path", buildInfo.Path).Msg("Main package")
		for _, dep := range buildInfo.Deps {
			log := log.Trace()
			if dep.Replace == nil {
				log = log.Str("path", dep.Path).Str("version", dep.Version)
			} else {
				log = log.Str("path", dep.Replace.Path).Str("version", dep.Replace.Version)
			}
			log.Msg("Dependency")
		}
	}
}

func runCommands(_ context.Context) {
	if viper.GetBool("version") {
		fmt.Fprintf(os.Stdout, "%s\n", ReleaseVersion)
		//nolint:revive
		os.Exit(0)
	}
}

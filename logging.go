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
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/wealdtech/bridged/util"
)

// log is the main package logger.
var log zerolog.Logger

// initLogging initialises logging.
func initLogging() error {
	// Change the output file.
	if viper.GetString("log-file") != "" {
		f, err := os.OpenFile(util.ResolvePath(viper.GetString("log-file")), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		zerologger.Logger = zerologger.Output(f)
	}

	// Set the local logger from the global logger.
	log = zerologger.Logger.With().Logger().Level(zerolog.GlobalLevel())

	// Set global logging level.
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	switch {
	case strings.ToLower(viper.GetString("log-level")) == "none":
		level = zerolog.Disabled
	case err != nil:
		return errors.Wrap(err, "invalid log level")
	}
	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	return nil
}

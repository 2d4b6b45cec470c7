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
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// LogLevel returns the best log level for the given path.
// It walks up the path looking for a "log-level" setting, falling back to the global level.
func LogLevel(path string) zerolog.Level {
	for {
		key := "log-level"
		if path != "" {
			key = path + ".log-level"
		}
		if viper.GetString(key) != "" {
			return stringToLevel(viper.GetString(key))
		}
		if path == "" {
			return zerolog.GlobalLevel()
		}
		if idx := strings.LastIndex(path, "."); idx != -1 {
			path = path[:idx]
		} else {
			path = ""
		}
	}
}

func stringToLevel(input string) zerolog.Level {
	input = strings.ToLower(input)
	if input == "none" {
		return zerolog.Disabled
	}
	level, err := zerolog.ParseLevel(input)
	if err != nil {
		return zerolog.InfoLevel
	}

	return level
}

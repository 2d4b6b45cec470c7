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
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// ResolvePath resolves a path relative to the base directory.
// Absolute paths and paths starting with ~ are returned expanded but otherwise untouched.
func ResolvePath(path string) string {
	expanded, err := homedir.Expand(path)
	if err == nil {
		path = expanded
	}
	if filepath.IsAbs(path) {
		return path
	}

	baseDir := viper.GetString("base-dir")
	if baseDir == "" {
		homeDir, err := homedir.Dir()
		if err != nil {
			return path
		}
		baseDir = homeDir
	} else if expanded, err := homedir.Expand(baseDir); err == nil {
		baseDir = expanded
	}

	return filepath.Join(baseDir, path)
}

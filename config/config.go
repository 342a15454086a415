// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the optional secretsplit YAML defaults file.
package config

import (
	"os"
	"path/filepath"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
	glog "github.com/golang/glog"
	"sigs.k8s.io/yaml"
)

// DefaultName is the file name looked up in the user config directory.
const DefaultName = "secretsplit.yaml"

// Config holds defaults for command-line flags. Flags given on the command
// line take precedence.
type Config struct {
	// ShareTemplate names share files, see package naming.
	ShareTemplate string `json:"shareTemplate,omitempty"`
	Sign          bool   `json:"sign,omitempty"`
	Verify        bool   `json:"verify,omitempty"`
	Overwrite     bool   `json:"overwrite,omitempty"`
	// Backtrace adds the innermost stack trace to error reports.
	Backtrace bool `json:"backtrace,omitempty"`
}

// DefaultPath returns the location of the config file in the user config
// directory, or the empty string if there is none.
func DefaultPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		glog.Warningf("Failed to get config directory location: %v", err.Error())
		return ""
	}
	return filepath.Join(cfgDir, DefaultName)
}

// Load reads the config file at path. A missing file yields the zero Config
// unless explicit is set, in which case it is an error.
func Load(path string, explicit bool) (*Config, error) {
	if path == "" {
		if explicit {
			return nil, failure.New(failure.InvalidParameters, "config file path is empty")
		}
		return &Config{}, nil
	}

	yamlBytes, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, failure.Wrap(failure.InvalidParameters, err, "could not read config file %q", path)
	}

	cfg := &Config{}
	if err := yaml.UnmarshalStrict(yamlBytes, cfg); err != nil {
		return nil, failure.Wrap(failure.InvalidParameters, err, "could not parse config file %q", path)
	}
	return cfg, nil
}

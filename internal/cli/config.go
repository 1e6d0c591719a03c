// Copyright 2025 Florian Zenker (flo@znkr.io)
//
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

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"
	"znkr.io/di/colordiff/color"
)

// fileConfig is the content of the configuration file:
//
//	# Default options, applied before the environment and the command line.
//	options = ["--no-pager", "-U5"]
//
//	# SGR parameters for every color category.
//	[colors]
//	old = "1;31"
//	new-word = "4;32"
type fileConfig struct {
	Options []string          `toml:"options"`
	Colors  map[string]string `toml:"colors"`
}

// configPath returns the path of the configuration file for the program name.
func configPath(name string, getenv func(string) string) string {
	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home := getenv("HOME")
		if home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, name, "config.toml")
}

// loadConfig reads the configuration file. A missing file is an empty configuration.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return fileConfig{}, nil
	}
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// colorOptions converts the colors table into color options.
func (c fileConfig) colorOptions() ([]color.Option, error) {
	var opts []color.Option
	for _, name := range slices.Sorted(maps.Keys(c.Colors)) {
		params, err := color.ParseParams(c.Colors[name])
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %v", name, err)
		}
		opt, err := color.Named(name, params...)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %v", name, err)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// splitOptions splits the value of the options environment variable like a shell.
func splitOptions(s string) ([]string, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("invalid options %q: %v", s, err)
	}
	return args, nil
}

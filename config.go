// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"rsc.io/mockmv/migrate"
)

const defaultConfig = "mockmv.toml"

// A config holds the settings of a run.
type config struct {
	Disable []string `toml:"disable"`
	Jobs    int      `toml:"jobs"`
	Testify string   `toml:"testify"`
	GoMod   bool     `toml:"gomod"`
}

// loadConfig reads the settings file name, or mockmv.toml if name is
// empty. A missing mockmv.toml is not an error.
func loadConfig(name string) (*config, error) {
	cfg := new(config)
	explicit := name != ""
	if !explicit {
		name = defaultConfig
	}
	meta, err := toml.DecodeFile(name, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%s: unknown setting %s", name, keys[0])
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func (cfg *config) check() error {
	if cfg.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative")
	}
	_, err := (&migrate.Config{Disabled: cfg.Disable}).Passes()
	return err
}

// override applies the flags set on the command line.
func (cfg *config) override(cmd *cobra.Command) error {
	if cmd.Flags().Changed("jobs") {
		if flagJobs < 0 {
			return errUsage("--jobs must not be negative")
		}
		cfg.Jobs = flagJobs
	}
	if cmd.Flags().Changed("gomod") {
		cfg.GoMod = flagGoMod
	}
	return nil
}

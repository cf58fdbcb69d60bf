// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mockmv migrates Go tests from gomock to testify's mock package.
//
// Usage:
//
//	mockmv [--diff] [--config file] [-v] [--jobs n] [--gomod] [pkg ...]
//
// Mockmv loads the named packages (default ./...) with their tests and
// rewrites, in place, the gomock constructs it can convert: controllers,
// mock constructors, expectations and their modifiers, argument matchers,
// InOrder groups and Finish calls. Constructs it cannot convert faithfully
// are left as they were and reported as warnings.
//
// The mock types themselves must be regenerated separately, for example
// with mockery, using the same type and constructor names.
//
// The --diff flag prints a diff of the changes instead of writing them.
// The --gomod flag adds a testify requirement to go.mod files of modules
// whose files now import testify.
//
// Settings may also be given in a TOML file, mockmv.toml in the current
// directory by default:
//
//	disable = ["sequence"]  # passes not to run
//	jobs = 4                # files migrated at once
//	testify = "v1.9.0"      # version required by --gomod
//	gomod = true
//
// Flags override the file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"rsc.io/mockmv/load"
	"rsc.io/mockmv/migrate"
)

var (
	flagDiff    bool
	flagConfig  string
	flagVerbose bool
	flagJobs    int
	flagGoMod   bool
)

// errUsage reports a command line error.
type errUsage string

func (e errUsage) Error() string { return string(e) }

var rootCmd = &cobra.Command{
	Use:           "mockmv [pkg ...]",
	Short:         "Migrate Go tests from gomock to testify",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagDiff, "diff", false, "show diff instead of writing files")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "read settings from `file` (default mockmv.toml if present)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "report skipped packages and progress")
	rootCmd.Flags().IntVar(&flagJobs, "jobs", 0, "migrate at most `n` files at once (default GOMAXPROCS)")
	rootCmd.Flags().BoolVar(&flagGoMod, "gomod", false, "require testify in go.mod files of changed modules")
}

func main() {
	log.SetPrefix("mockmv: ")
	log.SetFlags(0)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var u errUsage
		if errors.As(err, &u) {
			fmt.Fprintf(os.Stderr, "%s\n%s", err, rootCmd.UsageString())
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	if err := cfg.override(cmd); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"./..."}
	}

	comps, err := load.Packages(".", args...)
	if err != nil {
		return err
	}
	rep := migrate.NewReporter(os.Stderr, flagVerbose)
	changes, err := migrate.Run(cmd.Context(), comps, &migrate.Config{Disabled: cfg.Disable, Jobs: cfg.Jobs}, rep)
	if err != nil {
		return err
	}
	if cfg.GoMod {
		more, err := migrate.RequireTestify(changes, cfg.Testify, os.ReadFile)
		if err != nil {
			return err
		}
		changes = append(changes, more...)
	}
	if n := rep.Count(); n > 0 {
		rep.Verbosef("%d constructs left unconverted", n)
	}

	if flagDiff {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		return migrate.Diff(os.Stdout, changes, dir)
	}
	return migrate.Write(changes, os.Stderr)
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package migrate runs the gomock to testify migration over a set of
// compilations.
//
// Each compilation gets its own symbol catalog and strategy table.
// Its files are migrated concurrently, each by running the passes in
// order over the file's tree and formatting the result. A fatal error
// in any file of a compilation discards the changes to all of its
// files; warnings about unconverted constructs are reported and leave
// the rest of the file's migration in place.
package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/layout"
	"rsc.io/mockmv/model"
	"rsc.io/mockmv/pass"
	"rsc.io/mockmv/strategy"
)

// A Config controls a migration.
type Config struct {
	Disabled []string // names of passes not to run
	Jobs     int      // maximum files migrated at once; 0 means GOMAXPROCS
}

// A Change is the new content of one file.
type Change struct {
	Path  string
	Old   []byte
	New   []byte
	GoMod string // go.mod governing the file, if known
}

// Passes returns the passes to run, in order.
// It reports an error if cfg disables a pass that does not exist.
func (cfg *Config) Passes() ([]*pass.Pass, error) {
	off := make(map[string]bool)
	for _, name := range cfg.Disabled {
		if pass.Lookup(name) == nil {
			return nil, fmt.Errorf("unknown pass %q", name)
		}
		off[name] = true
	}
	var list []*pass.Pass
	for _, p := range pass.All {
		if !off[p.Name] {
			list = append(list, p)
		}
	}
	return list, nil
}

func (cfg *Config) jobs() int {
	if cfg.Jobs > 0 {
		return cfg.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Run migrates the compilations comps, reporting warnings and skipped
// compilations to rep. It returns the changed files of every
// compilation that migrated without fatal errors, sorted by path, and
// an *ErrorList holding the fatal errors of the others.
func Run(ctx context.Context, comps []model.Compilation, cfg *Config, rep *Reporter) ([]*Change, error) {
	passes, err := cfg.Passes()
	if err != nil {
		return nil, err
	}
	results := make([]*outcome, len(comps))
	var g errgroup.Group
	g.SetLimit(cfg.jobs())
	for i, comp := range comps {
		g.Go(func() error {
			results[i] = migrateCompilation(ctx, comp, passes, cfg.jobs())
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var changes []*Change
	var errs ErrorList
	for i, r := range results {
		if r.skip != nil {
			rep.Verbosef("skipping %v", r.skip)
			continue
		}
		for _, w := range r.warnings {
			rep.Warn(w)
		}
		if r.err != nil {
			errs.Add(r.err)
			continue
		}
		rep.Verbosef("%s: %d files changed", comps[i].Path(), len(r.changes))
		changes = append(changes, r.changes...)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, errs.Err()
}

// An outcome is the result of migrating one compilation.
type outcome struct {
	skip     error // compilation does not use gomock
	err      error
	warnings []Warning
	changes  []*Change
}

// A fileOutcome is the result of migrating one file.
type fileOutcome struct {
	warnings []Warning
	err      error
	src      []byte // new text, or nil if unchanged
}

func migrateCompilation(ctx context.Context, comp model.Compilation, passes []*pass.Pass, jobs int) *outcome {
	cat, err := catalog.New(comp)
	if errors.Is(err, catalog.ErrNoSource) {
		return &outcome{skip: err}
	}
	if err != nil {
		return &outcome{err: err}
	}
	table, err := strategy.NewTable(cat)
	if err != nil {
		return &outcome{err: fmt.Errorf("%s: %w", comp.Path(), err)}
	}

	files := comp.Files()
	results := make([]*fileOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, f := range files {
		if generated(f.Src) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = migrateFile(comp, f, table, passes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &outcome{err: err}
	}

	out := new(outcome)
	var errs ErrorList
	for i, r := range results {
		if r == nil {
			continue
		}
		out.warnings = append(out.warnings, r.warnings...)
		errs.Add(r.err)
		if r.src != nil {
			f := files[i]
			out.changes = append(out.changes, &Change{Path: f.Path, Old: f.Src, New: r.src, GoMod: comp.GoMod()})
		}
	}
	if err := errs.Err(); err != nil {
		out.err = err
		out.changes = nil
	}
	return out
}

// migrateFile runs passes over f and formats the result.
func migrateFile(comp model.Compilation, f *model.File, table *strategy.Table, passes []*pass.Pass) (out *fileOutcome) {
	out = new(fileOutcome)
	c := pass.NewContext(comp, f, table, func(line int, reason string) {
		out.warnings = append(out.warnings, Warning{Path: f.Path, Line: line, Reason: reason})
	})
	defer func() {
		if p := recover(); p != nil {
			out.err = &Error{Msg: fmt.Sprintf("%s: internal error: panic: %v", f.Path, p)}
			out.src = nil
		}
	}()
	defer func() {
		sort.SliceStable(out.warnings, func(i, j int) bool { return out.warnings[i].Line < out.warnings[j].Line })
	}()

	for _, p := range passes {
		if err := c.Run(p); err != nil {
			out.err = fileError(c, f.Path, err)
			return out
		}
	}
	root, err := layout.Format(c.Root())
	if err != nil {
		out.err = &Error{Msg: fmt.Sprintf("%s: formatting: %v", f.Path, err)}
		return out
	}
	if src := []byte(root.String()); !bytes.Equal(src, f.Src) {
		out.src = src
	}
	return out
}

var generatedRE = regexp.MustCompile(`(?m)^// Code generated .* DO NOT EDIT\.$`)

// generated reports whether src is a generated file, by the comment
// convention of go generate, which must appear before the package clause.
func generated(src []byte) bool {
	i := bytes.Index(src, []byte("\npackage "))
	if i < 0 {
		return false
	}
	return generatedRE.Match(src[:i])
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"rsc.io/mockmv/load"
	"rsc.io/mockmv/pass"
)

// library returns the sources shared by all test cases.
func library(t *testing.T) map[string][]byte {
	t.Helper()
	a, err := txtar.ParseFile("testdata/lib.txtar")
	require.NoError(t, err)
	srcs := make(map[string][]byte)
	for _, f := range a.Files {
		srcs[f.Name] = f.Data
	}
	return srcs
}

// migrateSources migrates the packages pkgs of srcs and returns the
// changed files and what was reported.
func migrateSources(t *testing.T, srcs map[string][]byte, cfg *Config, verbose bool, pkgs ...string) (map[string]string, string) {
	t.Helper()
	comps, err := load.Sources(srcs, pkgs...)
	require.NoError(t, err)
	var stderr bytes.Buffer
	changes, err := Run(context.Background(), comps, cfg, NewReporter(&stderr, verbose))
	require.NoError(t, err)
	got := make(map[string]string)
	for _, ch := range changes {
		got[ch.Path] = string(ch.New)
	}
	return got, stderr.String()
}

func TestGolden(t *testing.T) {
	names, err := filepath.Glob("testdata/*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		t.Run(strings.TrimSuffix(filepath.Base(name), ".txt"), func(t *testing.T) {
			a, err := txtar.ParseFile(name)
			require.NoError(t, err)

			srcs := library(t)
			want := make(map[string]string)
			var wantStderr string
			var pkgs []string
			seen := make(map[string]bool)
			for _, f := range a.Files {
				switch {
				case f.Name == "stderr":
					wantStderr = string(f.Data)
				case strings.HasPrefix(f.Name, "want/"):
					want[strings.TrimPrefix(f.Name, "want/")] = string(f.Data)
				default:
					srcs[f.Name] = f.Data
					if dir := path.Dir(f.Name); !seen[dir] {
						seen[dir] = true
						pkgs = append(pkgs, dir)
					}
				}
			}
			sort.Strings(pkgs)

			got, stderr := migrateSources(t, srcs, new(Config), false, pkgs...)
			assert.Equal(t, want, got)
			assert.Equal(t, wantStderr, stderr)

			// Migrating the result again changes nothing.
			for name, text := range got {
				srcs[name] = []byte(text)
			}
			again, _ := migrateSources(t, srcs, new(Config), false, pkgs...)
			assert.Empty(t, again)
		})
	}
}

func TestSkip(t *testing.T) {
	srcs := library(t)
	srcs["example.com/plain/plain.go"] = []byte("package plain\n\nvar X = 1\n")
	got, stderr := migrateSources(t, srcs, new(Config), true, "example.com/plain")
	assert.Empty(t, got)
	assert.Equal(t, "skipping example.com/plain: gomock is not used\n", stderr)
}

const finishTest = `package p

import (
	"testing"

	"example.com/mocks"
	"go.uber.org/mock/gomock"
)

func TestFinish(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)
	ctrl.Finish()
	_ = m
}
`

func TestDisabled(t *testing.T) {
	srcs := library(t)
	srcs["example.com/p/p_test.go"] = []byte(finishTest)

	// Without the verify pass, Finish stays and keeps the controller alive.
	got, stderr := migrateSources(t, srcs, &Config{Disabled: []string{"verify"}}, false, "example.com/p")
	require.Contains(t, got, "example.com/p/p_test.go")
	out := got["example.com/p/p_test.go"]
	assert.Contains(t, out, "m := mocks.NewMockStore(t)")
	assert.Contains(t, out, "ctrl.Finish()")
	assert.Contains(t, stderr, "controller ctrl is still used")

	_, err := (&Config{Disabled: []string{"nonesuch"}}).Passes()
	assert.EqualError(t, err, `unknown pass "nonesuch"`)
}

func TestPasses(t *testing.T) {
	list, err := new(Config).Passes()
	require.NoError(t, err)
	assert.Equal(t, pass.All, list)

	list, err = (&Config{Disabled: []string{"imports", "setup"}}).Passes()
	require.NoError(t, err)
	for _, p := range list {
		assert.NotEqual(t, "imports", p.Name)
		assert.NotEqual(t, "setup", p.Name)
	}
	assert.Len(t, list, len(pass.All)-2)
}

func TestGenerated(t *testing.T) {
	assert.True(t, generated([]byte("// Code generated by mockgen. DO NOT EDIT.\n\npackage p\n")))
	assert.True(t, generated([]byte("//go:build x\n\n// Code generated by x. DO NOT EDIT.\npackage p\n")))
	assert.False(t, generated([]byte("package p\n\n// Code generated by mockgen. DO NOT EDIT.\n")))
	assert.False(t, generated([]byte("// Code generated by hand.\n\npackage p\n")))
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)
	r.Warn(Warning{Path: "a_test.go", Line: 3, Reason: "matcher Regex has no testify equivalent"})
	r.Verbosef("not shown")
	assert.Equal(t, "  WARNING: matcher Regex has no testify equivalent\n  a_test.go at line 3\n", buf.String())
	assert.Equal(t, 1, r.Count())
}

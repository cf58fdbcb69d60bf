// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"go/parser"
	"go/token"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"rsc.io/mockmv/catalog"
)

// TestifyModule is the module providing the testify packages.
const TestifyModule = "github.com/stretchr/testify"

// DefaultTestifyVersion is the testify version required by RequireTestify
// when none is configured.
const DefaultTestifyVersion = "v1.9.0"

// RequireTestify returns changes to the go.mod files governing changed
// files that now import testify, adding a requirement on version of
// testify to each that lacks one. The go.mod files are read with
// readFile, usually os.ReadFile.
func RequireTestify(changes []*Change, version string, readFile func(string) ([]byte, error)) ([]*Change, error) {
	if version == "" {
		version = DefaultTestifyVersion
	}
	if readFile == nil {
		readFile = os.ReadFile
	}
	need := make(map[string]bool)
	for _, ch := range changes {
		if ch.GoMod != "" && importsTestify(ch.New) {
			need[ch.GoMod] = true
		}
	}
	var mods []string
	for m := range need {
		mods = append(mods, m)
	}
	sort.Strings(mods)

	var out []*Change
	for _, name := range mods {
		data, err := readFile(name)
		if err != nil {
			return nil, err
		}
		f, err := modfile.Parse(name, data, nil)
		if err != nil {
			return nil, err
		}
		if hasRequire(f, TestifyModule) {
			continue
		}
		if err := f.AddRequire(TestifyModule, version); err != nil {
			return nil, err
		}
		f.Cleanup()
		text, err := f.Format()
		if err != nil {
			return nil, err
		}
		out = append(out, &Change{Path: name, Old: data, New: text})
	}
	return out, nil
}

func hasRequire(f *modfile.File, path string) bool {
	for _, r := range f.Require {
		if r.Mod.Path == path {
			return true
		}
	}
	return false
}

// importsTestify reports whether the Go source src imports a testify package.
func importsTestify(src []byte) bool {
	f, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ImportsOnly)
	if err != nil {
		return false
	}
	for _, imp := range f.Imports {
		p, _ := strconv.Unquote(imp.Path.Value)
		if p == catalog.MockPath || p == catalog.AssertPath || strings.HasPrefix(p, TestifyModule+"/") {
			return true
		}
	}
	return false
}

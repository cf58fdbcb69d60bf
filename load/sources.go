// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/txtar"
	"rsc.io/mockmv/model"
	"rsc.io/mockmv/syntax"
)

// Sources returns compilations for the packages with the given import
// paths. Packages and their dependencies are type-checked from srcs,
// which maps slash-separated file names such as "example.com/p/p_test.go"
// to their contents; the directory of a file is its package's import path.
// Standard library packages must be supplied the same way.
//
// Each package yields a compilation of its files, including in-package
// tests, and, if it has an external test package, a second compilation
// with import path suffixed by "_test".
func Sources(srcs map[string][]byte, paths ...string) ([]model.Compilation, error) {
	m := &memImporter{
		fset:     token.NewFileSet(),
		srcs:     srcs,
		dirs:     make(map[string][]string),
		pkgs:     make(map[string]*types.Package),
		checking: make(map[string]bool),
	}
	for name := range srcs {
		if strings.HasSuffix(name, ".go") {
			dir := path.Dir(name)
			m.dirs[dir] = append(m.dirs[dir], name)
		}
	}
	for _, names := range m.dirs {
		sort.Strings(names)
	}

	var list []model.Compilation
	for _, p := range paths {
		names := m.dirs[p]
		if len(names) == 0 {
			return nil, fmt.Errorf("package %s not found", p)
		}
		var internal, external []*model.File
		for _, name := range names {
			root, err := syntax.ParseFile(name, srcs[name])
			if err != nil {
				return nil, err
			}
			f := &model.File{Path: name, Src: srcs[name], Root: root}
			pkgName, err := m.packageName(name)
			if err != nil {
				return nil, err
			}
			if strings.HasSuffix(name, "_test.go") && strings.HasSuffix(pkgName, "_test") {
				external = append(external, f)
			} else {
				internal = append(internal, f)
			}
		}
		for i, files := range [][]*model.File{internal, external} {
			if len(files) == 0 {
				continue
			}
			c := &compilation{path: p, files: files, imp: m, mu: &m.mu}
			if i == 1 {
				c.path = p + "_test"
			}
			b, err := c.Bind(files[0], files[0].Root)
			if err != nil {
				return nil, err
			}
			c.deps = imported(b.Package())
			list = append(list, c)
		}
	}
	return list, nil
}

// imported returns the packages p imports, directly or indirectly,
// by import path.
func imported(p *types.Package) map[string]*types.Package {
	deps := make(map[string]*types.Package)
	var visit func(*types.Package)
	visit = func(p *types.Package) {
		for _, q := range p.Imports() {
			if deps[q.Path()] == nil {
				deps[q.Path()] = q
				visit(q)
			}
		}
	}
	visit(p)
	return deps
}

// Archive is like Sources but reads the files from a txtar archive.
func Archive(a *txtar.Archive, paths ...string) ([]model.Compilation, error) {
	srcs := make(map[string][]byte)
	for _, f := range a.Files {
		srcs[f.Name] = f.Data
	}
	return Sources(srcs, paths...)
}

// A memImporter type-checks packages from in-memory sources,
// excluding test files.
type memImporter struct {
	mu       sync.Mutex // held by Bind while type-checking
	fset     *token.FileSet
	srcs     map[string][]byte
	dirs     map[string][]string
	pkgs     map[string]*types.Package
	checking map[string]bool
}

func (m *memImporter) packageName(name string) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), name, m.srcs[name], parser.PackageClauseOnly)
	if err != nil {
		return "", err
	}
	return f.Name.Name, nil
}

func (m *memImporter) Import(path string) (*types.Package, error) {
	if path == "unsafe" {
		return types.Unsafe, nil
	}
	if p := m.pkgs[path]; p != nil {
		return p, nil
	}
	if m.checking[path] {
		return nil, fmt.Errorf("import cycle through %s", path)
	}
	var files []*ast.File
	for _, name := range m.dirs[path] {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(m.fset, name, m.srcs[name], parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("package %s not found", path)
	}
	m.checking[path] = true
	defer delete(m.checking, path)

	var first error
	conf := &types.Config{
		Importer: m,
		Error: func(err error) {
			if first == nil {
				first = err
			}
		},
	}
	p, _ := conf.Check(path, m.fset, files, nil)
	if first != nil {
		return nil, fmt.Errorf("checking %s: %w", path, first)
	}
	m.pkgs[path] = p
	return p, nil
}

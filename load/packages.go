// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package load builds compilations for the migration engine,
// either from packages on disk or from in-memory sources.
package load

import (
	"fmt"
	"go/types"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"rsc.io/mockmv/model"
	"rsc.io/mockmv/syntax"
)

// Packages loads the packages matching patterns, interpreted relative to
// dir, and returns one compilation per package. A package with tests is
// returned as its test variant, which includes the package's own files,
// and its external test package, if any, as a separate compilation.
func Packages(dir string, patterns ...string) ([]model.Compilation, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports |
			packages.NeedDeps | packages.NeedTypes | packages.NeedModule,
		Dir:   dir,
		Tests: true,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matching %s in %s", strings.Join(patterns, " "), dir)
	}

	// Prefer the variant built with tests over the plain package.
	byPath := make(map[string]*packages.Package)
	var paths []string
	for _, p := range pkgs {
		if strings.HasSuffix(p.ID, ".test") {
			// Test main.
			continue
		}
		old, ok := byPath[p.PkgPath]
		if !ok {
			paths = append(paths, p.PkgPath)
		}
		if !ok || old.ID == old.PkgPath {
			byPath[p.PkgPath] = p
		}
	}
	sort.Strings(paths)

	var list []model.Compilation
	for _, path := range paths {
		p := byPath[path]
		c, err := fromPackage(p)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}

func fromPackage(p *packages.Package) (*compilation, error) {
	c := &compilation{
		path: p.PkgPath,
		imp:  importerFunc(func(path string) (*types.Package, error) { return importFrom(p, path) }),
		deps: make(map[string]*types.Package),
	}
	if p.Module != nil {
		c.gomod = p.Module.GoMod
	}
	for _, name := range p.GoFiles {
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		src, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		root, err := syntax.ParseFile(name, src)
		if err != nil {
			return nil, err
		}
		c.files = append(c.files, &model.File{Path: name, Src: src, Root: root})
	}
	packages.Visit([]*packages.Package{p}, nil, func(q *packages.Package) {
		if q != p && q.Types != nil {
			if _, ok := c.deps[q.PkgPath]; !ok {
				c.deps[q.PkgPath] = q.Types
			}
		}
	})
	return c, nil
}

func importFrom(p *packages.Package, path string) (*types.Package, error) {
	if path == "unsafe" {
		return types.Unsafe, nil
	}
	q := p.Imports[path]
	if q == nil || q.Types == nil {
		return nil, fmt.Errorf("%s: cannot find import %q", p.PkgPath, path)
	}
	return q.Types, nil
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

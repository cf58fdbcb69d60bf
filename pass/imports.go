// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"fmt"
	"go/token"
	"path"
	"strconv"
	"strings"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Imports adds the testify imports that rewritten code refers to and
// deletes gomock imports that are no longer used.
var Imports = &Pass{Name: "imports", run: fixImports}

func fixImports(c *Context) error {
	need := make(map[string]bool)
	syntax.Inspect(c.root, func(n *syntax.Node) bool {
		for _, a := range n.Annotations(strategy.ImportNote) {
			need[a.Data] = true
		}
		return true
	})
	have := make(map[string]bool)
	for _, imp := range imports(c.root) {
		have[imp.path] = true
	}
	var unused []string
	for _, p := range []string{catalog.GomockPath, catalog.LegacyGomockPath} {
		if have[p] && !c.binder.UsesImport(p) {
			unused = append(unused, p)
		}
	}

	for _, imp := range []struct{ path, name string }{
		{catalog.MockPath, c.mock},
		{catalog.AssertPath, c.assert},
	} {
		if !need[imp.path] || have[imp.path] {
			continue
		}
		name := imp.name
		if name == path.Base(imp.path) {
			name = ""
		}
		if err := c.addImport(imp.path, name); err != nil {
			return err
		}
	}
	for _, p := range unused {
		if err := c.removeImport(p); err != nil {
			return err
		}
	}
	return nil
}

// importDecls returns the import declarations of the file root.
func importDecls(root *syntax.Node) []*syntax.Node {
	var list []*syntax.Node
	for _, d := range root.Children() {
		if d.Kind() == syntax.GenDecl && d.Child(0).IsToken(token.IMPORT) {
			list = append(list, d)
		}
	}
	return list
}

// parenthesized reports whether the declaration d has a parenthesized spec list.
func parenthesized(d *syntax.Node) bool {
	for _, k := range d.Children() {
		if k.IsToken(token.LPAREN) {
			return true
		}
	}
	return false
}

// specPath returns the import path of an import spec.
func specPath(spec *syntax.Node) string {
	for _, k := range spec.Children() {
		if k.Kind() == syntax.BasicLit {
			p, _ := strconv.Unquote(k.Text())
			return p
		}
	}
	return ""
}

// startsGroup reports whether a blank line separates the spec from
// the one before it.
func startsGroup(spec *syntax.Node) bool {
	for _, p := range spec.Leading() {
		switch p.Kind {
		case syntax.Newline:
			return true
		case syntax.LineComment, syntax.BlockComment:
			return false
		}
	}
	return false
}

// parseFile parses the source of a small synthesized file.
func parseFile(src string) *syntax.Node {
	f, err := syntax.ParseFile("imports.go", []byte(src))
	if err != nil {
		panic(fmt.Sprintf("parsing %q: %v", src, err))
	}
	return f
}

// importSource returns the source form of an import of path with the given name.
func importSource(path, name string) string {
	if name != "" {
		return name + " " + strconv.Quote(path)
	}
	return strconv.Quote(path)
}

// addImport adds an import of path to the file. The import goes into the
// group of the gomock import if there is one, or the last group of
// imports from module paths, or a new group.
func (c *Context) addImport(path, name string) error {
	src := importSource(path, name)
	decls := importDecls(c.root)
	if len(decls) == 0 {
		decl := importDecls(parseFile("package p\n\nimport " + src + "\n"))[0]
		c.root = syntax.InsertLines(c.root, 1, decl.Bare().WithLeading(blankLine()))
		return nil
	}

	target := decls[len(decls)-1]
	for _, d := range decls {
		for _, s := range syntax.Elems(d) {
			if isGomock(specPath(s)) {
				target = d
			}
		}
	}
	if !parenthesized(target) {
		var specs []string
		for _, s := range nonTokens(target) {
			specs = append(specs, "\t"+s.Text()+"\n")
		}
		d := importDecls(parseFile("package p\n\nimport (\n" + strings.Join(specs, "") + ")\n"))[0]
		d = d.WithLeading(target.Leading()).WithTrailing(target.Trailing())
		c.replace(target, d)
		target = d
	}
	spec := syntax.Elems(importDecls(parseFile("package p\n\nimport (\n\t" + src + "\n)\n"))[0])[0].Bare()

	specs := syntax.Elems(target)
	var groups [][2]int
	for i, s := range specs {
		if i == 0 || startsGroup(s) {
			groups = append(groups, [2]int{i, i})
		}
		groups[len(groups)-1][1] = i + 1
	}
	group := [2]int{-1, -1}
	for _, g := range groups {
		for _, s := range specs[g[0]:g[1]] {
			if isGomock(specPath(s)) {
				group = g
			}
		}
	}
	if group[0] < 0 {
		for _, g := range groups {
			if first, _, _ := strings.Cut(specPath(specs[g[0]]), "/"); strings.Contains(first, ".") {
				group = g
			}
		}
	}
	if group[0] < 0 {
		c.replace(target, syntax.InsertLines(target, len(specs), spec.WithLeading(blankLine())))
		return nil
	}

	at := group[1]
	for i := group[0]; i < group[1]; i++ {
		if specPath(specs[i]) > path {
			at = i
			break
		}
	}
	d := target
	if at == group[0] && at > 0 {
		// Take over the blank line that starts the group.
		old := specs[at]
		if old.Leading().HasComment() {
			at++
		} else {
			d = syntax.Replace(d, old, old.WithLeading(syntax.Blank(old.Leading().Indent())))
			spec = spec.WithLeading(blankLine())
		}
	}
	c.replace(target, syntax.InsertLines(d, at, spec))
	return nil
}

// removeImport deletes the imports of path from the file.
func (c *Context) removeImport(path string) error {
	for _, imp := range imports(c.root) {
		if imp.path != path {
			continue
		}
		decl := syntax.Parent(c.root, imp.node)
		if decl == nil {
			return strategy.Internal(imp.node, "import %s outside a declaration", path)
		}
		if parenthesized(decl) && len(syntax.Elems(decl)) > 1 {
			for i, s := range syntax.Elems(decl) {
				if s == imp.node {
					c.replace(decl, syntax.RemoveLine(decl, i))
				}
			}
			continue
		}
		for i, d := range syntax.Elems(c.root) {
			if d == decl {
				c.root = syntax.RemoveLine(c.root, i)
			}
		}
	}
	return nil
}

func isGomock(path string) bool {
	return path == catalog.GomockPath || path == catalog.LegacyGomockPath
}

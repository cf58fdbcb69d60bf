// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"rsc.io/mockmv/syntax"
)

// calls returns the call expressions in root, in preorder.
func calls(root *syntax.Node) []*syntax.Node {
	return syntax.Find(root, func(n *syntax.Node) bool { return n.Kind() == syntax.CallExpr })
}

// ancestor returns the nearest proper ancestor of n in root
// with one of the given kinds, or nil.
func ancestor(root, n *syntax.Node, kinds ...syntax.Kind) *syntax.Node {
	path := syntax.Path(root, n)
	for i := len(path) - 2; i >= 0; i-- {
		for _, k := range kinds {
			if path[i].Kind() == k {
				return path[i]
			}
		}
	}
	return nil
}

// funcOf returns the innermost function declaration or literal
// enclosing n, or nil.
func funcOf(root, n *syntax.Node) *syntax.Node {
	return ancestor(root, n, syntax.FuncDecl, syntax.FuncLit)
}

// contains reports whether n occurs in the tree rooted at root.
func contains(root, n *syntax.Node) bool {
	found := false
	syntax.Inspect(root, func(x *syntax.Node) bool {
		if x == n {
			found = true
		}
		return !found
	})
	return found
}

// stmtList returns the line-oriented list holding the statement s
// and the index of s in it.
func stmtList(root, s *syntax.Node) (*syntax.Node, int) {
	p := syntax.Parent(root, s)
	if p == nil {
		return nil, -1
	}
	switch p.Kind() {
	case syntax.BlockStmt, syntax.CaseClause, syntax.CommClause:
		for i, x := range syntax.Elems(p) {
			if x == s {
				return p, i
			}
		}
	}
	return nil, -1
}

// removeStmt returns root with the statement s deleted,
// reporting whether s could be deleted.
func removeStmt(root, s *syntax.Node) (*syntax.Node, bool) {
	list, i := stmtList(root, s)
	if list == nil {
		return root, false
	}
	return syntax.Replace(root, list, syntax.RemoveLine(list, i)), true
}

// exprStmt returns the expression statement whose expression is x, or nil.
func exprStmt(root, x *syntax.Node) *syntax.Node {
	p := syntax.Parent(root, x)
	if p != nil && p.Kind() == syntax.ExprStmt {
		return p
	}
	return nil
}

// assignment describes an assignment of a single value to a single
// target: x := v, x = v, or var x [T] = v.
type assignment struct {
	stmt *syntax.Node // AssignStmt, or DeclStmt for a var declaration
	lhs  *syntax.Node
	rhs  *syntax.Node
}

// assignmentOf returns the single-value assignment whose value is v.
func assignmentOf(root, v *syntax.Node) (assignment, bool) {
	p := syntax.Parent(root, v)
	if p == nil {
		return assignment{}, false
	}
	switch p.Kind() {
	case syntax.AssignStmt:
		kids := nonTokens(p)
		if len(kids) == 2 && kids[1] == v {
			return assignment{p, kids[0], v}, true
		}
	case syntax.ValueSpec:
		var before, after []*syntax.Node
		seenAssign := false
		for _, k := range p.Children() {
			switch {
			case k.IsToken(token.ASSIGN):
				seenAssign = true
			case k.Kind() == syntax.Token:
			case seenAssign:
				after = append(after, k)
			default:
				before = append(before, k)
			}
		}
		// var x = v or var x T = v
		if len(after) != 1 || after[0] != v || len(before) == 0 || len(before) > 2 || hasComma(p) {
			break
		}
		gen := syntax.Parent(root, p)
		decl := syntax.Parent(root, gen)
		if decl == nil || decl.Kind() != syntax.DeclStmt || len(syntax.Elems(gen)) > 1 {
			break
		}
		return assignment{decl, before[0], v}, true
	}
	return assignment{}, false
}

func hasComma(n *syntax.Node) bool {
	for _, k := range n.Children() {
		if k.IsToken(token.COMMA) {
			return true
		}
	}
	return false
}

// nonTokens returns the children of n that are not tokens.
func nonTokens(n *syntax.Node) []*syntax.Node {
	var list []*syntax.Node
	for _, k := range n.Children() {
		if k.Kind() != syntax.Token {
			list = append(list, k)
		}
	}
	return list
}

// An importSpec is one import of a file.
type importSpec struct {
	node *syntax.Node // ImportSpec
	name string       // explicit name, or ""
	path string
}

// imports returns the imports of the file root.
func imports(root *syntax.Node) []importSpec {
	var list []importSpec
	for _, spec := range syntax.Find(root, func(n *syntax.Node) bool { return n.Kind() == syntax.ImportSpec }) {
		var s importSpec
		s.node = spec
		for _, k := range spec.Children() {
			switch k.Kind() {
			case syntax.Ident:
				s.name = k.Name()
			case syntax.BasicLit:
				s.path, _ = strconv.Unquote(k.Text())
			}
		}
		list = append(list, s)
	}
	return list
}

// packageName returns the name by which the file root should refer to
// the package with the given import path and default name def: the name
// it is already imported as, def if that name is free, or def prefixed
// with "testify" otherwise.
func packageName(root *syntax.Node, path, def string) string {
	for _, imp := range imports(root) {
		if imp.path == path {
			if imp.name != "" && imp.name != "_" && imp.name != "." {
				return imp.name
			}
			if imp.name == "" {
				return def
			}
		}
	}
	used := false
	syntax.Inspect(root, func(n *syntax.Node) bool {
		if n.Name() == def {
			used = true
		}
		return !used
	})
	if used {
		return "testify" + def
	}
	return def
}

// typeString returns the source form of t as the file would spell it,
// or "" if t is unknown or refers to a package the file does not import.
func (c *Context) typeString(t types.Type) string {
	if t == nil || t == types.Typ[types.Invalid] {
		return ""
	}
	paths := make(map[string]bool)
	for _, imp := range imports(c.root) {
		if imp.name != "_" {
			paths[imp.path] = true
		}
	}
	q := c.binder.Qualifier()
	ok := true
	s := types.TypeString(t, func(p *types.Package) string {
		if p != c.binder.Package() && !paths[p.Path()] {
			ok = false
		}
		return q(p)
	})
	if !ok || strings.Contains(s, "invalid type") {
		return ""
	}
	return s
}

// nilable reports whether nil is a value of type t.
func nilable(t types.Type) bool {
	if t == nil {
		return false
	}
	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer || u.Kind() == types.UntypedNil
	}
	return false
}

// isTestingT reports whether t is *testing.T, *testing.B or testing.TB.
func isTestingT(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	n, ok := t.(*types.Named)
	if !ok || n.Obj().Pkg() == nil || n.Obj().Pkg().Path() != "testing" {
		return false
	}
	switch n.Obj().Name() {
	case "T", "B", "TB":
		return true
	}
	return false
}

// ident returns a new identifier.
func ident(name string) *syntax.Node {
	return syntax.NewIdent(name)
}

// isIdent reports whether n is the identifier name.
func isIdent(n *syntax.Node, name string) bool {
	return n != nil && n.Kind() == syntax.Ident && n.Name() == name
}

// selectorName returns the selected name of a selector expression.
func selectorName(n *syntax.Node) string {
	if n == nil || n.Kind() != syntax.SelectorExpr {
		return ""
	}
	return n.Child(n.NumChildren() - 1).Name()
}

// blankLine returns leading trivia requesting one blank line
// before an inserted line.
func blankLine() syntax.Trivia {
	return syntax.EOL("\n")
}

// parents maps each node of root to its parent.
func parents(root *syntax.Node) map[*syntax.Node]*syntax.Node {
	m := make(map[*syntax.Node]*syntax.Node)
	syntax.Inspect(root, func(n *syntax.Node) bool {
		for _, k := range n.Children() {
			m[k] = n
		}
		return true
	})
	return m
}

// hasEllipsis reports whether the call n passes its last argument with "...".
func hasEllipsis(n *syntax.Node) bool {
	for _, k := range n.Children() {
		if k.IsToken(token.ELLIPSIS) {
			return true
		}
	}
	return false
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseExpr parses src as a Go expression.
// The result has no outer trivia.
func ParseExpr(src string) (*Node, error) {
	x, err := parseDecl("package p\nvar _ = " + src + "\n")
	if err != nil {
		return nil, fmt.Errorf("parsing expression %q: %v", src, err)
	}
	return x, nil
}

// ParseType parses src as a Go type.
// The result has no outer trivia.
func ParseType(src string) (*Node, error) {
	x, err := parseDecl("package p\nvar _ " + src + "\n")
	if err != nil {
		return nil, fmt.Errorf("parsing type %q: %v", src, err)
	}
	return x, nil
}

// parseDecl parses the single blank variable declaration in src
// and returns its type or value, whichever comes last.
func parseDecl(src string) (*Node, error) {
	f, err := ParseFile("snippet.go", []byte(src))
	if err != nil {
		return nil, err
	}
	for _, d := range f.Children() {
		if d.Kind() != GenDecl {
			continue
		}
		for _, s := range d.Children() {
			if s.Kind() == ValueSpec {
				kids := s.Children()
				return kids[len(kids)-1].Bare(), nil
			}
		}
	}
	return nil, fmt.Errorf("no declaration")
}

// ParseStmts parses src as a list of Go statements.
// The results have no outer trivia.
func ParseStmts(src string) ([]*Node, error) {
	f, err := ParseFile("snippet.go", []byte("package p\nfunc _() {\n"+src+"\n}\n"))
	if err != nil {
		return nil, fmt.Errorf("parsing statements %q: %v", src, err)
	}
	var list []*Node
	for _, d := range f.Children() {
		if d.Kind() != FuncDecl {
			continue
		}
		for _, k := range d.Children() {
			if k.Kind() == BlockStmt {
				for _, s := range Elems(k) {
					list = append(list, s.Bare())
				}
			}
		}
	}
	return list, nil
}

// Expr returns the expression tmpl with each placeholder identifier _0,
// _1, ... replaced by the corresponding argument. A substituted argument
// loses its outer trivia and takes on the placeholder's.
// Expr panics if tmpl is not a valid expression.
func Expr(tmpl string, args ...*Node) *Node {
	x, err := ParseExpr(tmpl)
	if err != nil {
		panic(err)
	}
	return Subst(x, args...)
}

// Stmts is like Expr but for a list of statements.
func Stmts(tmpl string, args ...*Node) []*Node {
	list, err := ParseStmts(tmpl)
	if err != nil {
		panic(err)
	}
	for i, s := range list {
		list[i] = Subst(s, args...)
	}
	return list
}

// Subst replaces the placeholder identifiers _0, _1, ... in n
// by the corresponding arguments.
func Subst(n *Node, args ...*Node) *Node {
	return Rewrite(n, func(x *Node) *Node {
		name := x.Name()
		if !strings.HasPrefix(name, "_") {
			return x
		}
		i, err := strconv.Atoi(name[1:])
		if err != nil || i < 0 || i >= len(args) {
			return x
		}
		return args[i].Bare().WithLeading(x.Leading()).WithTrailing(x.Trailing())
	})
}

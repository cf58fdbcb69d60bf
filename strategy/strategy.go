// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strategy holds the conversion rules from gomock constructs
// to their testify equivalents.
//
// Each Strategy is a stateless value converting one recognized construct.
// A Strategy never modifies shared state; everything it needs beyond the
// node being converted comes in through the Env supplied by the caller.
// Table maps gomock symbols to the strategy that converts them.
package strategy

import (
	"go/token"
	"strconv"

	"rsc.io/mockmv/syntax"
)

// A Strategy converts one kind of construct.
// Rewrite returns the replacement for n, which is n itself if nothing
// changes, or nil if n should be deleted. It returns an *Unsupported
// error if n cannot be converted faithfully.
type Strategy interface {
	Name() string
	Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error)
}

// A Predicator is a matcher strategy that can also restate its matcher
// as a boolean expression over the matched value v.
type Predicator interface {
	Strategy
	Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error)
}

// A Counter is a call-count modifier strategy. Count applies the
// modifier call n to the count c in the same way gomock would.
type Counter interface {
	Strategy
	Count(c Count, n *syntax.Node) (Count, error)
}

// An Env carries the context a strategy needs to convert a node.
type Env struct {
	Mock   string // file's name for the testify mock package
	Assert string // file's name for the testify assert package

	// Expectation context, for call modifiers.
	Params   []string // source forms of the mocked method's parameter types, nil if unknown
	Variadic bool     // whether the last of Params is variadic

	// Argument context, for matchers.
	Param   string // source form of the matched parameter's type, "" if unknown
	Nilable bool   // whether Param admits nil

	// TypeOf returns the source form of the type of an expression,
	// or "" if it is unknown.
	TypeOf func(*syntax.Node) string

	// Predicate restates a nested matcher argument as a boolean
	// expression over v.
	Predicate func(n *syntax.Node, v string) (*syntax.Node, error)

	// Unwrap returns the expectation an ordering argument denotes,
	// reporting whether it is an expectation at all.
	Unwrap func(*syntax.Node) (*syntax.Node, bool)

	// Instantiation and verification context.
	T           *syntax.Node // testing handle
	Participant *syntax.Node // mock to verify
}

// Annotation kinds attached to synthesized code.
const (
	// ImportNote records the import path a synthesized node refers to.
	ImportNote = "import"
)

// needs marks n as referring to the package with the given import path.
func needs(n *syntax.Node, path string) *syntax.Node {
	return n.WithAnnotation(syntax.Annotation{Kind: ImportNote, Data: path})
}

type passthrough struct{}

// Passthrough leaves every node unchanged.
var Passthrough Strategy = passthrough{}

func (passthrough) Name() string { return "passthrough" }

func (passthrough) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) { return n, nil }

// keep returns x with the outer trivia of n.
func keep(n, x *syntax.Node) *syntax.Node {
	if x == nil {
		return nil
	}
	return x.WithLeading(n.Leading()).WithTrailing(n.Trailing())
}

// Args returns the arguments of the call n.
func Args(n *syntax.Node) []*syntax.Node {
	if n.Kind() != syntax.CallExpr {
		return nil
	}
	return syntax.Elems(n)
}

// Receiver returns x for a call of the form x.f(...), or nil.
func Receiver(n *syntax.Node) *syntax.Node {
	if n.Kind() != syntax.CallExpr {
		return nil
	}
	fun := n.Child(0)
	if fun.Kind() != syntax.SelectorExpr {
		return nil
	}
	return fun.Child(0)
}

// Method returns f for a call of the form x.f(...), or "".
func Method(n *syntax.Node) string {
	if Receiver(n) == nil {
		return ""
	}
	fun := n.Child(0)
	return fun.Child(fun.NumChildren() - 1).Name()
}

// rename returns the call x.f(...) renamed to x.name(...).
func rename(n *syntax.Node, name string) *syntax.Node {
	fun := n.Child(0)
	id := fun.Child(fun.NumChildren() - 1)
	return syntax.Replace(n, id, syntax.NewIdent(name).WithLeading(id.Leading()).WithTrailing(id.Trailing()))
}

// setArgs returns the call n with its arguments replaced by args.
func setArgs(n *syntax.Node, args ...*syntax.Node) *syntax.Node {
	for len(Args(n)) > 0 {
		n = syntax.RemoveArg(n, 0)
	}
	return syntax.InsertArgs(n, 0, args...)
}

// chain returns the call x.name(args...). If like is a selector, the new
// selector copies the layout of its dot and name, so that a chain broken
// across lines stays broken the same way.
func chain(x, like *syntax.Node, name string, args ...*syntax.Node) *syntax.Node {
	dot := syntax.NewToken(token.PERIOD, ".")
	id := syntax.NewIdent(name)
	if like != nil && like.Kind() == syntax.SelectorExpr {
		d := like.Child(1)
		dot = dot.WithLeading(d.Leading()).WithTrailing(d.Trailing())
		id = id.WithLeading(like.Child(2).Leading())
	}
	sel := syntax.NewNode(syntax.SelectorExpr, x.WithTrailing(nil), dot, id)
	call := syntax.NewNode(syntax.CallExpr, sel, syntax.NewToken(token.LPAREN, "("), syntax.NewToken(token.RPAREN, ")"))
	return syntax.InsertArgs(call, 0, args...).WithTrailing(x.Trailing())
}

// sel returns the expression pkg.name.
func sel(pkg, name string) *syntax.Node {
	return syntax.NewNode(syntax.SelectorExpr, syntax.NewIdent(pkg), syntax.NewToken(token.PERIOD, "."), syntax.NewIdent(name))
}

// Quote returns a string literal for s.
func Quote(s string) *syntax.Node {
	return syntax.NewNode(syntax.BasicLit, syntax.NewToken(token.STRING, strconv.Quote(s)))
}

// intLit returns the value of the integer literal n.
func intLit(n *syntax.Node) (int, bool) {
	if n.Kind() != syntax.BasicLit || n.Child(0).Tok() != token.INT {
		return 0, false
	}
	v, err := strconv.ParseInt(n.Child(0).Text(), 0, 0)
	return int(v), err == nil
}

// paren returns x, parenthesized unless it is an operand or primary
// expression.
func paren(x *syntax.Node) *syntax.Node {
	switch x.Kind() {
	case syntax.Ident, syntax.BasicLit, syntax.CompositeLit, syntax.ParenExpr,
		syntax.SelectorExpr, syntax.IndexExpr, syntax.IndexListExpr,
		syntax.SliceExpr, syntax.TypeAssertExpr, syntax.CallExpr:
		return x
	}
	return syntax.NewNode(syntax.ParenExpr, syntax.NewToken(token.LPAREN, "("), x.Bare(), syntax.NewToken(token.RPAREN, ")"))
}

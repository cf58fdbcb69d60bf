// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/types"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// isModifier reports whether the call n invokes a method of gomock.Call
// or of a typed call wrapper that has a conversion strategy.
func (c *Context) isModifier(n *syntax.Node) bool {
	if n == nil || n.Kind() != syntax.CallExpr || strategy.Receiver(n) == nil {
		return false
	}
	fn, ok := c.symbol(n).(*types.Func)
	if !ok {
		return false
	}
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil || !c.cat.IsCall(recv.Type()) {
		return false
	}
	return c.strategy(n) != strategy.Passthrough
}

// unwrap returns the expectation the expression n denotes:
// an expectation rewritten earlier, the expectation held by a typed call
// wrapper's Call field, a variable assigned a rewritten expectation, or
// any other expression of a call type. It reports false if n is none
// of these.
func (c *Context) unwrap(n *syntax.Node) (*syntax.Node, bool) {
	switch {
	case n.HasAnnotation(ExpectationNote):
		return n, true
	case n.Kind() == syntax.ParenExpr:
		return c.unwrap(n.Child(1))
	case n.Kind() == syntax.SelectorExpr && selectorName(n) == "Call":
		if x, ok := c.unwrap(n.Child(0)); ok {
			return x, true
		}
	}
	if c.cat.IsCall(c.typeOf(n)) {
		return n, true
	}
	if n.Kind() == syntax.Ident && c.declaredExpectation(n) {
		return n, true
	}
	return nil, false
}

// declaredExpectation reports whether the identifier n refers to a
// variable initialized with a rewritten expectation.
func (c *Context) declaredExpectation(n *syntax.Node) bool {
	obj, ok := c.symbol(n).(*types.Var)
	if !ok {
		return false
	}
	root := c.binder.Root()
	for _, x := range syntax.Find(root, func(x *syntax.Node) bool { return x.HasAnnotation(ExpectationNote) }) {
		if a, ok := assignmentOf(root, x); ok && c.binder.SymbolOf(a.lhs) == obj {
			return true
		}
	}
	return false
}

// paramType returns the type of the mocked method's parameter
// matched by argument i of a recorder call, or nil if unknown.
// A call spreading a slice into the variadic parameter matches the
// slice itself.
func paramType(m *types.Func, i int, spread bool) types.Type {
	if m == nil {
		return nil
	}
	sig := m.Type().(*types.Signature)
	ps := sig.Params()
	if sig.Variadic() && i >= ps.Len()-1 {
		last := ps.At(ps.Len() - 1).Type()
		if spread {
			return nil
		}
		if s, ok := last.(*types.Slice); ok {
			return s.Elem()
		}
		return nil
	}
	if i < ps.Len() {
		return ps.At(i).Type()
	}
	return nil
}

// params returns the source forms of m's parameter types,
// or nil if m is nil.
func (c *Context) params(m *types.Func) []string {
	if m == nil {
		return nil
	}
	ps := m.Type().(*types.Signature).Params()
	list := make([]string, ps.Len())
	for i := range list {
		list[i] = c.typeString(ps.At(i).Type())
	}
	return list
}

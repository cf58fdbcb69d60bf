// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Setup rewrites expectation chains recv.EXPECT().M(args...).Mod(...)...
// to recv.On("M", args...).Mod'(...)..., folding gomock's call counts into
// one testify count modifier.
var Setup = &Pass{Name: "setup", run: setup}

// A chain is a sequence of modifier calls applied to one base expression.
type chain struct {
	top      *syntax.Node        // outermost call
	recorder bool                // base is a recorder call
	mods     []strategy.Strategy // modifier strategies, innermost first
	method   *types.Func         // mocked method, if known

	folds []*syntax.Node // later statements whose counts fold into this chain
	decl  *syntax.Node   // declaration to turn into a statement once folds are gone
}

func setup(c *Context) error {
	root := c.binder.Root()
	chains := c.chains(root)

	// Count modifiers applied in a later statement to a variable holding
	// an expectation belong to that expectation's declaration.
	decls := make(map[types.Object]*chain)
	for _, ch := range chains {
		if !ch.recorder {
			continue
		}
		if a, ok := assignmentOf(root, ch.top); ok && a.lhs.Kind() == syntax.Ident {
			if obj := c.binder.SymbolOf(a.lhs); obj != nil {
				if _, dup := decls[obj]; dup {
					decls[obj] = nil
				} else {
					decls[obj] = ch
				}
			}
		}
	}
	var live []*chain
	counts := make(map[*chain][]string)
	folded := make(map[types.Object]int)
	for _, ch := range chains {
		if d, obj, ok := c.foldable(root, ch, decls); ok {
			stmt := exprStmt(root, ch.top)
			d.folds = append(d.folds, stmt)
			counts[d] = append(counts[d], countText(ch.top, len(ch.mods)))
			folded[obj]++
			continue
		}
		if !ch.recorder {
			// Params come from the expectation the base was declared with.
			if obj := baseObject(c, ch.top, len(ch.mods)); obj != nil && decls[obj] != nil {
				ch.method = decls[obj].method
			}
		}
		live = append(live, ch)
	}
	for obj, ch := range decls {
		if ch != nil && len(ch.folds) > 0 && uses(c, root, obj) == folded[obj]+1 {
			if a, ok := assignmentOf(root, ch.top); ok && (a.stmt.Kind() != syntax.AssignStmt || isDefine(a.stmt)) {
				ch.decl = a.stmt
			}
		}
	}

	var nodes []*syntax.Node
	for _, ch := range live {
		nodes = append(nodes, ch.top)
		nodes = append(nodes, ch.folds...)
		if ch.decl != nil {
			nodes = append(nodes, ch.decl)
		}
	}
	tracked := c.track(nodes)
	k := 0
	for _, ch := range live {
		ch.top = tracked[k]
		k++
		copy(ch.folds, tracked[k:k+len(ch.folds)])
		k += len(ch.folds)
		if ch.decl != nil {
			ch.decl = tracked[k]
			k++
		}
		if data := counts[ch]; len(data) > 0 {
			top := c.current(ch.top)
			for _, d := range data {
				top = top.WithAnnotation(note(CountNote, d))
			}
			c.replace(c.current(ch.top), top)
		}
	}

	// Inner chains, such as those passed to After, go first.
	for i := len(live) - 1; i >= 0; i-- {
		ch := live[i]
		top := c.current(ch.top)
		x, err := c.rewriteChain(ch, top)
		if err != nil {
			if err := c.check(top, err); err != nil {
				return err
			}
			continue
		}
		c.replace(top, x)
		for _, f := range ch.folds {
			var ok bool
			if c.root, ok = removeStmt(c.root, c.current(f)); !ok {
				return strategy.Internal(f, "cannot remove %s", f.Text())
			}
		}
		if ch.decl != nil {
			stmt := c.current(ch.decl)
			c.replace(stmt, syntax.NewNode(syntax.ExprStmt, x.WithLeading(stmt.Leading())).WithTrailing(stmt.Trailing()))
		}
	}
	return nil
}

// chains returns the call chains in root, outermost first.
func (c *Context) chains(root *syntax.Node) []*chain {
	parent := parents(root)
	var list []*chain
	for _, call := range calls(root) {
		recorder := c.strategy(call) == strategy.Expect
		if !recorder && !c.isModifier(call) {
			continue
		}
		if sel := parent[call]; sel != nil && sel.Kind() == syntax.SelectorExpr && sel.Child(0) == call {
			if outer := parent[sel]; outer != nil && outer.Child(0) == sel && c.isModifier(outer) {
				continue // not the top of its chain
			}
		}
		ch := &chain{top: call}
		x := call
		for c.isModifier(x) {
			ch.mods = append([]strategy.Strategy{c.strategy(x)}, ch.mods...)
			x = strategy.Receiver(x)
		}
		ch.recorder = c.strategy(x) == strategy.Expect
		if !ch.recorder && len(ch.mods) == 0 {
			continue
		}
		if ch.recorder {
			ch.method = c.cat.MockMethod(c.symbol(x))
		}
		list = append(list, ch)
	}
	return list
}

// base returns the innermost receiver of a chain with n modifiers.
func base(top *syntax.Node, n int) *syntax.Node {
	x := top
	for i := 0; i < n; i++ {
		x = strategy.Receiver(x)
	}
	return x
}

func baseObject(c *Context, top *syntax.Node, n int) types.Object {
	b := base(top, n)
	if b.Kind() != syntax.Ident {
		return nil
	}
	obj, _ := c.binder.SymbolOf(b).(*types.Var)
	if obj == nil {
		return nil
	}
	return obj
}

// foldable reports whether ch is a statement applying only count
// modifiers to a variable declared with an expectation, returning
// that expectation's chain.
func (c *Context) foldable(root *syntax.Node, ch *chain, decls map[types.Object]*chain) (*chain, types.Object, bool) {
	if ch.recorder || exprStmt(root, ch.top) == nil {
		return nil, nil, false
	}
	for _, s := range ch.mods {
		if _, ok := s.(strategy.Counter); !ok {
			return nil, nil, false
		}
	}
	obj := baseObject(c, ch.top, len(ch.mods))
	if obj == nil || decls[obj] == nil {
		return nil, nil, false
	}
	return decls[obj], obj, true
}

// countText returns the modifiers of a chain with n modifiers as
// text, like "Times(2)" or "MinTimes(1).MaxTimes(3)".
func countText(top *syntax.Node, n int) string {
	var list []string
	x := top
	for i := 0; i < n; i++ {
		var args []string
		for _, a := range strategy.Args(x) {
			args = append(args, a.Bare().String())
		}
		list = append([]string{fmt.Sprintf("%s(%s)", strategy.Method(x), strings.Join(args, ", "))}, list...)
		x = strategy.Receiver(x)
	}
	return strings.Join(list, ".")
}

// uses returns the number of identifiers in root referring to obj,
// including its declaration.
func uses(c *Context, root *syntax.Node, obj types.Object) int {
	n := 0
	syntax.Inspect(root, func(x *syntax.Node) bool {
		if x.Kind() == syntax.Ident && c.binder.SymbolOf(x) == obj {
			n++
		}
		return true
	})
	return n
}

// isDefine reports whether the assignment statement s is a short
// variable declaration.
func isDefine(s *syntax.Node) bool {
	for _, k := range s.Children() {
		if k.IsToken(token.DEFINE) {
			return true
		}
	}
	return false
}

// rewriteChain returns the testify form of the chain ch, whose current
// version is top.
func (c *Context) rewriteChain(ch *chain, top *syntax.Node) (*syntax.Node, error) {
	spine := make([]*syntax.Node, len(ch.mods))
	x := top
	for i := len(ch.mods) - 1; i >= 0; i-- {
		spine[i] = x
		x = strategy.Receiver(x)
	}

	env := c.env()
	env.Unwrap = c.unwrap
	if ch.method != nil {
		env.Params = c.params(ch.method)
		env.Variadic = ch.method.Type().(*types.Signature).Variadic()
	}

	var err error
	if ch.recorder {
		if ch.method == nil {
			return nil, strategy.Internal(x, "no mocked method for recorder call %s", x.Text())
		}
		if x, err = strategy.Expect.Rewrite(env, c.annotateArgs(x, ch.method)); err != nil {
			return nil, err
		}
	}
	count := strategy.DefaultCount
	for i, s := range ch.mods {
		m := spine[i]
		if k, ok := s.(strategy.Counter); ok && ch.recorder {
			if count, err = k.Count(count, m); err != nil {
				return nil, err
			}
			continue
		}
		if x, err = s.Rewrite(env, syntax.Replace(m, strategy.Receiver(m), x)); err != nil {
			return nil, err
		}
	}
	if ch.recorder {
		for _, a := range top.Annotations(CountNote) {
			if count, err = c.foldCount(count, top, a.Data); err != nil {
				return nil, err
			}
		}
		if x, err = count.Apply(x.WithTrailing(nil)); err != nil {
			return nil, err
		}
	}
	x = x.WithTrailing(top.Trailing())
	return x.WithAnnotation(note(ExpectationNote, "")), nil
}

// annotateArgs returns the recorder call n with each argument annotated
// with the type of the parameter of m it matches.
func (c *Context) annotateArgs(n *syntax.Node, m *types.Func) *syntax.Node {
	spread := hasEllipsis(n)
	for i, a := range strategy.Args(n) {
		t := paramType(m, i, spread)
		b := a.WithAnnotation(note(ParamNote, c.typeString(t)))
		if nilable(t) {
			b = b.WithAnnotation(note(NilableNote, ""))
		}
		n = syntax.Replace(n, a, b)
	}
	return n
}

// foldCount applies the count modifiers recorded in data to count.
func (c *Context) foldCount(count strategy.Count, top *syntax.Node, data string) (strategy.Count, error) {
	x, err := syntax.ParseExpr("_." + data)
	if err != nil {
		return count, strategy.Internal(top, "bad count %q: %v", data, err)
	}
	var mods []*syntax.Node
	for x.Kind() == syntax.CallExpr {
		mods = append([]*syntax.Node{x}, mods...)
		x = strategy.Receiver(x)
	}
	for _, m := range mods {
		obj, err := c.cat.Resolve("Call." + strategy.Method(m))
		if err != nil {
			return count, strategy.Internal(top, "bad count %q: %v", data, err)
		}
		k, ok := c.table.Select(obj).(strategy.Counter)
		if !ok {
			return count, strategy.Internal(top, "%s is not a count modifier", strategy.Method(m))
		}
		if count, err = k.Count(count, m); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/types"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Constraint rewrites the argument matchers of expectations to testify
// arguments, restating composite matchers as one predicate.
var Constraint = &Pass{Name: "constraint", run: constraint}

func constraint(c *Context) error {
	sites := syntax.Find(c.root, func(n *syntax.Node) bool {
		return n.HasAnnotation(ParamNote) && c.matcher(n) != nil
	})
	for _, t := range c.track(sites) {
		site := c.current(t)
		a, _ := site.Annotation(ParamNote)
		env := c.env()
		env.Param = a.Data
		env.Nilable = site.HasAnnotation(NilableNote)
		env.Predicate = func(n *syntax.Node, v string) (*syntax.Node, error) {
			if p := c.matcher(n); p != nil {
				return p.Predicate(env, n, v)
			}
			return strategy.Equals(env, n, v), nil
		}
		x, err := c.matcher(c.bound(t)).Rewrite(env, site)
		if err != nil {
			if err := c.check(site, err); err != nil {
				return err
			}
			continue
		}
		c.replace(site, x)
	}
	return nil
}

// matcher returns the strategy for the matcher expression n:
// a call of a gomock matcher constructor, or a value of another type
// implementing gomock.Matcher. It returns nil if n is not a matcher.
func (c *Context) matcher(n *syntax.Node) strategy.Predicator {
	if n.Kind() == syntax.CallExpr {
		if p, ok := c.strategy(n).(strategy.Predicator); ok {
			return p
		}
	}
	t := c.typeOf(n)
	if t == nil {
		return nil
	}
	if _, ok := t.Underlying().(*types.Basic); ok {
		return nil
	}
	iface, ok := c.cat.Matcher.Type().Underlying().(*types.Interface)
	if !ok || iface.Empty() {
		return nil
	}
	if types.Implements(t, iface) {
		return strategy.Custom
	}
	return nil
}

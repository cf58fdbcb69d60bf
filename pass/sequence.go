// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/types"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Sequence rewrites gomock.InOrder(calls...) to mock.InOrder(calls...).
// The group stays a single InOrder statement over the same expectations:
// no sequence variable is declared and the expectations are not
// attached to one.
// It first collects the expectations each group orders and then rewrites
// the groups, leaving alone a group sharing an expectation with another.
var Sequence = &Pass{Name: "sequence", run: sequence}

func sequence(c *Context) error {
	var sites []*syntax.Node
	for _, call := range calls(c.root) {
		if c.strategy(call) == strategy.InOrder {
			sites = append(sites, call)
		}
	}

	// Phase 1: which groups order each expectation.
	groups := make(map[any][]*syntax.Node)
	for _, site := range sites {
		seen := make(map[any]bool)
		for _, arg := range strategy.Args(site) {
			k := c.expectationKey(arg)
			if !seen[k] {
				seen[k] = true
				groups[k] = append(groups[k], site)
			}
		}
	}
	shared := make(map[*syntax.Node]string)
	for _, site := range sites {
		for _, arg := range strategy.Args(site) {
			if len(groups[c.expectationKey(arg)]) > 1 && shared[site] == "" {
				shared[site] = arg.Text()
			}
		}
	}

	// Phase 2: rewrite.
	for _, t := range c.track(sites) {
		site := c.current(t)
		if name := shared[c.bound(t)]; name != "" {
			c.warnf(site, "expectation %s is ordered by more than one InOrder", name)
			continue
		}
		env := c.env()
		env.Unwrap = c.unwrap
		x, err := strategy.InOrder.Rewrite(env, site)
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

// expectationKey returns a value identifying the expectation an InOrder
// argument denotes: the variable holding it, or the argument itself.
func (c *Context) expectationKey(arg *syntax.Node) any {
	for {
		switch {
		case arg.Kind() == syntax.ParenExpr:
			arg = arg.Child(1)
			continue
		case arg.Kind() == syntax.SelectorExpr && selectorName(arg) == "Call":
			arg = arg.Child(0)
			continue
		}
		break
	}
	if obj, ok := c.symbol(arg).(*types.Var); ok && arg.Kind() == syntax.Ident {
		return obj
	}
	return arg
}

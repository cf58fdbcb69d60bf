// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/types"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Fields rewrites declared types naming gomock.Call or a typed call
// wrapper to mock.Call, and gomock.Matcher to any.
var Fields = &Pass{Name: "fields", run: fields}

func fields(c *Context) error {
	var sites []*syntax.Node
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if c.typeStrategy(n) != nil {
			sites = append(sites, n)
			return
		}
		for i, k := range n.Children() {
			if n.Kind() == syntax.TypeSpec && i == 0 {
				continue // declared name
			}
			walk(k)
		}
	}
	walk(c.root)

	for _, t := range c.track(sites) {
		site := c.current(t)
		x, err := c.typeStrategy(c.bound(t)).Rewrite(c.env(), site)
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

// typeStrategy returns the strategy for a reference n to a gomock
// type, or nil if n is not one.
func (c *Context) typeStrategy(n *syntax.Node) strategy.Strategy {
	if n.Kind() != syntax.Ident && n.Kind() != syntax.SelectorExpr {
		return nil
	}
	if _, ok := c.symbol(n).(*types.TypeName); !ok {
		return nil
	}
	switch s := c.strategy(n); s {
	case strategy.CallType, strategy.MatcherType:
		return s
	}
	return nil
}

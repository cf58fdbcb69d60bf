// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/types"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Instantiation rewrites generated mock constructors NewMockX(ctrl)
// to NewMockX(t), where t is the testing handle ctrl was created with.
var Instantiation = &Pass{Name: "instantiation", run: instantiation}

func instantiation(c *Context) error {
	var sites []*syntax.Node
	for _, call := range calls(c.root) {
		if c.strategy(call) != strategy.Instantiate {
			continue
		}
		// A constructor already passed a testing handle is migrated.
		if args := strategy.Args(call); len(args) == 1 && !c.cat.IsController(c.typeOf(args[0])) {
			continue
		}
		sites = append(sites, call)
	}
	for _, t := range c.track(sites) {
		site, b := c.current(t), c.bound(t)
		args := strategy.Args(b)
		if len(args) != 1 {
			return strategy.Internal(site, "mock constructor called with %d arguments", len(args))
		}
		h, err := c.testingHandle(b, args[0])
		if err != nil {
			if err := c.check(site, err); err != nil {
				return err
			}
			continue
		}
		env := c.env()
		env.T = h
		x, err := strategy.Instantiate.Rewrite(env, site)
		if err != nil {
			if err := c.check(site, err); err != nil {
				return err
			}
			continue
		}
		x = x.WithAnnotation(note(ControllerNote, args[0].Text())).
			WithAnnotation(note(TestingNote, h.Text()))
		c.replace(site, x)
	}
	return nil
}

// testingHandle returns the testing handle that the controller ctrl,
// passed to the constructor call site, was created with. The controller
// must be created inline or in a function enclosing site.
func (c *Context) testingHandle(site, ctrl *syntax.Node) (*syntax.Node, error) {
	broot := c.binder.Root()
	if c.strategy(ctrl) == strategy.NewController {
		return firstArg(ctrl)
	}
	obj, ok := c.symbol(ctrl).(*types.Var)
	if !ok {
		return nil, &Unsupported{Node: ctrl, Reason: "cannot find where controller " + ctrl.Text() + " is created"}
	}
	for _, call := range calls(broot) {
		if c.table.Select(c.binder.SymbolOf(call)) != strategy.NewController {
			continue
		}
		a, ok := assignmentOf(broot, call)
		if !ok || c.binder.SymbolOf(a.lhs) != obj {
			continue
		}
		fn := funcOf(broot, call)
		if fn == nil || !contains(fn, site) {
			continue
		}
		return firstArg(call)
	}
	return nil, &Unsupported{Node: ctrl, Reason: "controller " + ctrl.Text() + " is not created in the enclosing function"}
}

// firstArg returns the first argument of a NewController call.
func firstArg(call *syntax.Node) (*syntax.Node, error) {
	args := strategy.Args(call)
	if len(args) == 0 {
		return nil, strategy.Internal(call, "NewController called without arguments")
	}
	return args[0].Bare(), nil
}

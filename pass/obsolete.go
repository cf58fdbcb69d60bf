// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/token"
	"go/types"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Obsolete deletes gomock bookkeeping with no testify counterpart:
// deferred and cleanup-registered Finish calls, and the declarations,
// assignments, struct fields and composite literal entries of
// controllers nothing else uses.
var Obsolete = &Pass{Name: "obsolete", run: obsolete}

func obsolete(c *Context) error {
	root := c.binder.Root()
	parent := parents(root)
	dead := make(map[*syntax.Node]bool)
	var order []*syntax.Node
	kill := func(n *syntax.Node) {
		if !dead[n] {
			dead[n] = true
			order = append(order, n)
		}
	}

	for _, call := range calls(root) {
		switch {
		case c.strategy(call) == strategy.Finish:
			if d := parent[call]; d != nil && d.Kind() == syntax.DeferStmt {
				kill(d)
			}
		case strategy.Method(call) == "Cleanup":
			args := strategy.Args(call)
			if len(args) == 1 && args[0].Kind() == syntax.SelectorExpr && c.strategy(args[0]) == strategy.Finish {
				if s := exprStmt(root, call); s != nil {
					kill(s)
				}
			}
		}
	}

	fields, locals := c.controllers(root)
	for _, objs := range [][]*controller{fields, locals} {
		for _, ctl := range objs {
			if ctl.param {
				continue
			}
			live := false
			syntax.Inspect(root, func(n *syntax.Node) bool {
				if live || dead[n] {
					return false
				}
				if n.Kind() == syntax.Ident && c.binder.SymbolOf(n) == ctl.obj && !ctl.declares(n, parent) {
					live = true
				}
				return !live
			})
			if live {
				c.warnf(ctl.decls[0], "controller %s is still used", ctl.obj.Name())
				continue
			}
			for _, d := range ctl.decls {
				kill(d)
			}
		}
	}

	for _, t := range c.track(order) {
		n := c.current(t)
		if n == nil {
			continue // inside an earlier deletion
		}
		if err := c.delete(n); err != nil {
			return err
		}
	}
	return nil
}

// A controller is a variable or field holding a gomock controller.
type controller struct {
	obj   types.Object
	param bool           // a function parameter, which is kept
	decls []*syntax.Node // nodes that declare or assign it
}

// declares reports whether the identifier n lies within one of the
// declaring nodes of ctl.
func (ctl *controller) declares(n *syntax.Node, parent map[*syntax.Node]*syntax.Node) bool {
	for x := n; x != nil; x = parent[x] {
		for _, d := range ctl.decls {
			if x == d {
				return true
			}
		}
	}
	return false
}

// controllers returns the controller fields and local variables of root,
// in order of appearance.
func (c *Context) controllers(root *syntax.Node) (fields, locals []*controller) {
	byObj := make(map[types.Object]*controller)
	add := func(obj types.Object, n *syntax.Node) *controller {
		ctl := byObj[obj]
		if ctl == nil {
			ctl = &controller{obj: obj}
			byObj[obj] = ctl
			if v, ok := obj.(*types.Var); ok && v.IsField() {
				fields = append(fields, ctl)
			} else {
				locals = append(locals, ctl)
			}
		}
		if n != nil {
			ctl.decls = append(ctl.decls, n)
		}
		return ctl
	}

	// Struct fields and uninitialized local variables of controller type.
	syntax.Inspect(root, func(n *syntax.Node) bool {
		if n.Kind() == syntax.ValueSpec {
			c.controllerVar(root, n, add)
			return true
		}
		if n.Kind() != syntax.Field {
			return true
		}
		names, typ := fieldParts(n)
		if len(names) != 1 || !c.cat.IsController(c.binder.TypeOf(typ)) {
			return true
		}
		list := syntax.Parent(root, n)
		if st := syntax.Parent(root, list); st == nil || st.Kind() != syntax.StructType {
			if obj := c.binder.SymbolOf(nonTokens(n)[0]); obj != nil {
				add(obj, nil).param = true
			}
			return true
		}
		if obj := c.binder.SymbolOf(nonTokens(n)[0]); obj != nil {
			add(obj, n)
		}
		return true
	})

	// Assignments of controllers, to fields or variables.
	for _, call := range calls(root) {
		if c.table.Select(c.binder.SymbolOf(call)) != strategy.NewController {
			continue
		}
		a, ok := assignmentOf(root, call)
		if !ok {
			continue
		}
		var id *syntax.Node
		switch a.lhs.Kind() {
		case syntax.Ident:
			id = a.lhs
		case syntax.SelectorExpr:
			id = nonTokens(a.lhs)[1]
		default:
			continue
		}
		if obj := c.binder.SymbolOf(id); obj != nil {
			add(obj, a.stmt)
		}
	}

	// Composite literal entries setting controller fields.
	syntax.Inspect(root, func(n *syntax.Node) bool {
		if n.Kind() != syntax.KeyValueExpr || n.Child(0).Kind() != syntax.Ident {
			return true
		}
		if ctl := byObj[c.binder.SymbolOf(n.Child(0))]; ctl != nil && !ctl.param {
			ctl.decls = append(ctl.decls, n)
		}
		return true
	})

	var keep []*controller
	for _, ctl := range locals {
		if len(ctl.decls) > 0 || ctl.param {
			keep = append(keep, ctl)
		}
	}
	return fields, keep
}

// controllerVar records the declaration var ctrl *gomock.Controller
// within a function.
func (c *Context) controllerVar(root, spec *syntax.Node, add func(types.Object, *syntax.Node) *controller) {
	if hasComma(spec) {
		return
	}
	for _, k := range spec.Children() {
		if k.IsToken(token.ASSIGN) {
			return
		}
	}
	kids := nonTokens(spec)
	if len(kids) != 2 || !c.cat.IsController(c.binder.TypeOf(kids[1])) {
		return
	}
	gen := syntax.Parent(root, spec)
	decl := syntax.Parent(root, gen)
	if decl == nil || decl.Kind() != syntax.DeclStmt || len(syntax.Elems(gen)) > 1 {
		return
	}
	if obj := c.binder.SymbolOf(kids[0]); obj != nil {
		add(obj, decl)
	}
}

// delete removes the statement, field or composite literal entry n
// from the current tree.
func (c *Context) delete(n *syntax.Node) error {
	switch n.Kind() {
	case syntax.Field:
		list := syntax.Parent(c.root, n)
		for i, f := range syntax.Elems(list) {
			if f == n {
				c.replace(list, syntax.RemoveLine(list, i))
				return nil
			}
		}
	case syntax.KeyValueExpr:
		lit := syntax.Parent(c.root, n)
		for i, x := range syntax.Elems(lit) {
			if x == n {
				c.replace(lit, syntax.RemoveArg(lit, i))
				return nil
			}
		}
	default:
		if root, ok := removeStmt(c.root, n); ok {
			c.root = root
			return nil
		}
	}
	return strategy.Internal(n, "cannot delete %s", n.Text())
}

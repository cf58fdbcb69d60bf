// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"go/token"

	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

// Verify expands each explicit ctrl.Finish() statement into one
// m.AssertExpectations(t) statement per mock created from ctrl,
// in order of first appearance, separated by blank lines.
var Verify = &Pass{Name: "verify", run: verify}

func verify(c *Context) error {
	root := c.binder.Root()
	var sites []*syntax.Node
	for _, call := range calls(root) {
		if c.strategy(call) != strategy.Finish || strategy.Receiver(call) == nil {
			continue
		}
		if s := exprStmt(root, call); s != nil {
			sites = append(sites, s)
		}
	}
	insts := syntax.Find(root, func(n *syntax.Node) bool { return n.HasAnnotation(ControllerNote) })

	for _, t := range c.track(sites) {
		b := c.bound(t)
		call := nonTokens(b)[0]
		items, err := c.verifications(root, b, call, insts)
		if err != nil {
			if err := c.check(c.current(t), err); err != nil {
				return err
			}
			continue
		}
		stmt := c.current(t)
		list, i := stmtList(c.root, stmt)
		if list == nil {
			c.warnf(stmt, "cannot expand %s outside a statement list", call.Text())
			continue
		}
		c.replace(list, syntax.ReplaceLine(list, i, items...))
	}
	return nil
}

// verifications returns the statements verifying the mocks created
// from the controller that the Finish call in stmt finishes.
func (c *Context) verifications(root, stmt, call *syntax.Node, insts []*syntax.Node) ([]*syntax.Node, error) {
	recv := strategy.Receiver(call)
	fn := funcOf(root, stmt)
	local := recv.Kind() == syntax.Ident
	scope := outerFunc(root, fn)
	if local {
		if d := c.declaringFunc(root, recv); d != nil {
			scope = d
		}
	}
	seen := make(map[string]bool)
	var items []*syntax.Node
	for _, inst := range insts {
		if a, _ := inst.Annotation(ControllerNote); a.Data != recv.Text() {
			continue
		}
		if local && (scope == nil || !contains(scope, inst)) {
			continue
		}
		p := participant(root, inst)
		if p == "" {
			c.warnf(inst, "mock %s is not assigned to a variable or field; its expectations are not verified", inst.Text())
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		h, err := c.verifyHandle(root, fn, scope, inst)
		if err != nil {
			return nil, err
		}
		x, err := syntax.ParseExpr(p)
		if err != nil {
			return nil, strategy.Internal(inst, "bad participant %s: %v", p, err)
		}
		env := c.env()
		env.Participant = x
		env.T = h
		v, err := strategy.Finish.Rewrite(env, call)
		if err != nil {
			return nil, err
		}
		item := syntax.NewNode(syntax.ExprStmt, v.Bare())
		if len(items) > 0 {
			item = item.WithLeading(blankLine())
		}
		items = append(items, item)
	}
	return items, nil
}

// participant returns the expression holding the mock created by inst:
// the variable or field it is assigned to, or the field of the
// assigned composite literal it initializes. It returns "" if there is
// none.
func participant(root, inst *syntax.Node) string {
	if a, ok := assignmentOf(root, inst); ok {
		if isIdent(a.lhs, "_") {
			return ""
		}
		return a.lhs.Text()
	}
	kv := syntax.Parent(root, inst)
	if kv == nil || kv.Kind() != syntax.KeyValueExpr || kv.Child(0).Kind() != syntax.Ident {
		return ""
	}
	lit := syntax.Parent(root, kv)
	if lit == nil || lit.Kind() != syntax.CompositeLit {
		return ""
	}
	holder := lit
	if p := syntax.Parent(root, lit); p != nil && p.Kind() == syntax.UnaryExpr && p.Child(0).IsToken(token.AND) {
		holder = p
	}
	a, ok := assignmentOf(root, holder)
	if !ok || isIdent(a.lhs, "_") {
		return ""
	}
	return a.lhs.Text() + "." + kv.Child(0).Name()
}

// verifyHandle returns the testing handle with which to verify the mock
// created by inst from within the function fn, nested in scope.
func (c *Context) verifyHandle(root, fn, scope, inst *syntax.Node) (*syntax.Node, error) {
	a, _ := inst.Annotation(TestingNote)
	h, err := syntax.ParseExpr(a.Data)
	if err != nil {
		return nil, strategy.Internal(inst, "bad testing handle %q: %v", a.Data, err)
	}
	if scope != nil && contains(scope, inst) {
		return h, nil
	}
	if name := c.testingParam(fn); name != "" {
		return ident(name), nil
	}
	// A method of the same receiver can reach a handle derived from it,
	// such as s.T() in a test suite.
	if r := recvName(ancestor(root, inst, syntax.FuncDecl)); r != "" && r == recvName(outerFunc(root, fn)) && rootIdent(h) == r {
		return h, nil
	}
	return nil, &Unsupported{Node: inst, Reason: "cannot find testing handle to verify " + participant(root, inst)}
}

// declaringFunc returns the function in which the controller variable
// ctrl is assigned, or nil.
func (c *Context) declaringFunc(root, ctrl *syntax.Node) *syntax.Node {
	obj := c.binder.SymbolOf(ctrl)
	if obj == nil {
		return nil
	}
	for _, call := range calls(root) {
		if c.table.Select(c.binder.SymbolOf(call)) != strategy.NewController {
			continue
		}
		if a, ok := assignmentOf(root, call); ok && c.binder.SymbolOf(a.lhs) == obj {
			return funcOf(root, call)
		}
	}
	return nil
}

// outerFunc returns the function declaration that is or encloses fn.
func outerFunc(root, fn *syntax.Node) *syntax.Node {
	if fn == nil || fn.Kind() == syntax.FuncDecl {
		return fn
	}
	return ancestor(root, fn, syntax.FuncDecl)
}

// testingParam returns the name of fn's *testing.T, *testing.B or
// testing.TB parameter, or "".
func (c *Context) testingParam(fn *syntax.Node) string {
	if fn == nil {
		return ""
	}
	for _, k := range fn.Children() {
		if k.Kind() != syntax.FuncType {
			continue
		}
		for _, list := range k.Children() {
			if list.Kind() != syntax.FieldList {
				continue
			}
			for _, f := range syntax.Elems(list) {
				names, typ := fieldParts(f)
				if len(names) > 0 && isTestingT(c.binder.TypeOf(typ)) && names[0] != "_" {
					return names[0]
				}
			}
		}
	}
	return ""
}

// recvName returns the receiver name of the method declaration fn, or "".
func recvName(fn *syntax.Node) string {
	if fn == nil || fn.Kind() != syntax.FuncDecl {
		return ""
	}
	for _, k := range fn.Children() {
		switch k.Kind() {
		case syntax.FieldList:
			for _, f := range syntax.Elems(k) {
				if names, _ := fieldParts(f); len(names) == 1 {
					return names[0]
				}
			}
			return ""
		case syntax.Ident, syntax.FuncType:
			return ""
		}
	}
	return ""
}

// fieldParts returns the names and type of the field f.
func fieldParts(f *syntax.Node) (names []string, typ *syntax.Node) {
	kids := nonTokens(f)
	for i, k := range kids {
		if k.Kind() == syntax.BasicLit && i == len(kids)-1 && typ != nil {
			break // tag
		}
		if typ != nil {
			names = append(names, typ.Name())
		}
		typ = k
	}
	return names, typ
}

// rootIdent returns the name of the identifier an expression such as
// s.T() or s.t starts with.
func rootIdent(x *syntax.Node) string {
	for {
		switch x.Kind() {
		case syntax.Ident:
			return x.Name()
		case syntax.SelectorExpr, syntax.CallExpr, syntax.IndexExpr, syntax.ParenExpr:
			x = nonTokens(x)[0]
		default:
			return ""
		}
	}
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pass implements the rewrite passes that migrate one file
// from gomock to testify.
//
// The passes run in a fixed order over the file's syntax tree. Each pass
// starts from a freshly bound semantic model of the tree as the previous
// pass left it, collects the constructs it handles, tracks them, and then
// replaces them one by one. A construct a pass recognizes but cannot
// convert faithfully is reported as a warning and left as it was.
// Facts that a later pass needs, such as the testing handle a mock was
// created with or the parameter type an argument is matched against,
// travel between passes as annotations on the rewritten nodes.
package pass

import (
	"errors"
	"fmt"
	"go/types"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/model"
	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
	"rsc.io/mockmv/track"
)

// Errors reported by passes.
type (
	Unsupported   = strategy.Unsupported
	InternalError = strategy.InternalError
)

// A Pass is one stage of the migration of a file.
type Pass struct {
	Name string
	run  func(*Context) error
}

// All lists the passes in the order they run.
var All = []*Pass{
	Instantiation,
	Setup,
	Constraint,
	Sequence,
	Verify,
	Obsolete,
	Fields,
	Imports,
}

// Lookup returns the pass with the given name, or nil.
func Lookup(name string) *Pass {
	for _, p := range All {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// A Context holds the state of the migration of one file.
// It is not safe for concurrent use.
type Context struct {
	comp  model.Compilation
	file  *model.File
	table *strategy.Table
	cat   *catalog.Catalog
	warn  func(line int, reason string)

	mock   string // file's name for the testify mock package
	assert string // file's name for the testify assert package

	root   *syntax.Node
	binder model.Binder
	scope  *track.Scope
	index  *track.Index // of root, rebuilt when root changes
}

// NewContext returns a context for migrating the file f of comp.
// Warnings are passed to warn along with the line they refer to.
func NewContext(comp model.Compilation, f *model.File, table *strategy.Table, warn func(line int, reason string)) *Context {
	c := &Context{
		comp:  comp,
		file:  f,
		table: table,
		cat:   table.Catalog(),
		warn:  warn,
		root:  f.Root,
	}
	c.mock = packageName(f.Root, catalog.MockPath, "mock")
	c.assert = packageName(f.Root, catalog.AssertPath, "assert")
	return c
}

// Root returns the current tree of the file.
func (c *Context) Root() *syntax.Node { return c.root }

// Run binds the current tree and runs p over it.
func (c *Context) Run(p *Pass) error {
	b, err := c.comp.Bind(c.file, c.root)
	if err != nil {
		return fmt.Errorf("%s pass: %w", p.Name, err)
	}
	c.binder = b
	c.scope = track.NewScope()
	if err := p.run(c); err != nil {
		return fmt.Errorf("%s pass: %w", p.Name, err)
	}
	return nil
}

// track tracks nodes of the bound tree, returning their tracked versions.
func (c *Context) track(nodes []*syntax.Node) []*syntax.Node {
	if len(nodes) == 0 {
		return nil
	}
	var out []*syntax.Node
	c.root, out = c.scope.Track(c.root, nodes...)
	return out
}

// current returns the version of the tracked node n in the current tree.
func (c *Context) current(n *syntax.Node) *syntax.Node {
	if c.index == nil || c.index.Root() != c.root {
		c.index = track.NewIndex(c.root)
	}
	return c.index.Current(n)
}

// bound returns the version of n the binder knows: the node as it was
// when this pass tracked it, or n itself if it is not tracked.
func (c *Context) bound(n *syntax.Node) *syntax.Node {
	if s := c.scope.Start(n); s != nil {
		return s
	}
	return n
}

func (c *Context) symbol(n *syntax.Node) types.Object {
	return c.binder.SymbolOf(c.bound(n))
}

func (c *Context) typeOf(n *syntax.Node) types.Type {
	return c.binder.TypeOf(c.bound(n))
}

// strategy returns the strategy for the symbol n denotes.
func (c *Context) strategy(n *syntax.Node) strategy.Strategy {
	return c.table.Select(c.symbol(n))
}

// replace replaces old by new in the current tree.
func (c *Context) replace(old, new *syntax.Node) {
	c.root = syntax.Replace(c.root, old, new)
}

// env returns the base environment for strategies.
func (c *Context) env() *strategy.Env {
	return &strategy.Env{
		Mock:   c.mock,
		Assert: c.assert,
		TypeOf: func(n *syntax.Node) string { return c.typeString(c.typeOf(n)) },
	}
}

// Line returns the line of the node n of any of the file's trees,
// preferring its line in the original file. It returns 0 if n is not
// part of any tree the context knows.
func (c *Context) Line(n *syntax.Node) int { return c.line(n) }

// line returns the line of n, preferring its line in the original file.
func (c *Context) line(n *syntax.Node) int {
	if l := syntax.Line(c.file.Root, track.Original(n)); l > 0 {
		return l
	}
	if c.binder == nil {
		return syntax.Line(c.root, n)
	}
	if l := syntax.Line(c.binder.Root(), c.bound(n)); l > 0 {
		return l
	}
	return syntax.Line(c.root, n)
}

// warnf reports a warning about n.
func (c *Context) warnf(n *syntax.Node, format string, args ...any) {
	c.warn(c.line(n), fmt.Sprintf(format, args...))
}

// check reports an *Unsupported error as a warning about site and
// returns nil. It returns any other error unchanged.
func (c *Context) check(site *syntax.Node, err error) error {
	var u *Unsupported
	if errors.As(err, &u) {
		c.warn(c.line(site), u.Reason)
		return nil
	}
	return err
}

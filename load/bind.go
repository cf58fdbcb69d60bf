// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"
	"sync"

	"golang.org/x/tools/go/ast/astutil"
	"rsc.io/mockmv/model"
	"rsc.io/mockmv/syntax"
)

// A compilation is a type-checkable set of files
// together with the packages it depends on.
type compilation struct {
	path  string
	gomod string
	files []*model.File
	imp   types.Importer
	deps  map[string]*types.Package
	mu    *sync.Mutex // if non-nil, serializes use of imp
}

func (c *compilation) Path() string         { return c.path }
func (c *compilation) Files() []*model.File { return c.files }
func (c *compilation) GoMod() string        { return c.gomod }

func (c *compilation) Lookup(pkgPath, name string) types.Object {
	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	p := c.deps[pkgPath]
	if p == nil {
		return nil
	}
	return p.Scope().Lookup(name)
}

func (c *compilation) Bind(f *model.File, root *syntax.Node) (model.Binder, error) {
	fset := token.NewFileSet()
	var files []*ast.File
	var target *ast.File
	for _, g := range c.files {
		src := g.Src
		if g == f {
			src = []byte(root.String())
		}
		af, err := parser.ParseFile(fset, g.Path, src, 0)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", g.Path, err)
		}
		if g == f {
			target = af
		}
		files = append(files, af)
	}
	if target == nil {
		return nil, fmt.Errorf("binding %s: file not in %s", f.Path, c.path)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
		Instances:  make(map[*ast.Ident]types.Instance),
	}
	conf := &types.Config{
		Importer: c.imp,
		// Intermediate rewrites need not type-check.
		Error: func(error) {},
	}
	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	pkg, _ := conf.Check(c.path, fset, files, info)
	return newBinder(root, fset.File(target.Pos()), target, pkg, info), nil
}

type span struct {
	start, end int
}

type astKey struct {
	span
	kind syntax.Kind
}

// A binder maps the nodes of a syntax tree to the go/ast nodes
// parsed from the same text, and those to type information.
type binder struct {
	root  *syntax.Node
	tf    *token.File
	file  *ast.File
	pkg   *types.Package
	info  *types.Info
	spans map[*syntax.Node]span
	nodes map[astKey]ast.Node
}

func newBinder(root *syntax.Node, tf *token.File, file *ast.File, pkg *types.Package, info *types.Info) *binder {
	b := &binder{
		root:  root,
		tf:    tf,
		file:  file,
		pkg:   pkg,
		info:  info,
		spans: make(map[*syntax.Node]span),
		nodes: make(map[astKey]ast.Node),
	}
	b.index(root, 0)
	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case nil, *ast.CommentGroup, *ast.Comment:
			return false
		case *ast.FuncDecl:
			// The syntax tree starts a declared function's type at its parameters.
			start := n.Type.Params.Pos()
			if n.Type.TypeParams != nil {
				start = n.Type.TypeParams.Pos()
			}
			b.add(n.Type, start)
		}
		b.add(n, n.Pos())
		return true
	})
	return b
}

func (b *binder) add(n ast.Node, start token.Pos) {
	k := astKey{span{b.tf.Offset(start), b.tf.Offset(n.End())}, syntax.KindOf(n)}
	if _, ok := b.nodes[k]; !ok {
		b.nodes[k] = n
	}
}

// index records the span of n and its descendants, excluding outer trivia,
// given that n begins at offset off.
func (b *binder) index(n *syntax.Node, off int) (start, end int, ok bool) {
	if n.Kind() == syntax.Token {
		start = off + len(n.Leading().String())
		return start, start + len(n.Text()), true
	}
	for _, k := range n.Children() {
		if s, e, kok := b.index(k, off); kok {
			if !ok {
				start, ok = s, true
			}
			end = e
		}
		off += k.Len()
	}
	if ok {
		b.spans[n] = span{start, end}
	}
	return start, end, ok
}

// astOf returns the go/ast node corresponding to n, or nil.
func (b *binder) astOf(n *syntax.Node) ast.Node {
	sp, ok := b.spans[n]
	if !ok {
		return nil
	}
	return b.nodes[astKey{sp, n.Kind()}]
}

func (b *binder) Root() *syntax.Node       { return b.root }
func (b *binder) Package() *types.Package { return b.pkg }

func (b *binder) SymbolOf(n *syntax.Node) types.Object {
	return b.objectOf(b.astOf(n))
}

func (b *binder) objectOf(x ast.Node) types.Object {
	switch x := x.(type) {
	case *ast.Ident:
		if obj := b.info.Uses[x]; obj != nil {
			return obj
		}
		return b.info.Defs[x]
	case *ast.SelectorExpr:
		return b.info.Uses[x.Sel]
	case *ast.ParenExpr:
		return b.objectOf(x.X)
	case *ast.StarExpr:
		return b.objectOf(x.X)
	case *ast.CallExpr:
		return b.objectOf(x.Fun)
	case *ast.IndexExpr:
		return generic(b.objectOf(x.X))
	case *ast.IndexListExpr:
		return generic(b.objectOf(x.X))
	}
	return nil
}

// generic returns obj if it can be instantiated, and nil otherwise.
func generic(obj types.Object) types.Object {
	switch obj.(type) {
	case *types.Func, *types.TypeName:
		return obj
	}
	return nil
}

func (b *binder) TypeOf(n *syntax.Node) types.Type {
	if x, ok := b.astOf(n).(ast.Expr); ok {
		return b.info.TypeOf(x)
	}
	return nil
}

func (b *binder) Selection(n *syntax.Node) *types.Selection {
	if x, ok := b.astOf(n).(*ast.SelectorExpr); ok {
		return b.info.Selections[x]
	}
	return nil
}

func (b *binder) MembersOf(t types.Type, name string) types.Object {
	obj, _, _ := types.LookupFieldOrMethod(t, true, b.pkg, name)
	return obj
}

func (b *binder) Qualifier() types.Qualifier {
	return func(p *types.Package) string {
		if p == b.pkg {
			return ""
		}
		for _, imp := range b.file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil || path != p.Path() {
				continue
			}
			if imp.Name != nil {
				if imp.Name.Name == "." {
					return ""
				}
				return imp.Name.Name
			}
			break
		}
		return p.Name()
	}
}

func (b *binder) Scope(n *syntax.Node) *types.Scope {
	sp, ok := b.spans[n]
	if !ok {
		return b.pkg.Scope()
	}
	if s := b.pkg.Scope().Innermost(b.tf.Pos(sp.start)); s != nil {
		return s
	}
	return b.pkg.Scope()
}

func (b *binder) UsesImport(path string) bool {
	return astutil.UsesImport(b.file, path)
}

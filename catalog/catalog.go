// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog resolves the gomock API symbols a compilation can refer to.
//
// A Catalog is built once per compilation. Its grouped member sets are
// computed on first use and never change afterward, so a Catalog may be
// shared by goroutines rewriting different files of the compilation.
package catalog

import (
	"errors"
	"fmt"
	"go/types"
	"sort"
	"strings"
	"sync"

	"rsc.io/mockmv/model"
)

// Import paths of the libraries involved in a migration.
const (
	GomockPath       = "go.uber.org/mock/gomock"
	LegacyGomockPath = "github.com/golang/mock/gomock"
	MockPath         = "github.com/stretchr/testify/mock"
	AssertPath       = "github.com/stretchr/testify/assert"
)

// ErrNoSource is returned by New when a compilation cannot refer to
// the gomock types every migration depends on.
var ErrNoSource = errors.New("gomock is not used")

// A Member is a named object in one of the catalog's groups.
type Member struct {
	Name string
	Obj  types.Object
}

// A Catalog holds the gomock symbols of one compilation.
type Catalog struct {
	pkg    *types.Package // primary gomock package
	legacy *types.Package // legacy gomock package, when both are present

	Controller *types.TypeName
	Call       *types.TypeName
	Matcher    *types.TypeName

	matchers    group
	modifiers   group
	controller  group
	aliasesOnce sync.Once
	aliases     map[types.Object]types.Object
}

type group struct {
	once sync.Once
	list []Member
}

func (g *group) get(f func() []Member) []Member {
	g.once.Do(func() {
		g.list = f()
		sort.Slice(g.list, func(i, j int) bool { return g.list[i].Name < g.list[j].Name })
	})
	return g.list
}

// New returns the catalog for the compilation c.
// If c does not depend on gomock, or gomock lacks one of the
// foundational types Controller, Call and Matcher, New returns
// an error wrapping ErrNoSource.
func New(c model.Compilation) (*Catalog, error) {
	cat := &Catalog{}
	for _, path := range []string{GomockPath, LegacyGomockPath} {
		obj := c.Lookup(path, "Controller")
		if obj == nil {
			continue
		}
		if cat.pkg == nil {
			cat.pkg = obj.Pkg()
		} else {
			cat.legacy = obj.Pkg()
		}
	}
	if cat.pkg == nil {
		return nil, fmt.Errorf("%s: %w", c.Path(), ErrNoSource)
	}
	for _, t := range []struct {
		name string
		dst  **types.TypeName
	}{
		{"Controller", &cat.Controller},
		{"Call", &cat.Call},
		{"Matcher", &cat.Matcher},
	} {
		tn, ok := cat.pkg.Scope().Lookup(t.name).(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("%s: %s.%s not found: %w", c.Path(), cat.pkg.Path(), t.name, ErrNoSource)
		}
		*t.dst = tn
	}
	return cat, nil
}

// Path returns the import path of the primary gomock package.
func (c *Catalog) Path() string { return c.pkg.Path() }

// Paths returns the import paths of all gomock packages in use.
func (c *Catalog) Paths() []string {
	if c.legacy != nil {
		return []string{c.pkg.Path(), c.legacy.Path()}
	}
	return []string{c.pkg.Path()}
}

// Resolve returns the gomock object with the given name, which is either
// a package-level name like "InOrder" or a type and method like "Call.Times".
func (c *Catalog) Resolve(name string) (types.Object, error) {
	typ, method, ok := strings.Cut(name, ".")
	obj := c.pkg.Scope().Lookup(typ)
	if obj == nil {
		return nil, fmt.Errorf("%s.%s not found", c.pkg.Path(), typ)
	}
	if !ok {
		return obj, nil
	}
	m, _, _ := types.LookupFieldOrMethod(types.NewPointer(obj.Type()), true, c.pkg, method)
	if m == nil {
		return nil, fmt.Errorf("%s.%s not found", c.pkg.Path(), name)
	}
	return m, nil
}

// Matchers returns the matcher constructors:
// the package-level functions returning a Matcher.
func (c *Catalog) Matchers() []Member {
	return c.matchers.get(func() []Member {
		var list []Member
		scope := c.pkg.Scope()
		for _, name := range scope.Names() {
			fn, ok := scope.Lookup(name).(*types.Func)
			if !ok || !fn.Exported() {
				continue
			}
			res := fn.Type().(*types.Signature).Results()
			if res.Len() == 1 && types.Identical(res.At(0).Type(), c.Matcher.Type()) {
				list = append(list, Member{name, fn})
			}
		}
		return list
	})
}

// Modifiers returns the methods of *Call.
func (c *Catalog) Modifiers() []Member {
	return c.modifiers.get(func() []Member {
		return methods(c.Call.Type())
	})
}

// ControllerMethods returns the methods of *Controller.
func (c *Catalog) ControllerMethods() []Member {
	return c.controller.get(func() []Member {
		return methods(c.Controller.Type())
	})
}

func methods(t types.Type) []Member {
	var list []Member
	ms := types.NewMethodSet(types.NewPointer(t))
	for i := 0; i < ms.Len(); i++ {
		obj := ms.At(i).Obj()
		if obj.Exported() {
			list = append(list, Member{obj.Name(), obj})
		}
	}
	return list
}

// Lookup returns the object with the given name in list, or nil.
func Lookup(list []Member, name string) types.Object {
	for _, m := range list {
		if m.Name == name {
			return m.Obj
		}
	}
	return nil
}

// LegacyAliases maps the objects of the legacy gomock package to the
// objects of the same name in the primary package. It is empty unless
// the compilation uses both.
func (c *Catalog) LegacyAliases() map[types.Object]types.Object {
	c.aliasesOnce.Do(func() {
		c.aliases = make(map[types.Object]types.Object)
		if c.legacy == nil {
			return
		}
		ls, ps := c.legacy.Scope(), c.pkg.Scope()
		for _, name := range ls.Names() {
			lobj, pobj := ls.Lookup(name), ps.Lookup(name)
			if pobj == nil {
				continue
			}
			c.aliases[lobj] = pobj
			if _, ok := lobj.(*types.TypeName); ok {
				for _, m := range methods(lobj.Type()) {
					if pm, _, _ := types.LookupFieldOrMethod(types.NewPointer(pobj.Type()), true, c.pkg, m.Name); pm != nil {
						c.aliases[m.Obj] = pm
					}
				}
			}
		}
	})
	return c.aliases
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"go/types"
)

// Canonical returns the normalized form of obj used to compare symbols:
// members of generic instantiations are replaced by their generic origin,
// methods of typed call wrappers by the corresponding *Call method, and
// legacy gomock objects by their primary counterparts.
func (c *Catalog) Canonical(obj types.Object) types.Object {
	switch o := obj.(type) {
	case nil:
		return nil
	case *types.Func:
		o = o.Origin()
		if recv := o.Type().(*types.Signature).Recv(); recv != nil && c.IsTypedWrapper(recv.Type()) {
			if m := c.callMethod(o.Name()); m != nil {
				return m
			}
		}
		obj = o
	case *types.Var:
		obj = o.Origin()
	}
	if p, ok := c.LegacyAliases()[obj]; ok {
		return p
	}
	return obj
}

func (c *Catalog) callMethod(name string) types.Object {
	return Lookup(c.Modifiers(), name)
}

// named returns the named type t or *t refers to, or nil.
func named(t types.Type) *types.Named {
	if t == nil {
		return nil
	}
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}
	n, _ := t.(*types.Named)
	return n
}

// is reports whether t is tn or a pointer to it, in either gomock package.
func (c *Catalog) is(t types.Type, tn *types.TypeName) bool {
	n := named(t)
	if n == nil {
		return false
	}
	obj := n.Obj()
	if obj == tn {
		return true
	}
	return c.LegacyAliases()[obj] == tn
}

// IsController reports whether t is gomock.Controller or a pointer to it.
func (c *Catalog) IsController(t types.Type) bool { return c.is(t, c.Controller) }

// IsMatcher reports whether t is gomock.Matcher.
func (c *Catalog) IsMatcher(t types.Type) bool { return c.is(t, c.Matcher) }

// IsCall reports whether t is a gomock.Call, a typed call wrapper,
// or a pointer to one.
func (c *Catalog) IsCall(t types.Type) bool {
	return c.is(t, c.Call) || c.IsTypedWrapper(t)
}

// IsTypedWrapper reports whether t is, or points to, a struct type
// embedding *gomock.Call, as generated by mockgen -typed.
func (c *Catalog) IsTypedWrapper(t types.Type) bool {
	n := named(t)
	if n == nil {
		return false
	}
	st, ok := n.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() && c.is(f.Type(), c.Call) {
			if _, ok := f.Type().(*types.Pointer); ok {
				return true
			}
		}
	}
	return false
}

// IsMockType reports whether t is, or points to, a generated mock:
// a type with an EXPECT method returning a recorder.
func (c *Catalog) IsMockType(t types.Type) bool {
	n := named(t)
	if n == nil {
		return false
	}
	m, _, _ := types.LookupFieldOrMethod(types.NewPointer(n), true, n.Obj().Pkg(), "EXPECT")
	fn, ok := m.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1 && named(sig.Results().At(0).Type()) != nil
}

// mockOf returns the mock type a recorder records for, or nil.
func (c *Catalog) mockOf(t types.Type) types.Type {
	n := named(t)
	if n == nil {
		return nil
	}
	st, ok := n.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	for i := 0; i < st.NumFields(); i++ {
		if f := st.Field(i); f.Name() == "mock" && c.IsMockType(f.Type()) {
			return f.Type()
		}
	}
	return nil
}

// IsRecorder reports whether t is, or points to, a generated recorder:
// a struct with a field mock holding a generated mock.
func (c *Catalog) IsRecorder(t types.Type) bool {
	return c.mockOf(t) != nil
}

// MockConstructor reports whether obj is a generated mock constructor:
// a function NewMockX, declared beside the mock MockX it returns,
// taking a *gomock.Controller.
func (c *Catalog) MockConstructor(obj types.Object) bool {
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	if sig.Recv() != nil || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	pt := sig.Params().At(0).Type()
	if _, ok := pt.(*types.Pointer); !ok || !c.IsController(pt) {
		return false
	}
	rt := sig.Results().At(0).Type()
	if !c.IsMockType(rt) {
		return false
	}
	mock := named(rt).Obj()
	return fn.Pkg() == mock.Pkg() && fn.Name() == "New"+mock.Name()
}

// MockMethod returns the method of the mock that the recorder method m
// records calls for, or nil if m is not a recorder method or the mock
// has no such method.
func (c *Catalog) MockMethod(m types.Object) *types.Func {
	fn, ok := m.(*types.Func)
	if !ok {
		return nil
	}
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return nil
	}
	mt := c.mockOf(recv.Type())
	if mt == nil {
		return nil
	}
	obj, _, _ := types.LookupFieldOrMethod(mt, true, fn.Pkg(), fn.Name())
	real, _ := obj.(*types.Func)
	return real
}

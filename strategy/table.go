// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"go/types"

	"rsc.io/mockmv/catalog"
)

// A Table maps gomock symbols to the strategies converting their uses.
// A Table is read-only once built and may be shared across goroutines.
type Table struct {
	cat     *catalog.Catalog
	entries map[types.Object]entry
}

type entry struct {
	family   string
	strategy Strategy
}

// A family is a group of related registrations.
type family struct {
	name string
	add  func(reg func(name string, s Strategy))
}

// NewTable returns the strategy table for the gomock symbols in cat.
// Symbols that this version of gomock lacks are skipped.
// NewTable returns a *ConflictError if two families claim one symbol.
func NewTable(cat *catalog.Catalog) (*Table, error) {
	t := &Table{cat: cat, entries: make(map[types.Object]entry)}
	families := []family{
		{"controller", func(reg func(string, Strategy)) {
			reg("NewController", NewController)
			reg("Controller.Finish", Finish)
		}},
		{"modifiers", func(reg func(string, Strategy)) {
			reg("Call.Return", Return)
			reg("Call.Do", Do)
			reg("Call.DoAndReturn", DoAndReturn)
			reg("Call.SetArg", SetArg)
			reg("Call.After", After)
		}},
		{"counters", func(reg func(string, Strategy)) {
			reg("Call.Times", Times)
			reg("Call.MinTimes", MinTimes)
			reg("Call.MaxTimes", MaxTimes)
			reg("Call.AnyTimes", AnyTimes)
		}},
		{"matchers", func(reg func(string, Strategy)) {
			known := map[string]Strategy{
				"Any":                Any,
				"Eq":                 Eq,
				"Nil":                Nil,
				"Not":                Not,
				"All":                All,
				"AnyOf":              AnyOf,
				"Len":                Len,
				"AssignableToTypeOf": AssignableToTypeOf,
				"Cond":               Cond,
			}
			for _, m := range cat.Matchers() {
				if s, ok := known[m.Name]; ok {
					reg(m.Name, s)
				} else {
					reg(m.Name, Unrestatable(m.Name))
				}
			}
		}},
		{"ordering", func(reg func(string, Strategy)) {
			reg("InOrder", InOrder)
		}},
		{"types", func(reg func(string, Strategy)) {
			reg("Call", CallType)
			reg("Matcher", MatcherType)
		}},
	}
	var err error
	for _, f := range families {
		f.add(func(name string, s Strategy) {
			if err != nil {
				return
			}
			obj, rerr := cat.Resolve(name)
			if rerr != nil {
				return
			}
			obj = cat.Canonical(obj)
			if old, ok := t.entries[obj]; ok {
				err = &ConflictError{Symbol: name, First: old.family, Second: f.name}
				return
			}
			t.entries[obj] = entry{f.name, s}
		})
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Catalog returns the catalog t was built from.
func (t *Table) Catalog() *catalog.Catalog { return t.cat }

// Len returns the number of registered symbols.
func (t *Table) Len() int { return len(t.entries) }

// Select returns the strategy converting uses of obj. Select never
// returns nil: symbols it does not recognize get Passthrough.
func (t *Table) Select(obj types.Object) Strategy {
	obj = t.cat.Canonical(obj)
	if obj == nil {
		return Passthrough
	}
	if e, ok := t.entries[obj]; ok {
		return e.strategy
	}
	if t.cat.MockConstructor(obj) {
		return Instantiate
	}
	switch obj := obj.(type) {
	case *types.Func:
		if recv := obj.Type().(*types.Signature).Recv(); recv != nil && t.cat.IsRecorder(recv.Type()) {
			return Expect
		}
	case *types.TypeName:
		if t.cat.IsTypedWrapper(obj.Type()) {
			return CallType
		}
	}
	return Passthrough
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"errors"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"rsc.io/mockmv/load"
	"rsc.io/mockmv/model"
	"rsc.io/mockmv/syntax"
)

func compile(t *testing.T, path string) model.Compilation {
	t.Helper()
	a, err := txtar.ParseFile("testdata/gomock.txt")
	require.NoError(t, err)
	cs, err := load.Archive(a, path)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	return cs[0]
}

func names(list []Member) []string {
	var out []string
	for _, m := range list {
		out = append(out, m.Name)
	}
	return out
}

func TestNoSource(t *testing.T) {
	_, err := New(compile(t, "example.com/plain"))
	assert.True(t, errors.Is(err, ErrNoSource), "err = %v", err)
}

func TestGroups(t *testing.T) {
	cat, err := New(compile(t, "example.com/p"))
	require.NoError(t, err)
	assert.Equal(t, GomockPath, cat.Path())
	assert.Equal(t, []string{GomockPath}, cat.Paths())
	assert.Equal(t, "Controller", cat.Controller.Name())

	assert.Equal(t, []string{"All", "Any", "Cond", "Eq", "Len", "Nil", "Not"}, names(cat.Matchers()))
	assert.Equal(t, []string{"After", "AnyTimes", "Do", "DoAndReturn", "MaxTimes", "MinTimes", "Return", "SetArg", "Times"}, names(cat.Modifiers()))
	assert.Contains(t, names(cat.ControllerMethods()), "Finish")

	// Groups are computed once.
	m1, m2 := cat.Matchers(), cat.Matchers()
	assert.True(t, &m1[0] == &m2[0])

	times, err := cat.Resolve("Call.Times")
	require.NoError(t, err)
	assert.Same(t, Lookup(cat.Modifiers(), "Times"), times)
	inOrder, err := cat.Resolve("InOrder")
	require.NoError(t, err)
	assert.Equal(t, "InOrder", inOrder.Name())
	_, err = cat.Resolve("Call.Nope")
	assert.Error(t, err)
	assert.Empty(t, cat.LegacyAliases())
}

func TestClassify(t *testing.T) {
	c := compile(t, "example.com/p")
	cat, err := New(c)
	require.NoError(t, err)
	f := c.Files()[0]
	b, err := c.Bind(f, f.Root)
	require.NoError(t, err)

	calls := map[string]*syntax.Node{}
	syntax.Inspect(f.Root, func(n *syntax.Node) bool {
		if n.Kind() == syntax.CallExpr {
			calls[n.Text()] = n
		}
		return true
	})

	ctor := b.SymbolOf(calls["mocks.NewMockStore(ctrl)"])
	assert.True(t, cat.MockConstructor(ctor))
	assert.False(t, cat.MockConstructor(c.Lookup("example.com/mocks", "NewStore")))
	// A helper with the constructor's signature is not generated.
	assert.False(t, cat.MockConstructor(b.SymbolOf(calls["newStore(ctrl)"])))
	assert.True(t, cat.IsMockType(b.TypeOf(calls["mocks.NewMockStore(ctrl)"])))
	assert.True(t, cat.IsController(b.TypeOf(calls["gomock.NewController(nil)"])))

	expect := calls[`m.EXPECT()`]
	assert.True(t, cat.IsRecorder(b.TypeOf(expect)))
	assert.False(t, cat.IsMockType(b.TypeOf(expect)))

	get := calls[`m.EXPECT().Get("k")`]
	assert.True(t, cat.IsTypedWrapper(b.TypeOf(get)))
	assert.True(t, cat.IsCall(b.TypeOf(get)))
	real := cat.MockMethod(b.SymbolOf(get))
	require.NotNil(t, real)
	assert.Equal(t, "func(key string) (int, error)", types.TypeString(real.Type(), nil))

	// A typed wrapper's own method and a promoted one
	// both normalize to the *Call method.
	ret := b.SymbolOf(calls[`m.EXPECT().Get("k").Return(1, nil)`])
	assert.Same(t, Lookup(cat.Modifiers(), "Return"), cat.Canonical(ret))
	tm := b.SymbolOf(calls[`m.EXPECT().Get("k").Return(1, nil).Times(2)`])
	assert.Same(t, Lookup(cat.Modifiers(), "Times"), cat.Canonical(tm))
	assert.Nil(t, cat.Canonical(nil))
}

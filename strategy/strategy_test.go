// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"errors"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/layout"
	"rsc.io/mockmv/load"
	"rsc.io/mockmv/syntax"
)

func expr(t *testing.T, src string) *syntax.Node {
	t.Helper()
	x, err := syntax.ParseExpr(src)
	require.NoError(t, err)
	return x
}

// byName maps gomock matcher names to strategies for tests
// that run without type information.
var byName = map[string]Predicator{
	"Any":                Any,
	"Eq":                 Eq,
	"Nil":                Nil,
	"Not":                Not,
	"All":                All,
	"AnyOf":              AnyOf,
	"Len":                Len,
	"AssignableToTypeOf": AssignableToTypeOf,
	"Cond":               Cond,
	"Regex":              Unrestatable("Regex"),
}

// testEnv returns an Env resolving gomock.X calls by name
// and treating any other argument as a plain value.
func testEnv(param string, nilable bool) *Env {
	env := &Env{
		Mock:    "mock",
		Assert:  "assert",
		Param:   param,
		Nilable: nilable,
		T:       syntax.NewIdent("t"),
	}
	env.Predicate = func(n *syntax.Node, v string) (*syntax.Node, error) {
		if p := matcherOf(n); p != nil {
			return p.Predicate(env, n, v)
		}
		return Equals(env, n, v), nil
	}
	env.Unwrap = func(n *syntax.Node) (*syntax.Node, bool) {
		return n, n.Kind() == syntax.Ident
	}
	return env
}

func matcherOf(n *syntax.Node) Predicator {
	if n.Kind() != syntax.CallExpr {
		return nil
	}
	name, ok := strings.CutPrefix(n.Child(0).Text(), "gomock.")
	if !ok {
		return nil
	}
	return byName[name]
}

func isUnsupported(err error) bool {
	var u *Unsupported
	return errors.As(err, &u)
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		param   string
		nilable bool
		in      string
		out     string // "" for unsupported
	}{
		{"int", false, `gomock.Any()`, `mock.Anything`},
		{"int", false, `gomock.Eq(5)`, `5`},
		{"error", true, `gomock.Nil()`, `mock.MatchedBy(func(v error) bool { return v == nil })`},
		{"int", false, `gomock.Nil()`, ``},
		{"error", true, `gomock.Not(gomock.Nil())`, `mock.MatchedBy(func(v error) bool { return v != nil })`},
		{"int", false, `gomock.Not(5)`, `mock.MatchedBy(func(v int) bool { return !assert.ObjectsAreEqual(5, v) })`},
		{"int", false, `gomock.Not(v)`, `mock.MatchedBy(func(v1 int) bool { return !assert.ObjectsAreEqual(v, v1) })`},
		{"int", false, `gomock.All(gomock.Not(1), gomock.Not(2))`, `mock.MatchedBy(func(v int) bool { return !assert.ObjectsAreEqual(1, v) && !assert.ObjectsAreEqual(2, v) })`},
		{"int", false, `gomock.AnyOf(1, gomock.Eq(2))`, `mock.MatchedBy(func(v int) bool { return assert.ObjectsAreEqual(1, v) || assert.ObjectsAreEqual(2, v) })`},
		{"int", false, `gomock.All(gomock.AnyOf(1, 2), gomock.Any())`, `mock.MatchedBy(func(v int) bool { return (assert.ObjectsAreEqual(1, v) || assert.ObjectsAreEqual(2, v)) && true })`},
		{"[]int", false, `gomock.Len(2)`, `mock.MatchedBy(func(v []int) bool { return len(v) == 2 })`},
		{"[]int", false, `gomock.Not(gomock.Len(2))`, `mock.MatchedBy(func(v []int) bool { return len(v) != 2 })`},
		{"", false, `gomock.Len(2)`, ``},
		{"int", false, `gomock.AssignableToTypeOf(0)`, `mock.IsType(0)`},
		{"int", false, `gomock.Not(gomock.AssignableToTypeOf(0))`, ``},
		{"int", false, `gomock.Cond(func(x int) bool { return x > 0 })`, `mock.MatchedBy(func(x int) bool { return x > 0 })`},
		{"int", false, `gomock.Cond(func(x any) bool { return x != nil })`, `mock.MatchedBy(func(x any) bool { return x != nil })`},
		{"int", false, `gomock.Cond(func(x string) bool { return x != "" })`, ``},
		{"int", false, `gomock.Not(gomock.Cond(pos))`, `mock.MatchedBy(func(v int) bool { return !pos(v) })`},
		{"string", false, `gomock.Regex("a+")`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n := expr(t, tt.in)
			out, err := matcherOf(n).Rewrite(testEnv(tt.param, tt.nilable), n)
			if tt.out == "" {
				assert.True(t, isUnsupported(err), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, out.String())
		})
	}
}

func TestCustomMatcher(t *testing.T) {
	n := expr(t, `evenMatcher{}`)
	out, err := Custom.Rewrite(testEnv("int", false), n)
	require.NoError(t, err)
	assert.Equal(t, `mock.MatchedBy(func(v int) bool { return evenMatcher{}.Matches(v) })`, out.String())

	p, err := Custom.Predicate(testEnv("int", false), expr(t, `*m`), "x")
	require.NoError(t, err)
	assert.Equal(t, `(*m).Matches(x)`, p.String())
}

func TestImportNotes(t *testing.T) {
	paths := func(n *syntax.Node) []string {
		var list []string
		syntax.Inspect(n, func(x *syntax.Node) bool {
			for _, a := range x.Annotations(ImportNote) {
				list = append(list, a.Data)
			}
			return true
		})
		return list
	}
	n := expr(t, `gomock.Not(5)`)
	out, err := Not.Rewrite(testEnv("int", false), n)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{catalog.MockPath, catalog.AssertPath}, paths(out))

	n = expr(t, `gomock.Call`)
	out, err = CallType.Rewrite(testEnv("", false), n)
	require.NoError(t, err)
	assert.Equal(t, "mock.Call", out.String())
	assert.Equal(t, []string{catalog.MockPath}, paths(out))
}

func format(t *testing.T, n *syntax.Node) string {
	t.Helper()
	out, err := layout.Format(n)
	require.NoError(t, err)
	return out.String()
}

func TestModifiers(t *testing.T) {
	tests := []struct {
		s      Strategy
		params []string
		in     string
		out    string // "" for unsupported
	}{
		{Return, nil, `c.Return(1, nil)`, `c.Return(1, nil)`},
		{DoAndReturn, nil, `c.DoAndReturn(func(k string) int { return len(k) })`, `c.Return(func(k string) int { return len(k) })`},
		{After, nil, `c2.After(c1)`, `c2.NotBefore(c1)`},
		{After, nil, `c2.After(calls[0])`, ``},
		{
			Do, nil,
			"c.Do(func(key string, n int) {\n\tuse(key, n)\n})",
			"c.Run(func(args mock.Arguments) {\n\tkey := args.Get(0).(string)\n\tn := args.Get(1).(int)\n\tuse(key, n)\n})",
		},
		{
			Do, nil,
			"c.Do(func(_ context.Context, format string, args ...any) { log(format, args...) })",
			"c.Run(func(args1 mock.Arguments) {\n\tformat := args1.Get(1).(string)\n\targs := []any(args1[2:])\n\tlog(format, args...)\n})",
		},
		{
			Do, nil,
			"c.Do(func(prefix string, limit ...int) { use(limit) })",
			"c.Run(func(args mock.Arguments) {\n\tvar limit []int\n\tfor _, v := range args[1:] {\n\t\tlimit = append(limit, v.(int))\n\t}\n\tuse(limit)\n})",
		},
		{Do, nil, `c.Do(func(k string) int { return 0 })`, ``},
		{
			Do, []string{"string", "int"},
			`c.Do(record)`,
			"c.Run(func(args mock.Arguments) {\n\trecord(args.Get(0).(string), args.Get(1).(int))\n})",
		},
		{Do, nil, `c.Do(record)`, ``},
		{
			SetArg, []string{"context.Context", "*int"},
			`c.SetArg(1, 5)`,
			"c.Run(func(args mock.Arguments) {\n\t*args.Get(1).(*int) = 5\n})",
		},
		{SetArg, []string{"int"}, `c.SetArg(0, 5)`, ``},
		{SetArg, []string{"*int"}, `c.SetArg(i, 5)`, ``},
		{Times, nil, `c.Times(1)`, `c.Once()`},
		{Times, nil, `c.Times(2)`, `c.Twice()`},
		{Times, nil, `c.Times(n)`, `c.Times(n)`},
		{Times, nil, `c.Times(0)`, ``},
		{AnyTimes, nil, `c.AnyTimes()`, `c.Maybe()`},
		{MinTimes, nil, `c.MinTimes(2)`, ``},
		{MaxTimes, nil, `c.MaxTimes(2)`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			env := testEnv("", false)
			env.Params = tt.params
			n := expr(t, tt.in)
			out, err := tt.s.Rewrite(env, n)
			if tt.out == "" {
				assert.True(t, isUnsupported(err), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, format(t, out))
		})
	}
}

func TestDoVariadic(t *testing.T) {
	env := testEnv("", false)
	env.Params = []string{"string", "[]int"}
	env.Variadic = true
	out, err := Do.Rewrite(env, expr(t, `c.Do(record)`))
	require.NoError(t, err)
	assert.Equal(t, "c.Run(func(args mock.Arguments) {\n\tvar rest []int\n\tfor _, v := range args[1:] {\n\t\trest = append(rest, v.(int))\n\t}\n\trecord(args.Get(0).(string), rest...)\n})", format(t, out))

	env.Params = []string{"string", "[]any"}
	out, err = Do.Rewrite(env, expr(t, `c.Do(record)`))
	require.NoError(t, err)
	assert.Equal(t, "c.Run(func(args mock.Arguments) {\n\trest := []any(args[1:])\n\trecord(args.Get(0).(string), rest...)\n})", format(t, out))
}

func TestInternalError(t *testing.T) {
	_, err := DoAndReturn.Rewrite(testEnv("", false), expr(t, `c.DoAndReturn()`))
	var ie *InternalError
	require.True(t, errors.As(err, &ie), "err = %v", err)
	assert.Contains(t, err.Error(), "DoAndReturn called with 0 arguments")
	assert.Equal(t, "c.DoAndReturn()", ie.Node.String())
}

func TestCount(t *testing.T) {
	counters := map[string]Counter{
		"Times":    Times,
		"MinTimes": MinTimes,
		"MaxTimes": MaxTimes,
		"AnyTimes": AnyTimes,
	}
	tests := []struct {
		mods []string
		out  string // "" for unsupported
	}{
		{nil, `m.On("Get").Once()`},
		{[]string{"Times(1)"}, `m.On("Get").Once()`},
		{[]string{"Times(2)"}, `m.On("Get").Twice()`},
		{[]string{"Times(3)"}, `m.On("Get").Times(3)`},
		{[]string{"Times(n)"}, `m.On("Get").Times(n)`},
		{[]string{"AnyTimes()"}, `m.On("Get").Maybe()`},
		{[]string{"MinTimes(0)"}, `m.On("Get").Maybe()`},
		{[]string{"MinTimes(1)"}, `m.On("Get")`},
		{[]string{"MinTimes(n)"}, `m.On("Get")`},
		{[]string{"MinTimes(2)"}, ``},
		{[]string{"MaxTimes(3)"}, ``},
		{[]string{"MinTimes(2)", "MaxTimes(2)"}, `m.On("Get").Twice()`},
		{[]string{"MaxTimes(5)", "MinTimes(5)"}, `m.On("Get").Times(5)`},
		{[]string{"Times(3)", "AnyTimes()"}, `m.On("Get").Maybe()`},
		{[]string{"AnyTimes()", "Times(1)"}, `m.On("Get").Once()`},
		{[]string{"MinTimes(n)", "MaxTimes(m)"}, ``},
		{[]string{"Times(0)"}, ``},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.mods, "."), func(t *testing.T) {
			c := DefaultCount
			for _, m := range tt.mods {
				n := expr(t, "c."+m)
				var err error
				c, err = counters[Method(n)].Count(c, n)
				require.NoError(t, err)
			}
			out, err := c.Apply(expr(t, `m.On("Get")`))
			if tt.out == "" {
				assert.True(t, isUnsupported(err), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, out.String())
		})
	}
}

func TestApplyKeepsLineBreaks(t *testing.T) {
	x := expr(t, "m.On(\"Get\").\n\tReturn(1)")
	c, err := Times.Count(DefaultCount, expr(t, "c.Times(3)"))
	require.NoError(t, err)
	out, err := c.Apply(x)
	require.NoError(t, err)
	assert.Equal(t, "m.On(\"Get\").\n\tReturn(1).\n\tTimes(3)", out.String())
}

func TestExpectations(t *testing.T) {
	env := testEnv("", false)
	env.Participant = syntax.NewIdent("store")
	tests := []struct {
		s   Strategy
		in  string
		out string // "" for unsupported, "-" for deleted
	}{
		{Expect, `m.EXPECT().Get("k", 1)`, `m.On("Get", "k", 1)`},
		{Expect, `m.EXPECT().Close()`, `m.On("Close")`},
		{Expect, `rec.Get(1)`, ``},
		{Instantiate, `mocks.NewMockStore(ctrl)`, `mocks.NewMockStore(t)`},
		{Finish, `ctrl.Finish()`, `store.AssertExpectations(t)`},
		{NewController, `gomock.NewController(t)`, `-`},
		{InOrder, `gomock.InOrder(first, second)`, `mock.InOrder(first, second)`},
		{InOrder, `gomock.InOrder(first, m.EXPECT().Get())`, ``},
		{MatcherType, `gomock.Matcher`, `any`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := tt.s.Rewrite(env, expr(t, tt.in))
			switch tt.out {
			case "":
				assert.True(t, isUnsupported(err), "err = %v", err)
			case "-":
				require.NoError(t, err)
				assert.Nil(t, out)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.out, out.String())
			}
		})
	}

	env.T = nil
	_, err := Instantiate.Rewrite(env, expr(t, `mocks.NewMockStore(ctrl)`))
	assert.True(t, isUnsupported(err), "err = %v", err)
}

func TestFresh(t *testing.T) {
	n := expr(t, `f(v, v1, args)`)
	assert.Equal(t, "v2", Fresh(n, "v"))
	assert.Equal(t, "args1", Fresh(n, "args"))
	assert.Equal(t, "x", Fresh(n, "x"))
}

func TestTable(t *testing.T) {
	a, err := txtar.ParseFile("../catalog/testdata/gomock.txt")
	require.NoError(t, err)
	cs, err := load.Archive(a, "example.com/p")
	require.NoError(t, err)
	c := cs[0]
	cat, err := catalog.New(c)
	require.NoError(t, err)
	tab, err := NewTable(cat)
	require.NoError(t, err)
	assert.Same(t, cat, tab.Catalog())

	resolve := func(name string) types.Object {
		obj, err := cat.Resolve(name)
		require.NoError(t, err)
		return obj
	}
	assert.Equal(t, Eq, tab.Select(resolve("Eq")))
	assert.Equal(t, Cond, tab.Select(resolve("Cond")))
	assert.Equal(t, Times, tab.Select(resolve("Call.Times")))
	assert.Equal(t, Do, tab.Select(resolve("Call.Do")))
	assert.Equal(t, Finish, tab.Select(resolve("Controller.Finish")))
	assert.Equal(t, NewController, tab.Select(resolve("NewController")))
	assert.Equal(t, InOrder, tab.Select(resolve("InOrder")))
	assert.Equal(t, CallType, tab.Select(resolve("Call")))
	assert.Equal(t, MatcherType, tab.Select(resolve("Matcher")))
	assert.Equal(t, Passthrough, tab.Select(resolve("Controller.RecordCall")))
	assert.Equal(t, Passthrough, tab.Select(nil))

	// Generated code is recognized by shape.
	assert.Equal(t, Instantiate, tab.Select(c.Lookup("example.com/mocks", "NewMockStore")))
	assert.Equal(t, Passthrough, tab.Select(c.Lookup("example.com/mocks", "NewStore")))
	assert.Equal(t, CallType, tab.Select(c.Lookup("example.com/mocks", "MockStoreGetCall")))
	rec := c.Lookup("example.com/mocks", "MockStoreMockRecorder")
	get, _, _ := types.LookupFieldOrMethod(types.NewPointer(rec.Type()), true, rec.Pkg(), "Get")
	assert.Equal(t, Expect, tab.Select(get))
	wrapper := c.Lookup("example.com/mocks", "MockStoreGetCall")
	ret, _, _ := types.LookupFieldOrMethod(types.NewPointer(wrapper.Type()), true, wrapper.Pkg(), "Return")
	assert.Equal(t, Return, tab.Select(ret))

	// Select is total over the gomock package.
	scope := resolve("Call").Pkg().Scope()
	for _, name := range scope.Names() {
		assert.NotNil(t, tab.Select(scope.Lookup(name)), "%s", name)
	}
}

func TestConflict(t *testing.T) {
	err := error(&ConflictError{Symbol: "Call.Times", First: "modifiers", Second: "counters"})
	assert.EqualError(t, err, "Call.Times registered by both modifiers and counters")
}

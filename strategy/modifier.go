// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"fmt"
	"go/token"
	"strings"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/layout"
	"rsc.io/mockmv/syntax"
)

// Strategies for the methods of *gomock.Call.
var (
	Return      Strategy = keepModifier{"Return"}
	DoAndReturn Strategy = doAndReturn{}
	Do          Strategy = do{}
	SetArg      Strategy = setArg{}
	After       Strategy = after{}

	Times    Counter = times{}
	MinTimes Counter = minTimes{}
	MaxTimes Counter = maxTimes{}
	AnyTimes Counter = anyTimes{}
)

// keepModifier leaves a modifier that means the same in both libraries.
type keepModifier struct {
	name string
}

func (m keepModifier) Name() string { return m.name }

func (keepModifier) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) { return n, nil }

// doAndReturn rewrites DoAndReturn(f) to Return(f): testify mocks
// generated by mockery call a returned function of the method's type.
type doAndReturn struct{}

func (doAndReturn) Name() string { return "DoAndReturn" }

func (doAndReturn) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	if len(Args(n)) != 1 {
		return nil, Internal(n, "DoAndReturn called with %d arguments", len(Args(n)))
	}
	return rename(n, "Return"), nil
}

// do rewrites Do(f) to Run(func(args mock.Arguments) {...}).
type do struct{}

func (do) Name() string { return "Do" }

func (do) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	args := Args(n)
	if len(args) != 1 {
		return nil, Internal(n, "Do called with %d arguments", len(args))
	}
	f := args[0]
	var run *syntax.Node
	var err error
	if f.Kind() == syntax.FuncLit {
		run, err = runLiteral(env, f)
	} else {
		run, err = runCall(env, f)
	}
	if err != nil {
		return nil, err
	}
	n = syntax.Replace(n, f, keep(f, layout.Mark(run)))
	return needs(rename(n, "Run"), catalog.MockPath), nil
}

// argsName returns a name for the mock.Arguments parameter
// that does not occur in n.
func argsName(n *syntax.Node) string {
	return Fresh(n, "args")
}

// Fresh returns name, or name followed by the smallest positive
// number, choosing the first that is not an identifier in n.
func Fresh(n *syntax.Node, name string) string {
	used := make(map[string]bool)
	syntax.Inspect(n, func(x *syntax.Node) bool {
		if x.Kind() == syntax.Ident {
			used[x.Name()] = true
		}
		return true
	})
	v := name
	for i := 1; used[v]; i++ {
		v = fmt.Sprint(name, i)
	}
	return v
}

// runLiteral converts the function literal f passed to Do into one taking
// mock.Arguments, binding the parameters f's body uses at its top.
func runLiteral(env *Env, f *syntax.Node) (*syntax.Node, error) {
	ftype, body := f.Child(0), f.Child(1)
	var lists []*syntax.Node
	for _, k := range ftype.Children() {
		if k.Kind() == syntax.FieldList {
			lists = append(lists, k)
		}
	}
	if len(lists) == 0 {
		return nil, Internal(f, "function literal without parameters")
	}
	if len(lists) > 1 {
		return nil, unsupported(f, "Do function returns results; use DoAndReturn")
	}
	a := argsName(f)
	used := make(map[string]bool)
	syntax.Inspect(body, func(x *syntax.Node) bool {
		if x.Kind() == syntax.Ident {
			used[x.Name()] = true
		}
		return true
	})
	var binds []*syntax.Node
	i := 0
	for _, field := range syntax.Elems(lists[0]) {
		var names []string
		var typ *syntax.Node
		for _, k := range field.Children() {
			switch {
			case k.Kind() == syntax.Ident && typ == nil && k != last(field):
				names = append(names, k.Name())
			case k.Kind() != syntax.Token:
				typ = k
			}
		}
		if typ == nil {
			return nil, Internal(field, "parameter without type")
		}
		if len(names) == 0 {
			i++
			continue
		}
		for _, name := range names {
			switch {
			case !used[name]:
			case typ.Kind() == syntax.Ellipsis:
				elem := strings.TrimPrefix(typ.Text(), "...")
				binds = append(binds, syntax.Stmts(collect(f, name, a, i, elem))...)
			default:
				binds = append(binds, syntax.Stmts(fmt.Sprintf("%s := %s.Get(%d).(%s)", name, a, i, typ.Text()))...)
			}
			i++
		}
	}
	params := syntax.Expr(fmt.Sprintf("func(%s _0.Arguments) {}", a), syntax.NewIdent(env.Mock)).Child(0)
	for _, k := range params.Children() {
		if k.Kind() == syntax.FieldList {
			f = syntax.Replace(f, lists[0], keep(lists[0], k))
			break
		}
	}
	body = syntax.InsertLines(body, 0, binds...)
	return syntax.Replace(f, f.Child(1), body), nil
}

// collect returns statements declaring name as the slice of elem
// holding the arguments in a from position i on. Generated mocks
// record variadic arguments individually, not as one slice.
func collect(f *syntax.Node, name, a string, i int, elem string) string {
	if elem == "any" || elem == "interface{}" {
		return fmt.Sprintf("%s := []%s(%s[%d:])", name, elem, a, i)
	}
	v := Fresh(f, "v")
	return fmt.Sprintf("var %s []%s\nfor _, %s := range %s[%d:] {\n%s = append(%s, %s.(%s))\n}",
		name, elem, v, a, i, name, name, v, elem)
}

// last returns the last child of n.
func last(n *syntax.Node) *syntax.Node {
	kids := n.Children()
	return kids[len(kids)-1]
}

// runCall wraps the function value f passed to Do in a function
// taking mock.Arguments.
func runCall(env *Env, f *syntax.Node) (*syntax.Node, error) {
	if env.Params == nil {
		return nil, unsupported(f, "cannot determine parameters for Do(%s)", f.Text())
	}
	a := argsName(f)
	var pre, list []string
	for i, t := range env.Params {
		if t == "" {
			return nil, unsupported(f, "cannot determine type of parameter %d for Do(%s)", i, f.Text())
		}
		if env.Variadic && i == len(env.Params)-1 {
			rest := Fresh(f, "rest")
			pre = append(pre, collect(f, rest, a, i, strings.TrimPrefix(t, "[]")))
			list = append(list, rest+"...")
			continue
		}
		list = append(list, fmt.Sprintf("%s.Get(%d).(%s)", a, i, t))
	}
	pre = append(pre, fmt.Sprintf("_1(%s)", strings.Join(list, ", ")))
	src := fmt.Sprintf("func(%s _0.Arguments) {\n%s\n}", a, strings.Join(pre, "\n"))
	x, err := syntax.ParseExpr(src)
	if err != nil {
		return nil, unsupported(f, "cannot restate parameters of %s: %v", f.Text(), err)
	}
	return syntax.Subst(x, syntax.NewIdent(env.Mock), f), nil
}

// setArg rewrites SetArg(i, v) to Run(func(args mock.Arguments) {
// *args.Get(i).(*T) = v }).
type setArg struct{}

func (setArg) Name() string { return "SetArg" }

func (setArg) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	args := Args(n)
	if len(args) != 2 {
		return nil, Internal(n, "SetArg called with %d arguments", len(args))
	}
	i, ok := intLit(args[0])
	if !ok {
		return nil, unsupported(n, "SetArg index %s is not a constant", args[0].Text())
	}
	if env.Params == nil || i < 0 || i >= len(env.Params) {
		return nil, unsupported(n, "cannot determine type of parameter %d for SetArg", i)
	}
	t := env.Params[i]
	if t == "" {
		return nil, unsupported(n, "cannot determine type of parameter %d for SetArg", i)
	}
	if !strings.HasPrefix(t, "*") {
		return nil, unsupported(n, "SetArg on parameter %d of non-pointer type %s", i, t)
	}
	a := argsName(args[1])
	src := fmt.Sprintf("func(%s _0.Arguments) {\n*%s.Get(%d).(%s) = _1\n}", a, a, i, t)
	x, err := syntax.ParseExpr(src)
	if err != nil {
		return nil, unsupported(n, "cannot restate SetArg: %v", err)
	}
	run := layout.Mark(syntax.Subst(x, syntax.NewIdent(env.Mock), args[1]))
	n = setArgs(n, run)
	return needs(rename(n, "Run"), catalog.MockPath), nil
}

// after rewrites After(c) to NotBefore(c).
type after struct{}

func (after) Name() string { return "After" }

func (after) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	args := Args(n)
	if len(args) != 1 {
		return nil, Internal(n, "After called with %d arguments", len(args))
	}
	if env.Unwrap != nil {
		x, ok := env.Unwrap(args[0])
		if !ok {
			return nil, unsupported(n, "After argument %s is not an expectation", args[0].Text())
		}
		n = syntax.Replace(n, args[0], keep(args[0], x.Bare()))
	}
	return rename(n, "NotBefore"), nil
}

// A Count is the range of calls an expectation allows.
// A non-nil MinExpr or MaxExpr is a bound not known until run time
// and overrides Min or Max.
type Count struct {
	Min, Max         int
	MinExpr, MaxExpr *syntax.Node
}

// Unbounded is the Max of a Count with no upper limit.
const Unbounded = -1

// DefaultCount is the count of a gomock expectation with no count
// modifiers: exactly one call.
var DefaultCount = Count{Min: 1, Max: 1}

// countArg returns the single argument of the count modifier n.
func countArg(n *syntax.Node) (*syntax.Node, error) {
	args := Args(n)
	if len(args) != 1 {
		return nil, Internal(n, "%s called with %d arguments", Method(n), len(args))
	}
	return args[0], nil
}

type times struct{}

func (times) Name() string { return "Times" }

func (times) Count(c Count, n *syntax.Node) (Count, error) {
	x, err := countArg(n)
	if err != nil {
		return c, err
	}
	if k, ok := intLit(x); ok {
		return Count{Min: k, Max: k}, nil
	}
	return Count{MinExpr: x, MaxExpr: x}, nil
}

// Rewrite converts a Times call that is not part of an expectation's
// declaration and so cannot be folded into it.
func (times) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	x, err := countArg(n)
	if err != nil {
		return nil, err
	}
	k, ok := intLit(x)
	if !ok {
		return n, nil
	}
	switch k {
	case 0:
		return nil, unsupported(n, "Times(0) has no testify equivalent")
	case 1:
		return setArgs(rename(n, "Once")), nil
	case 2:
		return setArgs(rename(n, "Twice")), nil
	}
	return n, nil
}

type minTimes struct{}

func (minTimes) Name() string { return "MinTimes" }

func (minTimes) Count(c Count, n *syntax.Node) (Count, error) {
	x, err := countArg(n)
	if err != nil {
		return c, err
	}
	if k, ok := intLit(x); ok {
		c.Min, c.MinExpr = k, nil
	} else {
		c.MinExpr = x
	}
	if c.Max == 1 && c.MaxExpr == nil {
		c.Max = Unbounded
	}
	return c, nil
}

func (minTimes) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return nil, unsupported(n, "MinTimes outside an expectation declaration")
}

type maxTimes struct{}

func (maxTimes) Name() string { return "MaxTimes" }

func (maxTimes) Count(c Count, n *syntax.Node) (Count, error) {
	x, err := countArg(n)
	if err != nil {
		return c, err
	}
	if k, ok := intLit(x); ok {
		c.Max, c.MaxExpr = k, nil
	} else {
		c.MaxExpr = x
	}
	if c.Min == 1 && c.MinExpr == nil {
		c.Min = 0
	}
	return c, nil
}

func (maxTimes) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return nil, unsupported(n, "MaxTimes outside an expectation declaration")
}

type anyTimes struct{}

func (anyTimes) Name() string { return "AnyTimes" }

func (anyTimes) Count(c Count, n *syntax.Node) (Count, error) {
	if len(Args(n)) != 0 {
		return c, Internal(n, "AnyTimes called with %d arguments", len(Args(n)))
	}
	return Count{Min: 0, Max: Unbounded}, nil
}

func (anyTimes) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return setArgs(rename(n, "Maybe")), nil
}

// Modifier returns the testify modifier expressing c, as a method name
// and arguments. It returns the empty name if testify's default, any
// positive number of calls, already expresses c. The node n locates
// errors.
func (c Count) Modifier(n *syntax.Node) (name string, args []*syntax.Node, err error) {
	switch {
	case c.MinExpr != nil && c.MaxExpr != nil:
		if c.MinExpr == c.MaxExpr || syntax.Equal(c.MinExpr, c.MaxExpr) {
			return "Times", []*syntax.Node{c.MinExpr.Bare()}, nil
		}
		return "", nil, unsupported(n, "call count between %s and %s has no testify equivalent", c.MinExpr.Text(), c.MaxExpr.Text())
	case c.MinExpr != nil:
		if c.Max == Unbounded {
			// At least MinExpr calls: testify checks only for one.
			return "", nil, nil
		}
		return "", nil, unsupported(n, "call count between %s and %d has no testify equivalent", c.MinExpr.Text(), c.Max)
	case c.MaxExpr != nil:
		return "", nil, unsupported(n, "call count between %d and %s has no testify equivalent", c.Min, c.MaxExpr.Text())
	case c.Max == Unbounded:
		switch c.Min {
		case 0:
			return "Maybe", nil, nil
		case 1:
			return "", nil, nil
		}
		return "", nil, unsupported(n, "at least %d calls has no testify equivalent", c.Min)
	case c.Min != c.Max:
		return "", nil, unsupported(n, "call count between %d and %d has no testify equivalent", c.Min, c.Max)
	}
	switch c.Min {
	case 0:
		return "", nil, unsupported(n, "Times(0) has no testify equivalent")
	case 1:
		return "Once", nil, nil
	case 2:
		return "Twice", nil, nil
	}
	return "Times", []*syntax.Node{intNode(c.Min)}, nil
}

// Apply appends the modifier for c to the expectation call x.
func (c Count) Apply(x *syntax.Node) (*syntax.Node, error) {
	name, args, err := c.Modifier(x)
	if err != nil || name == "" {
		return x, err
	}
	return chain(x, x.Child(0), name, args...), nil
}

func intNode(k int) *syntax.Node {
	return syntax.NewNode(syntax.BasicLit, syntax.NewToken(token.INT, fmt.Sprint(k)))
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"fmt"
	"go/token"
	"strings"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/syntax"
)

// Strategies for the gomock matcher constructors.
var (
	Any                Predicator = anyMatcher{}
	Eq                 Predicator = eq{}
	Nil                Predicator = nilMatcher{}
	Not                Predicator = not{}
	All                Predicator = all{}
	AnyOf              Predicator = anyOf{}
	Len                Predicator = length{}
	AssignableToTypeOf Predicator = assignable{}
	Cond               Predicator = cond{}

	// Custom converts a value of a user-defined type implementing
	// gomock.Matcher.
	Custom Predicator = custom{}
)

// Unrestatable returns a strategy for the matcher name, which has no
// testify equivalent in any form.
func Unrestatable(name string) Predicator {
	return unrestatable{name}
}

type unrestatable struct {
	name string
}

func (u unrestatable) Name() string { return u.name }

func (u unrestatable) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return nil, unsupported(n, "matcher %s has no testify equivalent", u.name)
}

func (u unrestatable) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	return u.Rewrite(env, n)
}

// matchedBy returns mock.MatchedBy(func(v T) bool { return pred })
// for the matcher n, where pred restates n over v.
func matchedBy(env *Env, n *syntax.Node, p Predicator) (*syntax.Node, error) {
	if env.Param == "" {
		return nil, unsupported(n, "cannot determine parameter type for %s", n.Text())
	}
	v := Fresh(n, "v")
	pred, err := p.Predicate(env, n, v)
	if err != nil {
		return nil, err
	}
	x, err := syntax.ParseExpr(fmt.Sprintf("%s.MatchedBy(func(%s %s) bool { return _0 })", env.Mock, v, env.Param))
	if err != nil {
		return nil, unsupported(n, "cannot restate parameter type %s: %v", env.Param, err)
	}
	return keep(n, needs(syntax.Subst(x, pred), catalog.MockPath)), nil
}

// oneArg returns the single argument of the matcher call n.
func oneArg(n *syntax.Node) (*syntax.Node, error) {
	args := Args(n)
	if len(args) != 1 {
		return nil, Internal(n, "%s called with %d arguments", n.Child(0).Text(), len(args))
	}
	return args[0], nil
}

// call returns f(args...) for the function name f.
func call(f string, args ...*syntax.Node) *syntax.Node {
	n := syntax.NewNode(syntax.CallExpr, syntax.NewIdent(f), syntax.NewToken(token.LPAREN, "("), syntax.NewToken(token.RPAREN, ")"))
	return syntax.InsertArgs(n, 0, args...)
}

// binary returns x op y.
func binary(x *syntax.Node, op token.Token, y *syntax.Node) *syntax.Node {
	return syntax.NewNode(syntax.BinaryExpr,
		x.Bare().WithTrailing(syntax.Blank(" ")),
		syntax.NewToken(op, op.String()).WithTrailing(syntax.Blank(" ")),
		y.Bare())
}

type anyMatcher struct{}

func (anyMatcher) Name() string { return "Any" }

func (anyMatcher) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return keep(n, needs(sel(env.Mock, "Anything"), catalog.MockPath)), nil
}

func (anyMatcher) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	return syntax.NewIdent("true"), nil
}

type eq struct{}

func (eq) Name() string { return "Eq" }

func (eq) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	x, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	return keep(n, x.Bare()), nil
}

func (eq) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	x, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	return Equals(env, x, v), nil
}

// Equals returns assert.ObjectsAreEqual(x, v), the predicate gomock
// applies to a plain value used as a matcher.
func Equals(env *Env, x *syntax.Node, v string) *syntax.Node {
	f := needs(sel(env.Assert, "ObjectsAreEqual"), catalog.AssertPath)
	n := syntax.NewNode(syntax.CallExpr, f, syntax.NewToken(token.LPAREN, "("), syntax.NewToken(token.RPAREN, ")"))
	return syntax.InsertArgs(n, 0, x.Bare(), syntax.NewIdent(v))
}

type nilMatcher struct{}

func (nilMatcher) Name() string { return "Nil" }

func (m nilMatcher) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return matchedBy(env, n, m)
}

func (nilMatcher) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	if env.Param != "" && !env.Nilable {
		return nil, unsupported(n, "Nil matcher for parameter of non-nilable type %s", env.Param)
	}
	return binary(syntax.NewIdent(v), token.EQL, syntax.NewIdent("nil")), nil
}

type not struct{}

func (not) Name() string { return "Not" }

func (m not) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return matchedBy(env, n, m)
}

func (not) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	x, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	if env.Predicate == nil {
		return nil, Internal(n, "no predicate resolver")
	}
	p, err := env.Predicate(x, v)
	if err != nil {
		return nil, err
	}
	if p.Kind() == syntax.BinaryExpr && p.Child(1).IsToken(token.EQL) {
		op := p.Child(1)
		return syntax.Replace(p, op, syntax.NewToken(token.NEQ, "!=").WithLeading(op.Leading()).WithTrailing(op.Trailing())), nil
	}
	return syntax.NewNode(syntax.UnaryExpr, syntax.NewToken(token.NOT, "!"), paren(p)), nil
}

type all struct{}

func (all) Name() string { return "All" }

func (m all) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return matchedBy(env, n, m)
}

func (all) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	if env.Predicate == nil {
		return nil, Internal(n, "no predicate resolver")
	}
	var x *syntax.Node
	for _, arg := range Args(n) {
		p, err := env.Predicate(arg, v)
		if err != nil {
			return nil, err
		}
		if p.Kind() == syntax.BinaryExpr && p.Child(1).IsToken(token.LOR) {
			p = paren(p)
		}
		if x == nil {
			x = p
		} else {
			x = binary(x, token.LAND, p)
		}
	}
	if x == nil {
		return syntax.NewIdent("true"), nil
	}
	return x, nil
}

type anyOf struct{}

func (anyOf) Name() string { return "AnyOf" }

func (m anyOf) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return matchedBy(env, n, m)
}

func (anyOf) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	if env.Predicate == nil {
		return nil, Internal(n, "no predicate resolver")
	}
	var x *syntax.Node
	for _, arg := range Args(n) {
		p, err := env.Predicate(arg, v)
		if err != nil {
			return nil, err
		}
		if x == nil {
			x = p
		} else {
			x = binary(x, token.LOR, p)
		}
	}
	if x == nil {
		return syntax.NewIdent("false"), nil
	}
	return x, nil
}

type length struct{}

func (length) Name() string { return "Len" }

func (m length) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return matchedBy(env, n, m)
}

func (length) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	x, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	return binary(call("len", syntax.NewIdent(v)), token.EQL, x), nil
}

type assignable struct{}

func (assignable) Name() string { return "AssignableToTypeOf" }

func (assignable) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	x, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	f := needs(sel(env.Mock, "IsType"), catalog.MockPath)
	return keep(n, syntax.NewNode(syntax.CallExpr, f, syntax.NewToken(token.LPAREN, "("), x.Bare(), syntax.NewToken(token.RPAREN, ")"))), nil
}

func (assignable) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	return nil, unsupported(n, "AssignableToTypeOf inside a composite matcher has no testify equivalent")
}

type cond struct{}

func (cond) Name() string { return "Cond" }

func (cond) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	f, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	if t := condParam(f); t != "" && env.Param != "" && !sameType(t, env.Param) && !sameType(t, "any") && !sameType(t, "interface{}") {
		return nil, unsupported(n, "Cond function takes %s, but parameter has type %s", t, env.Param)
	}
	fun := needs(sel(env.Mock, "MatchedBy"), catalog.MockPath)
	return keep(n, syntax.NewNode(syntax.CallExpr, fun, syntax.NewToken(token.LPAREN, "("), f.Bare(), syntax.NewToken(token.RPAREN, ")"))), nil
}

func (cond) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	f, err := oneArg(n)
	if err != nil {
		return nil, err
	}
	return syntax.NewNode(syntax.CallExpr, paren(f), syntax.NewToken(token.LPAREN, "("), syntax.NewIdent(v), syntax.NewToken(token.RPAREN, ")")), nil
}

// condParam returns the source form of the parameter type of the
// function literal f, or "" if f is not a literal with one parameter.
func condParam(f *syntax.Node) string {
	if f.Kind() != syntax.FuncLit {
		return ""
	}
	for _, k := range f.Child(0).Children() {
		if k.Kind() != syntax.FieldList {
			continue
		}
		fields := syntax.Elems(k)
		if len(fields) != 1 {
			return ""
		}
		return last(fields[0]).Text()
	}
	return ""
}

func sameType(a, b string) bool {
	return strings.Join(strings.Fields(a), "") == strings.Join(strings.Fields(b), "")
}

type custom struct{}

func (custom) Name() string { return "custom matcher" }

func (m custom) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return matchedBy(env, n, m)
}

func (custom) Predicate(env *Env, n *syntax.Node, v string) (*syntax.Node, error) {
	return syntax.Expr("_0.Matches(_1)", paren(n), syntax.NewIdent(v)), nil
}

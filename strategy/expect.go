// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/syntax"
)

// Strategies for mock construction, expectations and controllers.
var (
	Instantiate   Strategy = instantiate{}
	Expect        Strategy = expect{}
	CallType      Strategy = callType{}
	MatcherType   Strategy = matcherType{}
	NewController Strategy = newController{}
	Finish        Strategy = finish{}
	InOrder       Strategy = inOrder{}
)

// instantiate rewrites NewMockX(ctrl) to NewMockX(t).
type instantiate struct{}

func (instantiate) Name() string { return "instantiate" }

func (instantiate) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	args := Args(n)
	if len(args) != 1 {
		return nil, Internal(n, "mock constructor called with %d arguments", len(args))
	}
	if env.T == nil {
		return nil, unsupported(n, "cannot find testing handle for %s", args[0].Text())
	}
	return syntax.Replace(n, args[0], keep(args[0], env.T.Bare())), nil
}

// expect rewrites recv.EXPECT().M(args...) to recv.On("M", args...).
type expect struct{}

func (expect) Name() string { return "expect" }

func (expect) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	x := Receiver(n)
	if x == nil {
		return nil, Internal(n, "recorder method call without receiver")
	}
	if x.Kind() != syntax.CallExpr || Method(x) != "EXPECT" || len(Args(x)) != 0 {
		return nil, unsupported(n, "expectation recorded through %s, not EXPECT()", x.Text())
	}
	outer := n.Child(0)
	name := outer.Child(2)
	on := syntax.NewNode(syntax.SelectorExpr,
		Receiver(x),
		outer.Child(1),
		syntax.NewIdent("On").WithLeading(name.Leading()).WithTrailing(name.Trailing()))
	call := syntax.Replace(n, outer, on)
	return syntax.InsertArgs(call, 0, Quote(name.Name())), nil
}

// callType rewrites gomock.Call and typed call wrappers to mock.Call.
type callType struct{}

func (callType) Name() string { return "call type" }

func (callType) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return keep(n, needs(sel(env.Mock, "Call"), catalog.MockPath)), nil
}

// matcherType rewrites gomock.Matcher to any.
type matcherType struct{}

func (matcherType) Name() string { return "matcher type" }

func (matcherType) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return keep(n, syntax.NewIdent("any")), nil
}

// newController marks controller creation, which has no testify
// equivalent and is deleted once unused.
type newController struct{}

func (newController) Name() string { return "controller" }

func (newController) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	return nil, nil
}

// finish restates ctrl.Finish() for one participant as
// m.AssertExpectations(t).
type finish struct{}

func (finish) Name() string { return "finish" }

func (finish) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	if env.Participant == nil {
		return nil, Internal(n, "no participant to verify")
	}
	if env.T == nil {
		return nil, unsupported(n, "cannot find testing handle to verify %s", env.Participant.Text())
	}
	return keep(n, syntax.Expr("_0.AssertExpectations(_1)", env.Participant, env.T)), nil
}

// inOrder rewrites gomock.InOrder(calls...) to mock.InOrder(calls...).
type inOrder struct{}

func (inOrder) Name() string { return "in order" }

func (inOrder) Rewrite(env *Env, n *syntax.Node) (*syntax.Node, error) {
	if env.Unwrap == nil {
		return nil, Internal(n, "no expectation resolver")
	}
	out := n
	for _, arg := range Args(n) {
		x, ok := env.Unwrap(arg)
		if !ok {
			return nil, unsupported(arg, "InOrder argument %s is not an expectation", arg.Text())
		}
		out = syntax.Replace(out, arg, keep(arg, x.Bare()))
	}
	fun := out.Child(0)
	out = syntax.Replace(out, fun, keep(fun, sel(env.Mock, "InOrder")))
	return needs(out, catalog.MockPath), nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsc.io/mockmv/syntax"
)

// markFirst parses src and marks the first node of the given kind.
func markFirst(t *testing.T, src string, kind syntax.Kind) *syntax.Node {
	t.Helper()
	root, err := syntax.ParseFile("x.go", []byte(src))
	require.NoError(t, err)
	list := syntax.Find(root, func(n *syntax.Node) bool { return n.Kind() == kind })
	require.NotEmpty(t, list)
	return syntax.Replace(root, list[0], Mark(list[0]))
}

func TestFormatExpr(t *testing.T) {
	src := "package p\n\nfunc f() {\n\tc.Run(func(args mock.Arguments) {\nrecord(args.Get(0).(string))\n})   // keep\n}\n"
	want := "package p\n\nfunc f() {\n\tc.Run(func(args mock.Arguments) {\n\t\trecord(args.Get(0).(string))\n\t})   // keep\n}\n"
	root := markFirst(t, src, syntax.FuncLit)
	out, err := Format(root)
	require.NoError(t, err)
	assert.Equal(t, want, out.String())
	assert.Empty(t, syntax.Find(out, func(n *syntax.Node) bool { return n.HasAnnotation(Marker) }))

	// Formatting is idempotent.
	again, err := Format(markFirst(t, out.String(), syntax.FuncLit))
	require.NoError(t, err)
	assert.Equal(t, want, again.String())
}

func TestFormatStmt(t *testing.T) {
	src := "package p\n\nfunc f() {\n\tif x {\n\t\tm.On(\"Get\",1).Run(func(args mock.Arguments) {\n*args.Get(0).(*int)=5\n})\n\t}\n}\n"
	want := "package p\n\nfunc f() {\n\tif x {\n\t\tm.On(\"Get\", 1).Run(func(args mock.Arguments) {\n\t\t\t*args.Get(0).(*int) = 5\n\t\t})\n\t}\n}\n"
	root := markFirst(t, src, syntax.ExprStmt)
	out, err := Format(root)
	require.NoError(t, err)
	assert.Equal(t, want, out.String())
}

func TestFormatCRLF(t *testing.T) {
	src := "package p\r\n\r\nfunc f() {\r\n\tc.Run(func() {\r\nx()\r\n})\r\n}\r\n"
	want := "package p\r\n\r\nfunc f() {\r\n\tc.Run(func() {\r\n\t\tx()\r\n\t})\r\n}\r\n"
	out, err := Format(markFirst(t, src, syntax.FuncLit))
	require.NoError(t, err)
	assert.Equal(t, want, out.String())
}

func TestFormatSingleLine(t *testing.T) {
	src := "package p\n\nvar x = f(a,b)\n"
	out, err := Format(markFirst(t, src, syntax.CallExpr))
	require.NoError(t, err)
	assert.Equal(t, "package p\n\nvar x = f(a, b)\n", out.String())
}

func TestFormatRawString(t *testing.T) {
	src := "package p\n\nvar x = f(a,`\nraw`)\n"
	out, err := Format(markFirst(t, src, syntax.CallExpr))
	require.NoError(t, err)
	assert.Equal(t, src, out.String())
}

func TestFormatUnmarked(t *testing.T) {
	src := "package p\n\nvar x = f(a,b)\n"
	root, err := syntax.ParseFile("x.go", []byte(src))
	require.NoError(t, err)
	out, err := Format(root)
	require.NoError(t, err)
	assert.Same(t, root, out)
}

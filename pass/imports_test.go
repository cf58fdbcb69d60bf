// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/syntax"
)

func fileContext(t *testing.T, src string) *Context {
	t.Helper()
	f, err := syntax.ParseFile("x_test.go", []byte(src))
	require.NoError(t, err)
	return &Context{root: f}
}

func TestAddImport(t *testing.T) {
	for _, tt := range []struct {
		name, in, out string
	}{
		{
			"gomock group",
			"package p\n\nimport (\n\t\"testing\"\n\n\t\"example.com/mocks\"\n\t\"github.com/golang/mock/gomock\"\n)\n",
			"package p\n\nimport (\n\t\"testing\"\n\n\t\"example.com/mocks\"\n\t\"github.com/golang/mock/gomock\"\n\t\"github.com/stretchr/testify/mock\"\n)\n",
		},
		{
			"start of group",
			"package p\n\nimport (\n\t\"testing\"\n\n\t\"go.uber.org/mock/gomock\"\n)\n",
			"package p\n\nimport (\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/mock\"\n\t\"go.uber.org/mock/gomock\"\n)\n",
		},
		{
			"new group",
			"package p\n\nimport (\n\t\"testing\"\n)\n",
			"package p\n\nimport (\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/mock\"\n)\n",
		},
		{
			"single import",
			"package p\n\nimport \"testing\"\n\nvar _ testing.T\n",
			"package p\n\nimport (\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/mock\"\n)\n\nvar _ testing.T\n",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := fileContext(t, tt.in)
			require.NoError(t, c.addImport(catalog.MockPath, ""))
			assert.Equal(t, tt.out, c.root.String())
		})
	}
}

func TestAddImportNamed(t *testing.T) {
	c := fileContext(t, "package p\n\nimport (\n\t\"testing\"\n)\n")
	require.NoError(t, c.addImport(catalog.MockPath, "testifymock"))
	assert.Equal(t, "package p\n\nimport (\n\t\"testing\"\n\n\ttestifymock \"github.com/stretchr/testify/mock\"\n)\n", c.root.String())
}

func TestRemoveImport(t *testing.T) {
	c := fileContext(t, "package p\n\nimport (\n\t\"testing\"\n\n\t\"example.com/mocks\"\n\t\"go.uber.org/mock/gomock\"\n)\n")
	require.NoError(t, c.removeImport(catalog.GomockPath))
	assert.Equal(t, "package p\n\nimport (\n\t\"testing\"\n\n\t\"example.com/mocks\"\n)\n", c.root.String())

	c = fileContext(t, "package p\n\nimport \"go.uber.org/mock/gomock\"\n\nvar x = 1\n")
	require.NoError(t, c.removeImport(catalog.GomockPath))
	assert.Equal(t, "package p\n\nvar x = 1\n", c.root.String())
}

func TestStartsGroup(t *testing.T) {
	c := fileContext(t, "package p\n\nimport (\n\t\"a\"\n\t\"b\"\n\n\t\"c\"\n\t// d\n\t\"d\"\n)\n")
	specs := syntax.Elems(importDecls(c.root)[0])
	require.Len(t, specs, 4)
	var got []bool
	for _, s := range specs {
		got = append(got, startsGroup(s))
	}
	assert.Equal(t, []bool{false, false, true, false}, got)
}

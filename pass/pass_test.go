// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"rsc.io/mockmv/catalog"
	"rsc.io/mockmv/load"
	"rsc.io/mockmv/strategy"
	"rsc.io/mockmv/syntax"
)

const testFile = "example.com/p/p_test.go"

// runPasses runs passes over src, the test file of package example.com/p,
// and returns the resulting text and warnings.
func runPasses(t *testing.T, src string, passes ...*Pass) (string, []string) {
	t.Helper()
	a, err := txtar.ParseFile("../migrate/testdata/lib.txtar")
	require.NoError(t, err)
	a.Files = append(a.Files,
		txtar.File{Name: "example.com/p/p.go", Data: []byte("package p\n\nfunc use(args ...any) {}\n")},
		txtar.File{Name: testFile, Data: []byte(src)},
	)
	comps, err := load.Archive(a, "example.com/p")
	require.NoError(t, err)
	require.Len(t, comps, 1)
	comp := comps[0]

	cat, err := catalog.New(comp)
	require.NoError(t, err)
	table, err := strategy.NewTable(cat)
	require.NoError(t, err)

	var warnings []string
	for _, f := range comp.Files() {
		if f.Path != testFile {
			continue
		}
		c := NewContext(comp, f, table, func(line int, reason string) {
			warnings = append(warnings, fmt.Sprintf("%d: %s", line, reason))
		})
		for _, p := range passes {
			require.NoError(t, c.Run(p))
		}
		return c.Root().String(), warnings
	}
	t.Fatalf("%s not loaded", testFile)
	return "", nil
}

func TestLookup(t *testing.T) {
	assert.Same(t, Setup, Lookup("setup"))
	assert.Nil(t, Lookup("teardown"))

	seen := make(map[string]bool)
	for _, p := range All {
		assert.False(t, seen[p.Name], p.Name)
		seen[p.Name] = true
	}
	assert.Same(t, Instantiation, All[0])
	assert.Same(t, Imports, All[len(All)-1])
}

const instSrc = `package p

import (
	"testing"

	"example.com/mocks"
	"go.uber.org/mock/gomock"
)

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockStore(ctrl)
	use(m)
}
`

func TestInstantiation(t *testing.T) {
	out, warnings := runPasses(t, instSrc, Instantiation)
	assert.Empty(t, warnings)
	assert.Contains(t, out, "\tm := mocks.NewMockStore(t)\n")
	assert.Contains(t, out, "\tctrl := gomock.NewController(t)\n\tdefer ctrl.Finish()\n")
}

func TestObsolete(t *testing.T) {
	out, warnings := runPasses(t, instSrc, Instantiation, Obsolete)
	assert.Empty(t, warnings)
	assert.Contains(t, out, "func TestGet(t *testing.T) {\n\tm := mocks.NewMockStore(t)\n\tuse(m)\n}\n")
}

func TestObsoleteStillUsed(t *testing.T) {
	src := `package p

import (
	"testing"

	"example.com/mocks"
	"go.uber.org/mock/gomock"
)

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)
	use(m, ctrl)
}
`
	out, warnings := runPasses(t, src, Instantiation, Obsolete)
	assert.Equal(t, []string{"11: controller ctrl is still used"}, warnings)
	assert.Contains(t, out, "\tctrl := gomock.NewController(t)\n\tm := mocks.NewMockStore(t)\n")
}

func TestInstantiationHelper(t *testing.T) {
	src := `package p

import (
	"testing"

	"example.com/mocks"
	"go.uber.org/mock/gomock"
)

func newStore(ctrl *gomock.Controller) *mocks.MockStore {
	return mocks.NewMockStore(ctrl)
}

func TestGet(t *testing.T) {
	use(newStore(gomock.NewController(t)))
}
`
	out, warnings := runPasses(t, src, Instantiation)
	assert.Equal(t, []string{"11: controller ctrl is not created in the enclosing function"}, warnings)
	assert.Equal(t, src, out)
}

func TestImports(t *testing.T) {
	out, warnings := runPasses(t, instSrc, Instantiation, Obsolete, Imports)
	assert.Empty(t, warnings)
	assert.Contains(t, out, "import (\n\t\"testing\"\n\n\t\"example.com/mocks\"\n)\n")
	assert.NotContains(t, out, "gomock")
}

func TestImportsStillUsed(t *testing.T) {
	src := `package p

import (
	"testing"

	"example.com/mocks"
	"go.uber.org/mock/gomock"
)

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)
	use(m, ctrl)
}
`
	out, _ := runPasses(t, src, Instantiation, Obsolete, Imports)
	assert.Contains(t, out, "\t\"go.uber.org/mock/gomock\"\n")
	assert.Contains(t, out, "\tm := mocks.NewMockStore(t)\n")
}

func TestHelperConstructor(t *testing.T) {
	src := `package p

import (
	"testing"

	"example.com/mocks"
	"go.uber.org/mock/gomock"
)

func newStore(ctrl *gomock.Controller) *mocks.MockStore {
	return mocks.NewMockStore(ctrl)
}

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newStore(ctrl)
	use(m)
}
`
	out, warnings := runPasses(t, src, All...)
	assert.Contains(t, warnings, "15: controller ctrl is still used")
	assert.Contains(t, out, "\tctrl := gomock.NewController(t)\n\tm := newStore(ctrl)\n")
	assert.Contains(t, out, "func newStore(ctrl *gomock.Controller) *mocks.MockStore {\n")
}

func TestPackageName(t *testing.T) {
	parse := func(src string) *syntax.Node {
		f, err := syntax.ParseFile("x.go", []byte(src))
		require.NoError(t, err)
		return f
	}
	assert.Equal(t, "mock", packageName(parse("package p\n"), catalog.MockPath, "mock"))
	assert.Equal(t, "tm", packageName(parse("package p\n\nimport tm \"github.com/stretchr/testify/mock\"\n"), catalog.MockPath, "mock"))
	assert.Equal(t, "testifymock", packageName(parse("package p\n\nvar mock = 1\n"), catalog.MockPath, "mock"))
	assert.Equal(t, "assert", packageName(parse("package p\n\nimport _ \"github.com/stretchr/testify/assert\"\n"), catalog.AssertPath, "assert"))
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrated = `package p

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

var _ = mock.Anything
`

func TestRequireTestify(t *testing.T) {
	mods := map[string]string{
		"a/go.mod": "module example.com/a\n\ngo 1.22\n",
		"b/go.mod": "module example.com/b\n\ngo 1.22\n\nrequire github.com/stretchr/testify v1.8.4\n",
		"c/go.mod": "module example.com/c\n\ngo 1.22\n",
	}
	read := func(name string) ([]byte, error) {
		if s, ok := mods[name]; ok {
			return []byte(s), nil
		}
		return nil, os.ErrNotExist
	}
	changes := []*Change{
		{Path: "a/x_test.go", New: []byte(migrated), GoMod: "a/go.mod"},
		{Path: "a/y_test.go", New: []byte(migrated), GoMod: "a/go.mod"},
		{Path: "b/x_test.go", New: []byte(migrated), GoMod: "b/go.mod"},
		{Path: "c/x_test.go", New: []byte("package c\n"), GoMod: "c/go.mod"},
		{Path: "d/x_test.go", New: []byte(migrated)},
	}
	out, err := RequireTestify(changes, "", read)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a/go.mod", out[0].Path)
	assert.Equal(t, mods["a/go.mod"], string(out[0].Old))
	assert.Equal(t, "module example.com/a\n\ngo 1.22\n\nrequire github.com/stretchr/testify v1.9.0\n", string(out[0].New))
}

func TestRequireTestifyVersion(t *testing.T) {
	read := func(string) ([]byte, error) { return []byte("module m\n"), nil }
	out, err := RequireTestify([]*Change{{Path: "x_test.go", New: []byte(migrated), GoMod: "go.mod"}}, "v1.8.1", read)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, string(out[0].New), "require github.com/stretchr/testify v1.8.1")
}

func TestWriteAndDiff(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "x_test.go")
	require.NoError(t, os.WriteFile(name, []byte("package x\n\nvar a = 1\n"), 0644))
	changes := []*Change{{Path: name, Old: []byte("package x\n\nvar a = 1\n"), New: []byte("package x\n\nvar a = 2\n")}}

	var buf bytes.Buffer
	require.NoError(t, Diff(&buf, changes, dir))
	assert.Equal(t, "diff old/x_test.go new/x_test.go\n--- old/x_test.go\n+++ new/x_test.go\n@@ -1,3 +1,3 @@\n package x\n \n-var a = 1\n+var a = 2\n", buf.String())

	require.NoError(t, Write(changes, &buf))
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "package x\n\nvar a = 2\n", string(data))
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	oldName = "a/b/c"
	newName = "d/e/f"
	oldText = "abc\ndef\nghi\n"
	newText = "ABC\ndef\nGHI\n"
	want    = "diff a/b/c d/e/f\n--- a/b/c\n+++ d/e/f\n@@ -1,3 +1,3 @@\n-abc\n+ABC\n def\n-ghi\n+GHI\n"
)

func TestDiff(t *testing.T) {
	out, err := Diff(oldName, []byte(oldText), newName, []byte(newText))
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestDiffEqual(t *testing.T) {
	out, err := Diff(oldName, []byte(oldText), newName, []byte(oldText))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a\n", "b\n"}, lines([]byte("a\nb\n")))
	assert.Equal(t, []string{"a\n", "b\n"}, lines([]byte("a\nb")))
	assert.Empty(t, lines(nil))
}

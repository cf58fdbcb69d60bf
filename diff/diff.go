// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff implements a Diff function that compares two inputs
// and returns a unified diff.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of old and new, with three lines of context,
// headed by a "diff oldName newName" line. It returns nil if the inputs
// are equal.
func Diff(oldName string, old []byte, newName string, new []byte) ([]byte, error) {
	if bytes.Equal(old, new) {
		return nil, nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(old),
		B:        lines(new),
		FromFile: oldName,
		ToFile:   newName,
		Context:  3,
	})
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("diff %s %s\n%s", oldName, newName, text)), nil
}

// lines splits text into lines, each ending in a newline.
func lines(text []byte) []string {
	list := strings.SplitAfter(string(text), "\n")
	if list[len(list)-1] == "" {
		return list[:len(list)-1]
	}
	list[len(list)-1] += "\n"
	return list
}

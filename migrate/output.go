// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rsc.io/mockmv/diff"
)

// Write writes the new content of each changed file.
// It reports the first error after attempting every file.
func Write(changes []*Change, stderr io.Writer) error {
	failed := false
	for _, ch := range changes {
		mode := os.FileMode(0666)
		if info, err := os.Stat(ch.Path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(ch.Path, ch.New, mode); err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("errors writing files")
	}
	return nil
}

// Diff writes unified diffs of changes to w, naming files relative to dir.
func Diff(w io.Writer, changes []*Change, dir string) error {
	for _, ch := range changes {
		name := ch.Path
		if rel, err := filepath.Rel(dir, name); err == nil && filepath.IsAbs(name) {
			name = rel
		}
		name = filepath.ToSlash(name)
		d, err := diff.Diff("old/"+name, ch.Old, "new/"+name, ch.New)
		if err != nil {
			return err
		}
		if _, err := w.Write(d); err != nil {
			return err
		}
	}
	return nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// A Warning is a construct left unconverted.
type Warning struct {
	Path   string
	Line   int
	Reason string
}

// A Reporter prints warnings and verbose progress messages.
// It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	w       io.Writer
	tag     *color.Color
	verbose bool
	count   int
}

// NewReporter returns a reporter writing to w. The WARNING tag is
// colored when w is a terminal. Progress messages are printed only
// if verbose is set.
func NewReporter(w io.Writer, verbose bool) *Reporter {
	tag := color.New(color.FgYellow, color.Bold)
	if f, ok := w.(*os.File); !ok || color.NoColor || (f != os.Stderr && f != os.Stdout) {
		tag.DisableColor()
	} else {
		tag.EnableColor()
	}
	return &Reporter{w: w, tag: tag, verbose: verbose}
}

// Warn prints w and counts it.
func (r *Reporter) Warn(w Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	fmt.Fprintf(r.w, "  %s: %s\n  %s at line %d\n", r.tag.Sprint("WARNING"), w.Reason, w.Path, w.Line)
}

// Verbosef prints a progress message in verbose mode.
func (r *Reporter) Verbosef(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Count returns the number of warnings printed so far.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"fmt"

	"golang.org/x/xerrors"
	"rsc.io/mockmv/syntax"
)

// An Unsupported error reports a recognized construct that cannot be
// converted faithfully. The construct is left as it was.
type Unsupported struct {
	Node   *syntax.Node
	Reason string
}

func (e *Unsupported) Error() string { return e.Reason }

func unsupported(n *syntax.Node, format string, args ...any) error {
	return &Unsupported{Node: n, Reason: fmt.Sprintf(format, args...)}
}

// An InternalError reports a construct that violates an assumption
// about a symbol the migration claims to handle, such as a known
// gomock function called with the wrong number of arguments.
type InternalError struct {
	Node *syntax.Node
	Err  error
}

func (e *InternalError) Error() string { return "internal error: " + e.Err.Error() }
func (e *InternalError) Unwrap() error { return e.Err }

// Internal returns an InternalError for n, recording the caller's frame.
func Internal(n *syntax.Node, format string, args ...any) error {
	return &InternalError{Node: n, Err: xerrors.Errorf(format, args...)}
}

// A ConflictError reports a symbol registered by two strategy families.
type ConflictError struct {
	Symbol        string
	First, Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s registered by both %s and %s", e.Symbol, e.First, e.Second)
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"rsc.io/mockmv/pass"
)

// An Error is an error at a particular source position, such as an
// internal error a pass reported for one construct of a file.
type Error struct {
	Pos token.Position
	Msg string

	Secondary []*Error
}

func (e *Error) Error() string { return e.format(e.Msg) }

// format returns msg prefixed by e's position, if known.
func (e *Error) format(msg string) string {
	if e.Pos.Filename == "" && !e.Pos.IsValid() {
		return msg
	}
	return e.Pos.String() + ": " + msg
}

type errorKey struct {
	pos token.Position
	msg string
}

// An ErrorList collects the fatal errors of a migration.
// It is also an error itself. The zero value is an empty list.
type ErrorList struct {
	errs []*Error
	set  map[errorKey]bool
}

// Add adds err to l, merging the errors of an ErrorList or
// scanner.ErrorList and taking the position of an Error, scanner.Error
// or types.Error. Duplicate errors (same position and message) are dropped.
func (l *ErrorList) Add(err error) {
	var e *Error
	switch err := err.(type) {
	case nil:
		return

	case *ErrorList:
		for _, e := range err.errs {
			l.Add(e)
		}
		return

	case scanner.ErrorList:
		for _, e := range err {
			l.Add(e)
		}
		return

	case *Error:
		e = err

	case *scanner.Error:
		e = &Error{Pos: err.Pos, Msg: err.Msg}

	case types.Error:
		e = &Error{Pos: err.Fset.Position(err.Pos), Msg: err.Msg}
		if len(l.errs) > 0 && strings.HasPrefix(err.Msg, "\t") {
			last := l.errs[len(l.errs)-1]
			last.Secondary = append(last.Secondary, e)
			return
		}

	default:
		e = &Error{Msg: err.Error()}
	}

	k := errorKey{e.Pos, e.Msg}
	if !l.set[k] {
		if l.set == nil {
			l.set = make(map[errorKey]bool)
		}
		l.errs = append(l.errs, e)
		l.set[k] = true
	}
}

// Len returns the number of errors in l.
func (l *ErrorList) Len() int { return len(l.errs) }

// Error sorts the list and returns its errors separated by newlines.
// A message repeated at more than three positions is printed once,
// at its first position, with its count.
func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return "no errors"
	}
	sort.SliceStable(l.errs, func(i, j int) bool {
		p, q := l.errs[i].Pos, l.errs[j].Pos
		switch {
		case p.Filename != q.Filename:
			return p.Filename < q.Filename
		case p.Line != q.Line:
			return p.Line < q.Line
		}
		return p.Offset < q.Offset
	})

	count := make(map[string]int)
	for _, e := range l.errs {
		count[e.Msg]++
	}
	var lines []string
	printed := make(map[string]bool)
	for _, e := range l.errs {
		n := count[e.Msg]
		if n <= 3 {
			lines = append(lines, e.format(e.Msg))
		} else if !printed[e.Msg] {
			printed[e.Msg] = true
			lines = append(lines, e.format(fmt.Sprintf("%s [× %d]", e.Msg, n)))
		} else {
			continue
		}
		for _, e2 := range e.Secondary {
			lines = append(lines, e2.Error())
		}
	}
	return strings.Join(lines, "\n")
}

// Err returns l as an error, or nil if l is empty.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// fileError converts an error from migrating the file at path into an
// Error positioned at the construct that caused it, if known.
func fileError(c *pass.Context, path string, err error) *Error {
	e := &Error{Pos: token.Position{Filename: path}, Msg: err.Error()}
	var ie *pass.InternalError
	if errors.As(err, &ie) && ie.Node != nil {
		e.Pos.Line = c.Line(ie.Node)
	}
	return e
}

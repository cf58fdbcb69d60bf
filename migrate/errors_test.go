// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"errors"
	"go/scanner"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pos(file string, line int) token.Position {
	return token.Position{Filename: file, Line: line, Column: 1}
}

func TestErrorList(t *testing.T) {
	var l ErrorList
	assert.NoError(t, l.Err())
	assert.Equal(t, "no errors", l.Error())

	l.Add(nil)
	l.Add(&Error{Pos: pos("b.go", 2), Msg: "second"})
	l.Add(&scanner.Error{Pos: pos("a.go", 7), Msg: "first"})
	l.Add(&Error{Pos: pos("b.go", 2), Msg: "second"})
	l.Add(errors.New("no position"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "no position\na.go:7:1: first\nb.go:2:1: second", l.Err().Error())

	var m ErrorList
	m.Add(&l)
	assert.Equal(t, l.Error(), m.Error())
}

func TestErrorListCollapse(t *testing.T) {
	var l ErrorList
	for i := 1; i <= 5; i++ {
		l.Add(&Error{Pos: pos("a.go", i), Msg: "amplified"})
	}
	l.Add(&Error{Pos: pos("a.go", 9), Msg: "other"})
	assert.Equal(t, "a.go:1:1: amplified [× 5]\na.go:9:1: other", l.Error())
}

func TestErrorFileOnly(t *testing.T) {
	e := &Error{Pos: token.Position{Filename: "a.go"}, Msg: "internal error: bad"}
	assert.Equal(t, "a.go: internal error: bad", e.Error())
	assert.Equal(t, "bad", (&Error{Msg: "bad"}).Error())
}

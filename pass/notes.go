// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pass

import "rsc.io/mockmv/syntax"

// Annotation kinds carrying facts from one pass to a later one.
const (
	// ControllerNote marks a mock constructor call. Its data is the
	// controller expression the mock was created with.
	ControllerNote = "controller"

	// TestingNote marks a mock constructor call. Its data is the
	// testing handle the controller was created with.
	TestingNote = "testing"

	// ExpectationNote marks a converted expectation.
	ExpectationNote = "expectation"

	// ParamNote marks an argument of a converted expectation.
	// Its data is the type of the mocked method's parameter,
	// or "" if it is unknown.
	ParamNote = "param"

	// NilableNote marks an argument whose parameter type admits nil.
	NilableNote = "param.nilable"

	// CountNote marks an expectation with a call count modifier
	// that was applied to it in a later statement.
	// Its data is the modifier call, as in "Times(2)".
	CountNote = "count"
)

func note(kind, data string) syntax.Annotation {
	return syntax.Annotation{Kind: kind, Data: data}
}

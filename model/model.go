// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model defines the semantic view of Go code that the
// migration engine consumes.
//
// A Compilation is one type-checkable unit (a package, possibly with its
// test files). Its Files carry their original text and syntax tree.
// Binding a file's current tree yields a Binder answering semantic
// questions about the nodes of that tree.
package model

import (
	"go/types"

	"rsc.io/mockmv/syntax"
)

// A File is a source file in a compilation.
type File struct {
	Path string       // file name, as it should be reported and written
	Src  []byte       // original text
	Root *syntax.Node // syntax tree of Src
}

// A Compilation is a type-checkable set of files.
type Compilation interface {
	// Path returns the import path of the compilation.
	Path() string

	// Files returns the files of the compilation.
	Files() []*File

	// Bind type-checks the compilation with f's text replaced by root
	// and returns a Binder for root. Type errors are tolerated;
	// an error is returned only if the text cannot be parsed.
	Bind(f *File, root *syntax.Node) (Binder, error)

	// Lookup returns the package-level object name in the package
	// with the given import path, if the compilation depends on it.
	Lookup(pkgPath, name string) types.Object

	// GoMod returns the path of the go.mod file governing the
	// compilation, or "" if there is none.
	GoMod() string
}

// A Binder answers semantic questions about the nodes of one tree.
// Nodes passed to a Binder must belong to the tree it was bound to.
type Binder interface {
	// Root returns the tree the binder was bound to.
	Root() *syntax.Node

	// Package returns the type-checked package.
	Package() *types.Package

	// SymbolOf returns the object denoted by n: the object of an
	// identifier or selector, the callee of a call, or the generic
	// function of an instantiation. It returns nil if there is none.
	SymbolOf(n *syntax.Node) types.Object

	// TypeOf returns the type of the expression or type n, or nil.
	TypeOf(n *syntax.Node) types.Type

	// Selection returns the selection for the selector expression n, or nil
	// if n is not a method or field selection.
	Selection(n *syntax.Node) *types.Selection

	// MembersOf returns the field or method name of t, or nil.
	MembersOf(t types.Type, name string) types.Object

	// Qualifier returns a qualifier naming packages as the file does.
	Qualifier() types.Qualifier

	// Scope returns the innermost scope containing n.
	Scope(n *syntax.Node) *types.Scope

	// UsesImport reports whether the file refers to the package
	// imported with the given path.
	UsesImport(path string) bool
}

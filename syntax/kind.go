// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"go/ast"
)

// A Kind identifies the construct a Node represents.
// Interior kinds mirror the go/ast node types.
type Kind uint8

const (
	Token Kind = iota // leaf: a single token with its trivia

	File
	Comment

	BadDecl
	GenDecl
	FuncDecl

	ImportSpec
	ValueSpec
	TypeSpec

	BadStmt
	DeclStmt
	EmptyStmt
	LabeledStmt
	ExprStmt
	SendStmt
	IncDecStmt
	AssignStmt
	GoStmt
	DeferStmt
	ReturnStmt
	BranchStmt
	BlockStmt
	IfStmt
	CaseClause
	SwitchStmt
	TypeSwitchStmt
	CommClause
	SelectStmt
	ForStmt
	RangeStmt

	BadExpr
	Ident
	Ellipsis
	BasicLit
	FuncLit
	CompositeLit
	ParenExpr
	SelectorExpr
	IndexExpr
	IndexListExpr
	SliceExpr
	TypeAssertExpr
	CallExpr
	StarExpr
	UnaryExpr
	BinaryExpr
	KeyValueExpr

	ArrayType
	StructType
	FuncType
	InterfaceType
	MapType
	ChanType

	Field
	FieldList

	numKinds
)

var kindNames = [...]string{
	Token:          "Token",
	File:           "File",
	Comment:        "Comment",
	BadDecl:        "BadDecl",
	GenDecl:        "GenDecl",
	FuncDecl:       "FuncDecl",
	ImportSpec:     "ImportSpec",
	ValueSpec:      "ValueSpec",
	TypeSpec:       "TypeSpec",
	BadStmt:        "BadStmt",
	DeclStmt:       "DeclStmt",
	EmptyStmt:      "EmptyStmt",
	LabeledStmt:    "LabeledStmt",
	ExprStmt:       "ExprStmt",
	SendStmt:       "SendStmt",
	IncDecStmt:     "IncDecStmt",
	AssignStmt:     "AssignStmt",
	GoStmt:         "GoStmt",
	DeferStmt:      "DeferStmt",
	ReturnStmt:     "ReturnStmt",
	BranchStmt:     "BranchStmt",
	BlockStmt:      "BlockStmt",
	IfStmt:         "IfStmt",
	CaseClause:     "CaseClause",
	SwitchStmt:     "SwitchStmt",
	TypeSwitchStmt: "TypeSwitchStmt",
	CommClause:     "CommClause",
	SelectStmt:     "SelectStmt",
	ForStmt:        "ForStmt",
	RangeStmt:      "RangeStmt",
	BadExpr:        "BadExpr",
	Ident:          "Ident",
	Ellipsis:       "Ellipsis",
	BasicLit:       "BasicLit",
	FuncLit:        "FuncLit",
	CompositeLit:   "CompositeLit",
	ParenExpr:      "ParenExpr",
	SelectorExpr:   "SelectorExpr",
	IndexExpr:      "IndexExpr",
	IndexListExpr:  "IndexListExpr",
	SliceExpr:      "SliceExpr",
	TypeAssertExpr: "TypeAssertExpr",
	CallExpr:       "CallExpr",
	StarExpr:       "StarExpr",
	UnaryExpr:      "UnaryExpr",
	BinaryExpr:     "BinaryExpr",
	KeyValueExpr:   "KeyValueExpr",
	ArrayType:      "ArrayType",
	StructType:     "StructType",
	FuncType:       "FuncType",
	InterfaceType:  "InterfaceType",
	MapType:        "MapType",
	ChanType:       "ChanType",
	Field:          "Field",
	FieldList:      "FieldList",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsStmt reports whether k is a statement kind.
func (k Kind) IsStmt() bool {
	return BadStmt <= k && k <= RangeStmt
}

// IsExpr reports whether k is an expression or type kind.
func (k Kind) IsExpr() bool {
	return BadExpr <= k && k <= ChanType
}

// KindOf returns the Kind corresponding to the go/ast node n.
func KindOf(n ast.Node) Kind {
	switch n.(type) {
	case *ast.File:
		return File
	case *ast.Comment, *ast.CommentGroup:
		return Comment
	case *ast.BadDecl:
		return BadDecl
	case *ast.GenDecl:
		return GenDecl
	case *ast.FuncDecl:
		return FuncDecl
	case *ast.ImportSpec:
		return ImportSpec
	case *ast.ValueSpec:
		return ValueSpec
	case *ast.TypeSpec:
		return TypeSpec
	case *ast.BadStmt:
		return BadStmt
	case *ast.DeclStmt:
		return DeclStmt
	case *ast.EmptyStmt:
		return EmptyStmt
	case *ast.LabeledStmt:
		return LabeledStmt
	case *ast.ExprStmt:
		return ExprStmt
	case *ast.SendStmt:
		return SendStmt
	case *ast.IncDecStmt:
		return IncDecStmt
	case *ast.AssignStmt:
		return AssignStmt
	case *ast.GoStmt:
		return GoStmt
	case *ast.DeferStmt:
		return DeferStmt
	case *ast.ReturnStmt:
		return ReturnStmt
	case *ast.BranchStmt:
		return BranchStmt
	case *ast.BlockStmt:
		return BlockStmt
	case *ast.IfStmt:
		return IfStmt
	case *ast.CaseClause:
		return CaseClause
	case *ast.SwitchStmt:
		return SwitchStmt
	case *ast.TypeSwitchStmt:
		return TypeSwitchStmt
	case *ast.CommClause:
		return CommClause
	case *ast.SelectStmt:
		return SelectStmt
	case *ast.ForStmt:
		return ForStmt
	case *ast.RangeStmt:
		return RangeStmt
	case *ast.BadExpr:
		return BadExpr
	case *ast.Ident:
		return Ident
	case *ast.Ellipsis:
		return Ellipsis
	case *ast.BasicLit:
		return BasicLit
	case *ast.FuncLit:
		return FuncLit
	case *ast.CompositeLit:
		return CompositeLit
	case *ast.ParenExpr:
		return ParenExpr
	case *ast.SelectorExpr:
		return SelectorExpr
	case *ast.IndexExpr:
		return IndexExpr
	case *ast.IndexListExpr:
		return IndexListExpr
	case *ast.SliceExpr:
		return SliceExpr
	case *ast.TypeAssertExpr:
		return TypeAssertExpr
	case *ast.CallExpr:
		return CallExpr
	case *ast.StarExpr:
		return StarExpr
	case *ast.UnaryExpr:
		return UnaryExpr
	case *ast.BinaryExpr:
		return BinaryExpr
	case *ast.KeyValueExpr:
		return KeyValueExpr
	case *ast.ArrayType:
		return ArrayType
	case *ast.StructType:
		return StructType
	case *ast.FuncType:
		return FuncType
	case *ast.InterfaceType:
		return InterfaceType
	case *ast.MapType:
		return MapType
	case *ast.ChanType:
		return ChanType
	case *ast.Field:
		return Field
	case *ast.FieldList:
		return FieldList
	}
	panic(fmt.Sprintf("syntax: unexpected node %T", n))
}

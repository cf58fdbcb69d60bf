// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"sort"
)

// ParseFile parses the Go source file src and returns its syntax tree.
func ParseFile(filename string, src []byte) (*Node, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	return FromAST(fset, f, src)
}

// FromAST returns the syntax tree for the file f, which must have been
// parsed from src using fset.
func FromAST(fset *token.FileSet, f *ast.File, src []byte) (*Node, error) {
	tf := fset.File(f.Pos())
	if tf == nil || tf.Size() != len(src) {
		return nil, fmt.Errorf("syntax: source does not match parsed file")
	}
	b, err := newBuilder(tf, src)
	if err != nil {
		return nil, err
	}
	root := b.node(f, len(src)+1)
	if b.i != len(b.toks) {
		return nil, fmt.Errorf("syntax: %s: %d tokens left over", tf.Name(), len(b.toks)-b.i)
	}
	root = NewNode(File, append(root.kids, b.eof)...)
	if root.Len() != len(src) || root.String() != string(src) {
		return nil, fmt.Errorf("syntax: %s: tree does not reproduce source", tf.Name())
	}
	return root, nil
}

type span struct {
	start, end int
}

type builder struct {
	tf     *token.File
	toks   []span
	leaves []*Node
	eof    *Node
	i      int
}

func newBuilder(tf *token.File, src []byte) (*builder, error) {
	b := &builder{tf: tf}
	var first error
	var s scanner.Scanner
	fset := token.NewFileSet()
	sf := fset.AddFile(tf.Name(), -1, len(src))
	s.Init(sf, src, func(pos token.Position, msg string) {
		if first == nil {
			first = fmt.Errorf("%s: %s", pos, msg)
		}
	}, 0)

	type lexeme struct {
		span
		tok  token.Token
		text string
	}
	var lex []lexeme
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit != ";" {
			// Automatically inserted.
			continue
		}
		off := sf.Offset(pos)
		text := lit
		switch {
		case tok.IsOperator():
			text = tok.String()
		case tok == token.STRING && lit != "" && lit[0] == '`':
			j := bytes.IndexByte(src[off+1:], '`')
			if j < 0 {
				return nil, fmt.Errorf("%s: unterminated raw string", fset.Position(pos))
			}
			text = string(src[off : off+j+2])
		}
		lex = append(lex, lexeme{span{off, off + len(text)}, tok, text})
	}
	if first != nil {
		return nil, first
	}

	prev := 0
	var lead Trivia
	for i, l := range lex {
		gap := string(src[prev:l.start])
		if i == 0 {
			lead = ParseTrivia(gap)
		} else {
			var trail Trivia
			trail, lead = splitGap(gap)
			b.leaves[i-1] = b.leaves[i-1].WithTrailing(trail)
		}
		b.toks = append(b.toks, l.span)
		b.leaves = append(b.leaves, NewToken(l.tok, l.text).WithLeading(lead))
		prev = l.end
	}
	if len(lex) == 0 {
		lead = ParseTrivia(string(src))
	} else {
		var trail Trivia
		trail, lead = splitGap(string(src[prev:]))
		b.leaves[len(lex)-1] = b.leaves[len(lex)-1].WithTrailing(trail)
	}
	b.eof = NewToken(token.EOF, "").WithLeading(lead)
	return b, nil
}

// node builds the subtree for n, whose text ends at offset end.
func (b *builder) node(n ast.Node, end int) *Node {
	var kids []*Node
	for _, c := range b.children(n) {
		for b.i < len(b.toks) && b.toks[b.i].start < c.start {
			kids = append(kids, b.leaves[b.i])
			b.i++
		}
		kids = append(kids, b.node(c.node, c.end))
	}
	for b.i < len(b.toks) && b.toks[b.i].start < end {
		kids = append(kids, b.leaves[b.i])
		b.i++
	}
	return NewNode(KindOf(n), kids...)
}

type child struct {
	node ast.Node
	span
}

// children returns the immediate ast children of n in source order.
func (b *builder) children(n ast.Node) []child {
	var list []child
	ast.Inspect(n, func(c ast.Node) bool {
		if c == n {
			return true
		}
		switch c.(type) {
		case nil, *ast.CommentGroup, *ast.Comment:
			return false
		}
		list = append(list, child{c, span{b.tf.Offset(startOf(c, n)), b.tf.Offset(c.End())}})
		return false
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].start < list[j].start })
	return list
}

// startOf returns the position at which n begins as a child of parent.
// The type of a function declaration begins at its parameters;
// the func keyword, receiver and name belong to the declaration.
func startOf(n, parent ast.Node) token.Pos {
	if ft, ok := n.(*ast.FuncType); ok {
		if _, ok := parent.(*ast.FuncDecl); ok {
			if ft.TypeParams != nil {
				return ft.TypeParams.Pos()
			}
			return ft.Params.Pos()
		}
	}
	return n.Pos()
}

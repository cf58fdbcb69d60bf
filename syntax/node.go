// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax implements an immutable, full-fidelity Go syntax tree.
//
// Every byte of a source file, including white space and comments, belongs
// to exactly one token of the tree, so printing a tree built from a file
// reproduces the file exactly. Trees are never modified in place: every
// edit returns a new root that shares all untouched subtrees with the old.
//
// Interior nodes correspond one-to-one with go/ast nodes and carry a Kind
// naming the ast type. Leaves are tokens (Kind Token) holding the token
// text together with its leading and trailing trivia. By convention the
// trailing trivia of a token runs up to and including the first line
// ending after it; any further blank lines, comments and indentation lead
// the next token.
package syntax

import (
	"go/token"
	"strings"
)

// An Annotation is an opaque (kind, data) tag attached to a node.
// Annotations survive edits of the node's ancestors, but not
// replacement of the node itself.
type Annotation struct {
	Kind string
	Data string
}

// A Node is a node in a syntax tree.
type Node struct {
	kind     Kind
	tok      token.Token
	text     string
	leading  Trivia
	trailing Trivia
	kids     []*Node
	notes    []Annotation
	width    int
}

// NewToken returns a new token leaf with no trivia.
func NewToken(tok token.Token, text string) *Node {
	return &Node{kind: Token, tok: tok, text: text, width: len(text)}
}

// NewNode returns a new interior node with the given children.
// Nil children are dropped.
func NewNode(kind Kind, kids ...*Node) *Node {
	if kind == Token {
		panic("syntax: NewNode of Token")
	}
	n := &Node{kind: kind}
	for _, k := range kids {
		if k != nil {
			n.kids = append(n.kids, k)
			n.width += k.width
		}
	}
	return n
}

// NewIdent returns a new Ident node for name.
func NewIdent(name string) *Node {
	return NewNode(Ident, NewToken(token.IDENT, name))
}

// Kind returns the kind of n.
func (n *Node) Kind() Kind { return n.kind }

// Tok returns the token of a leaf, or token.ILLEGAL for interior nodes.
func (n *Node) Tok() token.Token {
	if n.kind != Token {
		return token.ILLEGAL
	}
	return n.tok
}

// IsToken reports whether n is a leaf for the token tok.
func (n *Node) IsToken(tok token.Token) bool {
	return n != nil && n.kind == Token && n.tok == tok
}

// Children returns the children of n.
// The result must not be modified.
func (n *Node) Children() []*Node {
	return n.kids[:len(n.kids):len(n.kids)]
}

// NumChildren returns the number of children of n.
func (n *Node) NumChildren() int { return len(n.kids) }

// Child returns the i'th child of n.
func (n *Node) Child(i int) *Node { return n.kids[i] }

// Len returns the length of the text of n, including all trivia.
func (n *Node) Len() int { return n.width }

// String returns the complete text of n, including its outer trivia.
func (n *Node) String() string {
	var b strings.Builder
	b.Grow(n.width)
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.kind == Token {
		for _, p := range n.leading {
			b.WriteString(p.Text)
		}
		b.WriteString(n.text)
		for _, p := range n.trailing {
			b.WriteString(p.Text)
		}
		return
	}
	for _, k := range n.kids {
		k.write(b)
	}
}

// Text returns the text of n without its outer leading and trailing trivia.
func (n *Node) Text() string {
	if n.kind == Token {
		return n.text
	}
	s := n.String()
	return s[n.Leading().len() : len(s)-n.Trailing().len()]
}

// Name returns the name of an Ident node, or "" for any other node.
func (n *Node) Name() string {
	if n == nil || n.kind != Ident || len(n.kids) != 1 {
		return ""
	}
	return n.kids[0].text
}

// FirstToken returns the first token in n, or nil if n has none.
func (n *Node) FirstToken() *Node {
	if n.kind == Token {
		return n
	}
	for _, k := range n.kids {
		if t := k.FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token in n, or nil if n has none.
func (n *Node) LastToken() *Node {
	if n.kind == Token {
		return n
	}
	for i := len(n.kids) - 1; i >= 0; i-- {
		if t := n.kids[i].LastToken(); t != nil {
			return t
		}
	}
	return nil
}

// Leading returns the leading trivia of n's first token.
func (n *Node) Leading() Trivia {
	if t := n.FirstToken(); t != nil {
		return t.leading
	}
	return nil
}

// Trailing returns the trailing trivia of n's last token.
func (n *Node) Trailing() Trivia {
	if t := n.LastToken(); t != nil {
		return t.trailing
	}
	return nil
}

// WithLeading returns a copy of n whose first token has leading trivia t.
func (n *Node) WithLeading(t Trivia) *Node {
	if n.kind == Token {
		c := *n
		c.leading = t
		c.width = c.leading.len() + len(c.text) + c.trailing.len()
		return &c
	}
	for i, k := range n.kids {
		if k.FirstToken() != nil {
			return n.withChild(i, k.WithLeading(t))
		}
	}
	return n
}

// WithTrailing returns a copy of n whose last token has trailing trivia t.
func (n *Node) WithTrailing(t Trivia) *Node {
	if n.kind == Token {
		c := *n
		c.trailing = t
		c.width = c.leading.len() + len(c.text) + c.trailing.len()
		return &c
	}
	for i := len(n.kids) - 1; i >= 0; i-- {
		if n.kids[i].LastToken() != nil {
			return n.withChild(i, n.kids[i].WithTrailing(t))
		}
	}
	return n
}

// Bare returns a copy of n with no outer leading or trailing trivia.
func (n *Node) Bare() *Node {
	return n.WithLeading(nil).WithTrailing(nil)
}

// WithChildren returns a copy of n, keeping its kind and annotations,
// with the given children.
func (n *Node) WithChildren(kids []*Node) *Node {
	if n.kind == Token {
		panic("syntax: WithChildren of Token")
	}
	c := &Node{kind: n.kind, notes: n.notes}
	for _, k := range kids {
		if k != nil {
			c.kids = append(c.kids, k)
			c.width += k.width
		}
	}
	return c
}

func (n *Node) withChild(i int, k *Node) *Node {
	if n.kids[i] == k {
		return n
	}
	kids := append([]*Node(nil), n.kids...)
	kids[i] = k
	return n.WithChildren(kids)
}

// Annotations returns the annotations of n with the given kind.
// If kind is "", Annotations returns all annotations of n.
func (n *Node) Annotations(kind string) []Annotation {
	var list []Annotation
	for _, a := range n.notes {
		if kind == "" || a.Kind == kind {
			list = append(list, a)
		}
	}
	return list
}

// Annotation returns the first annotation of n with the given kind.
func (n *Node) Annotation(kind string) (Annotation, bool) {
	for _, a := range n.notes {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// HasAnnotation reports whether n has an annotation of the given kind.
func (n *Node) HasAnnotation(kind string) bool {
	_, ok := n.Annotation(kind)
	return ok
}

// WithAnnotation returns a copy of n carrying the additional annotation a.
// If n already carries a, WithAnnotation returns n.
func (n *Node) WithAnnotation(a Annotation) *Node {
	for _, old := range n.notes {
		if old == a {
			return n
		}
	}
	c := *n
	c.notes = append(n.notes[:len(n.notes):len(n.notes)], a)
	return &c
}

// WithoutAnnotations returns a copy of n with all annotations of the
// given kind removed.
func (n *Node) WithoutAnnotations(kind string) *Node {
	if !n.HasAnnotation(kind) {
		return n
	}
	c := *n
	c.notes = nil
	for _, a := range n.notes {
		if a.Kind != kind {
			c.notes = append(c.notes, a)
		}
	}
	return &c
}

// Inspect traverses the tree rooted at n in depth-first order.
// If f returns false, Inspect skips the children of that node.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, k := range n.kids {
		Inspect(k, f)
	}
}

// Find returns the nodes in the tree rooted at n for which f reports true,
// in depth-first order.
func Find(n *Node, f func(*Node) bool) []*Node {
	var list []*Node
	Inspect(n, func(x *Node) bool {
		if f(x) {
			list = append(list, x)
		}
		return true
	})
	return list
}

// Equal reports whether a and b are the same syntax,
// ignoring trivia and annotations.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind || len(a.kids) != len(b.kids) {
		return false
	}
	if a.kind == Token {
		return a.tok == b.tok && a.text == b.text
	}
	for i := range a.kids {
		if !Equal(a.kids[i], b.kids[i]) {
			return false
		}
	}
	return true
}

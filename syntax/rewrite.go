// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"go/token"
	"strings"
)

// Path returns the nodes from root down to target, inclusive.
// It returns nil if target does not occur in the tree rooted at root.
func Path(root, target *Node) []*Node {
	if root == nil || target == nil {
		return nil
	}
	var path []*Node
	var find func(n *Node) bool
	find = func(n *Node) bool {
		path = append(path, n)
		if n == target {
			return true
		}
		for _, k := range n.kids {
			if find(k) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !find(root) {
		return nil
	}
	return path
}

// Parent returns the parent of target in the tree rooted at root, or nil.
func Parent(root, target *Node) *Node {
	path := Path(root, target)
	if len(path) < 2 {
		return nil
	}
	return path[len(path)-2]
}

// Replace returns a copy of root in which old has been replaced by new.
// Only the ancestors of old are copied. If old does not occur in root,
// or old == new, Replace returns root itself.
func Replace(root, old, new *Node) *Node {
	if old == new {
		return root
	}
	path := Path(root, old)
	if path == nil {
		return root
	}
	n := new
	for i := len(path) - 2; i >= 0; i-- {
		p := path[i]
		j := p.indexOf(path[i+1])
		kids := append([]*Node(nil), p.kids...)
		if n == nil {
			kids = append(kids[:j], kids[j+1:]...)
		} else {
			kids[j] = n
		}
		n = p.WithChildren(kids)
	}
	return n
}

// Rewrite rebuilds the tree rooted at n bottom-up, replacing each node x
// by f(x) after its children have been rewritten. If f returns its
// argument everywhere, Rewrite returns n itself.
func Rewrite(n *Node, f func(*Node) *Node) *Node {
	if n.kind != Token {
		var kids []*Node
		for i, k := range n.kids {
			k1 := Rewrite(k, f)
			if k1 != k && kids == nil {
				kids = append([]*Node(nil), n.kids...)
			}
			if kids != nil {
				kids[i] = k1
			}
		}
		if kids != nil {
			n = n.WithChildren(kids)
		}
	}
	return f(n)
}

func (n *Node) indexOf(kid *Node) int {
	for i, k := range n.kids {
		if k == kid {
			return i
		}
	}
	return -1
}

// Offset returns the byte offset of target, including its leading trivia,
// within the text of root. It returns -1 if target does not occur in root.
func Offset(root, target *Node) int {
	path := Path(root, target)
	if path == nil {
		return -1
	}
	off := 0
	for i := 0; i < len(path)-1; i++ {
		for _, k := range path[i].kids {
			if k == path[i+1] {
				break
			}
			off += k.width
		}
	}
	return off
}

// Span returns the byte offsets of the start and end of target within
// root, excluding target's outer trivia.
func Span(root, target *Node) (start, end int) {
	off := Offset(root, target)
	if off < 0 {
		return -1, -1
	}
	start = off + target.Leading().len()
	end = off + target.width - target.Trailing().len()
	if end < start {
		end = start
	}
	return start, end
}

// Line returns the 1-based line number on which target begins within root,
// or 0 if target does not occur in root.
func Line(root, target *Node) int {
	start, _ := Span(root, target)
	if start < 0 {
		return 0
	}
	return 1 + strings.Count(root.String()[:start], "\n")
}

// LineEnding returns the line ending used by the text of n,
// or "" if the text contains no line ending.
func LineEnding(n *Node) string {
	nl := ""
	Inspect(n, func(x *Node) bool {
		if nl != "" {
			return false
		}
		if x.kind == Token {
			if nl = x.leading.Newline(); nl == "" {
				nl = x.trailing.Newline()
			}
		}
		return true
	})
	return nl
}

// bounds returns the indexes in n.kids of the tokens delimiting
// the elements of the list n. An absent delimiter is reported as
// -1 or len(n.kids).
func (n *Node) bounds() (open, close int) {
	open, close = -1, len(n.kids)
	var lt, rt token.Token
	switch n.kind {
	case CallExpr:
		lt, rt = token.LPAREN, token.RPAREN
	case CompositeLit, BlockStmt:
		lt, rt = token.LBRACE, token.RBRACE
	case GenDecl:
		lt, rt = token.LPAREN, token.RPAREN
	case FieldList:
		if len(n.kids) > 0 && n.kids[0].kind == Token {
			open = 0
		}
		if len(n.kids) > 0 && n.kids[len(n.kids)-1].kind == Token {
			close = len(n.kids) - 1
		}
		return open, close
	case CaseClause, CommClause:
		for i, k := range n.kids {
			if k.IsToken(token.COLON) {
				return i, close
			}
		}
		return open, close
	default:
		return open, close
	}
	for i, k := range n.kids {
		if k.IsToken(lt) {
			open = i
			break
		}
	}
	if open < 0 {
		return open, close
	}
	for i := len(n.kids) - 1; i > open; i-- {
		if n.kids[i].IsToken(rt) {
			close = i
			break
		}
	}
	return open, close
}

func (n *Node) elemIndexes() []int {
	open, close := n.bounds()
	var list []int
	for i := open + 1; i < close; i++ {
		if n.kids[i].kind != Token {
			list = append(list, i)
		}
	}
	return list
}

// Elems returns the elements of the list node n: the arguments of a call,
// the elements of a composite literal, the statements of a block or
// clause, the fields of a field list, or the specs of a declaration.
func Elems(n *Node) []*Node {
	var list []*Node
	for _, i := range n.elemIndexes() {
		list = append(list, n.kids[i])
	}
	return list
}

func insertKids(kids []*Node, i int, add ...*Node) []*Node {
	out := make([]*Node, 0, len(kids)+len(add))
	out = append(out, kids[:i]...)
	out = append(out, add...)
	return append(out, kids[i:]...)
}

// InsertArgs returns a copy of the comma-separated list n (a call or
// composite literal) with args inserted before its i'th element.
// The new elements adopt the layout of their neighbors: if the list
// has one element per line, so do the new ones.
func InsertArgs(n *Node, i int, args ...*Node) *Node {
	if len(args) == 0 {
		return n
	}
	idx := n.elemIndexes()
	open, close := n.bounds()
	kids := n.kids
	sep := func(t Trivia) *Node { return NewToken(token.COMMA, ",").WithTrailing(t) }
	switch {
	case len(idx) == 0:
		// f() or f(<trivia>)
		var add []*Node
		for j, a := range args {
			if j > 0 {
				add = append(add, sep(Blank(" ")))
			}
			add = append(add, a.Bare())
		}
		return n.WithChildren(insertKids(kids, open+1, add...))

	case i < len(idx):
		at := idx[i]
		ref := kids[at]
		before := kids[at-1] // open paren or comma
		gap := Blank(" ")
		if before.Trailing().HasNewline() {
			gap = EOL(before.Trailing().Newline())
		}
		var add []*Node
		for _, a := range args {
			var lead Trivia
			if gap.HasNewline() {
				lead = Blank(ref.Leading().Indent())
			}
			add = append(add, a.Bare().WithLeading(lead), sep(gap))
		}
		kids = append([]*Node(nil), kids...)
		if !gap.HasNewline() {
			add[0] = add[0].WithLeading(ref.Leading())
			kids[at] = ref.WithLeading(nil)
		}
		return n.WithChildren(insertKids(kids, at, add...))

	default:
		last := idx[len(idx)-1]
		ref := kids[last]
		at := last + 1
		indent := ref.Leading().Indent()
		if at < close && kids[at].IsToken(token.COMMA) {
			// Trailing comma, as in one element per line.
			comma := kids[at]
			var add []*Node
			for _, a := range args {
				add = append(add, a.Bare().WithLeading(Blank(indent)), sep(comma.Trailing()))
			}
			return n.WithChildren(insertKids(kids, at+1, add...))
		}
		gap := Blank(" ")
		if kids[last-1].Trailing().HasNewline() {
			gap = EOL(kids[last-1].Trailing().Newline())
		}
		var lead Trivia
		if gap.HasNewline() {
			lead = Blank(indent)
		}
		kids = append([]*Node(nil), kids...)
		kids[last] = ref.WithTrailing(nil)
		var add []*Node
		for _, a := range args {
			add = append(add, sep(gap), a.Bare().WithLeading(lead))
		}
		add[len(add)-1] = add[len(add)-1].WithTrailing(ref.Trailing())
		return n.WithChildren(insertKids(kids, at, add...))
	}
}

// RemoveArg returns a copy of the comma-separated list n with its i'th
// element and the adjoining comma removed.
func RemoveArg(n *Node, i int) *Node {
	idx := n.elemIndexes()
	if i < 0 || i >= len(idx) {
		return n
	}
	_, close := n.bounds()
	at := idx[i]
	kids := append([]*Node(nil), n.kids...)
	x := kids[at]
	if at+1 < close && kids[at+1].IsToken(token.COMMA) {
		if i+1 < len(idx) && !kids[at+1].Trailing().HasNewline() {
			// Same line: the next element takes over this one's position.
			next := at + 2
			kids[next] = kids[next].WithLeading(x.Leading())
		}
		return n.WithChildren(append(kids[:at], kids[at+2:]...))
	}
	if i == 0 {
		return n.WithChildren(append(kids[:at], kids[at+1:]...))
	}
	// Last element without trailing comma: drop the preceding comma,
	// keeping the element's trailing trivia on the new last element.
	prev := idx[i-1]
	kids[prev] = kids[prev].WithTrailing(x.Trailing())
	return n.WithChildren(append(kids[:prev+1], kids[at+1:]...))
}

// InsertLines returns a copy of the line-oriented list n (a block, a
// clause, a field list or a parenthesized declaration) with items
// inserted before its i'th element, one per line, indented like their
// neighbors.
func InsertLines(n *Node, i int, items ...*Node) *Node {
	if len(items) == 0 {
		return n
	}
	idx := n.elemIndexes()
	open, close := n.bounds()
	nl := LineEnding(n)
	if nl == "" {
		nl = "\n"
	}
	var at int
	var indent string
	switch {
	case i < len(idx):
		at = idx[i]
		indent = n.kids[at].Leading().Indent()
	case len(idx) > 0:
		at = idx[len(idx)-1] + 1
		for at < close && n.kids[at].IsToken(token.SEMICOLON) {
			at++
		}
		indent = n.kids[idx[len(idx)-1]].Leading().Indent()
	default:
		at = open + 1
		if close < len(n.kids) {
			indent = n.kids[close].Leading().Indent() + "\t"
		}
	}
	kids := append([]*Node(nil), n.kids...)
	if at > 0 && !kids[at-1].Trailing().HasNewline() {
		// The line before the insertion point does not end there.
		kids[at-1] = kids[at-1].WithTrailing(append(kids[at-1].Trailing().Clone(), Piece{Newline, nl}))
	}
	var add []*Node
	for _, x := range items {
		var lead Trivia
		for j := blankLines(x.Leading()); j > 0; j-- {
			lead = append(lead, Piece{Newline, nl})
		}
		lead = append(lead, Blank(indent)...)
		add = append(add, x.WithLeading(lead).WithTrailing(EOL(nl)))
	}
	return n.WithChildren(insertKids(kids, at, add...))
}

// ReplaceLine returns a copy of the line-oriented list n with its i'th
// element replaced by items. The first item keeps the leading trivia of
// the replaced element, including any comments.
func ReplaceLine(n *Node, i int, items ...*Node) *Node {
	idx := n.elemIndexes()
	if i < 0 || i >= len(idx) {
		return n
	}
	if len(items) == 0 {
		return RemoveLine(n, i)
	}
	at := idx[i]
	old := n.kids[at]
	kids := append([]*Node(nil), n.kids...)
	kids[at] = items[0].WithLeading(old.Leading()).WithTrailing(old.Trailing())
	n = n.WithChildren(kids)
	if len(items) > 1 {
		n = InsertLines(n, i+1, items[1:]...)
	}
	return n
}

// RemoveLine returns a copy of the line-oriented list n with its i'th
// element removed, together with its trivia and any explicit semicolon
// following it. Blank lines separating the following element from the
// removed one are kept only if the removed element was itself separated
// from its predecessor.
func RemoveLine(n *Node, i int) *Node {
	idx := n.elemIndexes()
	if i < 0 || i >= len(idx) {
		return n
	}
	_, close := n.bounds()
	at := idx[i]
	end := at + 1
	for end < close && n.kids[end].IsToken(token.SEMICOLON) {
		end++
	}
	x := n.kids[at]
	kids := append([]*Node(nil), n.kids...)
	if end < close {
		next := kids[end]
		blank := blankLines(next.Leading())
		if i == 0 {
			blank = blankLines(x.Leading())
		} else if bx := blankLines(x.Leading()); bx > blank {
			blank = bx
		}
		kids[end] = next.WithLeading(withBlankLines(next.Leading(), blank, LineEnding(n)))
	}
	return n.WithChildren(append(kids[:at], kids[end:]...))
}

// blankLines returns the number of line endings in t before its first comment.
func blankLines(t Trivia) int {
	b := 0
	for _, p := range t {
		switch p.Kind {
		case Newline:
			b++
		case LineComment, BlockComment:
			return b
		}
	}
	return b
}

// withBlankLines returns t with the line endings before its first
// comment replaced by exactly b line endings.
func withBlankLines(t Trivia, b int, nl string) Trivia {
	if nl == "" {
		nl = "\n"
	}
	k := len(t)
	for j, p := range t {
		if p.Kind == LineComment || p.Kind == BlockComment {
			k = j
			break
		}
	}
	var out Trivia
	for j := 0; j < b; j++ {
		out = append(out, Piece{Newline, nl})
	}
	out = append(out, Blank(Trivia(t[:k]).Indent())...)
	return append(out, t[k:]...)
}

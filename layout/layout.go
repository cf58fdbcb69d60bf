// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout restores conventional formatting to rewritten code.
//
// Rewrites that synthesize multi-line code, such as a function literal
// built from a template, mark the new subtree with Mark. Format then
// reformats each marked subtree as gofmt would, indented to fit where
// it sits in the file, and leaves the rest of the file byte for byte
// as it was.
package layout

import (
	"fmt"
	"go/format"
	"go/token"
	"strings"

	"rsc.io/mockmv/syntax"
)

// Marker is the annotation kind requesting reformatting.
const Marker = "layout"

// Mark returns n marked for reformatting.
func Mark(n *syntax.Node) *syntax.Node {
	return n.WithAnnotation(syntax.Annotation{Kind: Marker})
}

// Format returns root with every marked subtree reformatted and all
// marks removed. A marked subtree containing a multi-line raw string is
// left alone, since reindenting it would change the string.
// Formatting a tree with no marks returns it unchanged.
//
// Reformatted subtrees are reparsed, so other annotations on and inside
// them are dropped: Format should be the last step of a rewrite.
func Format(root *syntax.Node) (*syntax.Node, error) {
	var marked []*syntax.Node
	syntax.Inspect(root, func(n *syntax.Node) bool {
		if n.HasAnnotation(Marker) {
			marked = append(marked, n)
			return false
		}
		return true
	})
	for _, n := range marked {
		x, err := reformat(root, n)
		if err != nil {
			return nil, err
		}
		root = syntax.Replace(root, n, x)
	}
	return syntax.Rewrite(root, func(n *syntax.Node) *syntax.Node {
		return n.WithoutAnnotations(Marker)
	}), nil
}

// reformat returns the gofmt'ed form of n, which is part of root.
func reformat(root, n *syntax.Node) (*syntax.Node, error) {
	if hasRawLines(n) {
		return n, nil
	}
	nl := syntax.LineEnding(root)
	if nl == "" {
		nl = "\n"
	}
	text := strings.ReplaceAll(n.Text(), "\r\n", "\n")

	var out string
	var err error
	if n.Kind().IsStmt() {
		out, err = gofmt("package p\nfunc _() {\n"+text+"\n}\n", "package p\n\nfunc _() {\n", "\n}\n")
		if err == nil {
			lines := strings.Split(out, "\n")
			for i, line := range lines {
				lines[i] = strings.TrimPrefix(line, "\t")
			}
			out = strings.Join(lines, "\n")
		}
	} else {
		out, err = gofmt("package p\nvar _ = "+text+"\n", "package p\n\nvar _ = ", "\n")
	}
	if err != nil {
		return nil, fmt.Errorf("line %d: reformatting %s: %v", syntax.Line(root, n), n.Kind(), err)
	}

	indent := lineIndent(root, n)
	lines := strings.Split(out, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	out = strings.Join(lines, nl)

	var x *syntax.Node
	if n.Kind().IsStmt() {
		var list []*syntax.Node
		list, err = syntax.ParseStmts(out)
		if err == nil && len(list) != 1 {
			err = fmt.Errorf("reformatted statement parsed as %d statements", len(list))
		}
		if err == nil {
			x = list[0]
		}
	} else {
		x, err = syntax.ParseExpr(out)
	}
	if err != nil {
		return nil, fmt.Errorf("line %d: reparsing %s: %v", syntax.Line(root, n), n.Kind(), err)
	}
	return x.WithLeading(n.Leading()).WithTrailing(n.Trailing()), nil
}

// gofmt formats the file src and returns the formatted text
// between the expected head and tail.
func gofmt(src, head, tail string) (string, error) {
	b, err := format.Source([]byte(src))
	if err != nil {
		return "", err
	}
	s := string(b)
	if !strings.HasPrefix(s, head) || !strings.HasSuffix(s, tail) || len(s) < len(head)+len(tail) {
		return "", fmt.Errorf("unexpected gofmt output %q", s)
	}
	return s[len(head) : len(s)-len(tail)], nil
}

// lineIndent returns the white space starting the line on which n begins.
func lineIndent(root, n *syntax.Node) string {
	s := root.String()
	off, _ := syntax.Span(root, n)
	line := s[strings.LastIndex(s[:off], "\n")+1 : off]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// hasRawLines reports whether n contains a raw string spanning lines.
func hasRawLines(n *syntax.Node) bool {
	found := false
	syntax.Inspect(n, func(x *syntax.Node) bool {
		if x.IsToken(token.STRING) && strings.HasPrefix(x.Text(), "`") && strings.Contains(x.Text(), "\n") {
			found = true
		}
		return !found
	})
	return found
}

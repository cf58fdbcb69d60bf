// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "strings"

// A PieceKind classifies one piece of trivia.
type PieceKind uint8

const (
	Space        PieceKind = iota // run of blanks, tabs, form feeds, stray carriage returns
	Newline                       // "\n" or "\r\n"
	LineComment                   // "// ..." without its line ending
	BlockComment                  // "/* ... */"
)

// A Piece is a run of trivia text of a single kind.
type Piece struct {
	Kind PieceKind
	Text string
}

// Trivia is the non-semantic text attached to one side of a token.
type Trivia []Piece

func (t Trivia) String() string {
	switch len(t) {
	case 0:
		return ""
	case 1:
		return t[0].Text
	}
	var b strings.Builder
	for _, p := range t {
		b.WriteString(p.Text)
	}
	return b.String()
}

func (t Trivia) len() int {
	n := 0
	for _, p := range t {
		n += len(p.Text)
	}
	return n
}

// HasNewline reports whether t contains a line ending.
func (t Trivia) HasNewline() bool {
	for _, p := range t {
		if p.Kind == Newline {
			return true
		}
	}
	return false
}

// HasComment reports whether t contains a comment.
func (t Trivia) HasComment() bool {
	for _, p := range t {
		if p.Kind == LineComment || p.Kind == BlockComment {
			return true
		}
	}
	return false
}

// Newline returns the first line ending in t, or "" if there is none.
func (t Trivia) Newline() string {
	for _, p := range t {
		if p.Kind == Newline {
			return p.Text
		}
	}
	return ""
}

// Indent returns the blank text at the end of t that follows its last
// line ending or comment. For the leading trivia of a token that begins
// a line, this is the token's indentation.
func (t Trivia) Indent() string {
	indent := ""
	for _, p := range t {
		if p.Kind == Space {
			indent += p.Text
		} else {
			indent = ""
		}
	}
	return indent
}

// Clone returns a copy of t that shares no storage with it.
func (t Trivia) Clone() Trivia {
	if t == nil {
		return nil
	}
	return append(Trivia(nil), t...)
}

// Blank returns trivia consisting of the single blank text s.
func Blank(s string) Trivia {
	if s == "" {
		return nil
	}
	return Trivia{{Space, s}}
}

// EOL returns trivia consisting of the line ending nl.
func EOL(nl string) Trivia {
	if nl == "" {
		nl = "\n"
	}
	return Trivia{{Newline, nl}}
}

// ParseTrivia splits s, which must consist only of blanks, line endings and
// comments, into pieces.
func ParseTrivia(s string) Trivia {
	var t Trivia
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\n':
			t = append(t, Piece{Newline, "\n"})
			i++
		case s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n':
			t = append(t, Piece{Newline, "\r\n"})
			i += 2
		case strings.HasPrefix(s[i:], "//"):
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				j = len(s) - i
			} else if j > 0 && s[i+j-1] == '\r' {
				j--
			}
			t = append(t, Piece{LineComment, s[i : i+j]})
			i += j
		case strings.HasPrefix(s[i:], "/*"):
			j := strings.Index(s[i+2:], "*/")
			if j < 0 {
				j = len(s) - i
			} else {
				j += 4
			}
			t = append(t, Piece{BlockComment, s[i : i+j]})
			i += j
		default:
			j := i
			for j < len(s) && s[j] != '\n' && !(s[j] == '\r' && j+1 < len(s) && s[j+1] == '\n') && !strings.HasPrefix(s[j:], "//") && !strings.HasPrefix(s[j:], "/*") {
				j++
			}
			t = append(t, Piece{Space, s[i:j]})
			i = j
		}
	}
	return t
}

// splitGap divides the trivia between two tokens into the trailing trivia
// of the first (up to and including the first line ending) and the leading
// trivia of the second.
func splitGap(gap string) (trailing, leading Trivia) {
	t := ParseTrivia(gap)
	for i, p := range t {
		if p.Kind == Newline {
			return t[:i+1 : i+1], t[i+1:]
		}
	}
	return t, nil
}

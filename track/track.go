// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package track finds logically identical nodes across edits of
// immutable syntax trees.
//
// Tracking a node attaches an annotation carrying a process-wide unique id.
// The annotation rides along as the tree is edited elsewhere, so the node
// can be found again in any later root, and the node as it was when first
// tracked remains available as its original.
package track

import (
	"strconv"
	"sync"
	"sync/atomic"

	"rsc.io/mockmv/syntax"
)

// Kind is the annotation kind used for tracking ids.
const Kind = "track"

var (
	lastID    atomic.Uint64
	originals sync.Map // id -> *syntax.Node
)

// ID returns the tracking id of n, if any.
func ID(n *syntax.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	a, ok := n.Annotation(Kind)
	return a.Data, ok
}

// Track returns a copy of root in which each of nodes carries a tracking
// annotation, together with the annotated nodes in the same order.
// A node that is already tracked keeps its id.
// Nodes not found in root are returned annotated but otherwise ignored.
func Track(root *syntax.Node, nodes ...*syntax.Node) (*syntax.Node, []*syntax.Node) {
	ids := make(map[*syntax.Node]string)
	for _, n := range nodes {
		if _, ok := ids[n]; ok {
			continue
		}
		id, ok := ID(n)
		if !ok {
			id = strconv.FormatUint(lastID.Add(1), 10)
			originals.Store(id, n)
		}
		ids[n] = id
	}
	done := make(map[*syntax.Node]*syntax.Node)
	root = annotate(root, ids, done)
	out := make([]*syntax.Node, len(nodes))
	for i, n := range nodes {
		if t, ok := done[n]; ok {
			out[i] = t
		} else {
			out[i] = n.WithAnnotation(syntax.Annotation{Kind: Kind, Data: ids[n]})
		}
	}
	return root, out
}

func annotate(n *syntax.Node, ids map[*syntax.Node]string, done map[*syntax.Node]*syntax.Node) *syntax.Node {
	if len(done) == len(ids) {
		return n
	}
	orig := n
	var kids []*syntax.Node
	for i, k := range n.Children() {
		k1 := annotate(k, ids, done)
		if k1 != k && kids == nil {
			kids = append([]*syntax.Node(nil), n.Children()...)
		}
		if kids != nil {
			kids[i] = k1
		}
	}
	if kids != nil {
		n = n.WithChildren(kids)
	}
	if id, ok := ids[orig]; ok {
		n = n.WithAnnotation(syntax.Annotation{Kind: Kind, Data: id})
		done[orig] = n
	}
	return n
}

// Original returns the node as it was when it was first tracked,
// or nil if n is not tracked.
func Original(n *syntax.Node) *syntax.Node {
	id, ok := ID(n)
	if !ok {
		return nil
	}
	if o, ok := originals.Load(id); ok {
		return o.(*syntax.Node)
	}
	return nil
}

// Current returns the node in root carrying the same tracking id as n,
// or nil if root no longer contains it.
func Current(root, n *syntax.Node) *syntax.Node {
	id, ok := ID(n)
	if !ok {
		return nil
	}
	var found *syntax.Node
	syntax.Inspect(root, func(x *syntax.Node) bool {
		if found != nil {
			return false
		}
		if xid, ok := ID(x); ok && xid == id {
			found = x
			return false
		}
		return true
	})
	return found
}

// An Index maps the tracking ids in one root to their nodes.
type Index struct {
	root *syntax.Node
	ids  map[string]*syntax.Node
}

// NewIndex returns an index of the tracked nodes in root.
func NewIndex(root *syntax.Node) *Index {
	ix := &Index{root: root, ids: make(map[string]*syntax.Node)}
	syntax.Inspect(root, func(x *syntax.Node) bool {
		for _, a := range x.Annotations(Kind) {
			if _, ok := ix.ids[a.Data]; !ok {
				ix.ids[a.Data] = x
			}
		}
		return true
	})
	return ix
}

// Root returns the root the index was built from.
func (ix *Index) Root() *syntax.Node { return ix.root }

// Current is like the package function Current, using the index.
func (ix *Index) Current(n *syntax.Node) *syntax.Node {
	id, ok := ID(n)
	if !ok {
		return nil
	}
	return ix.ids[id]
}

// A Scope records, for each node it tracks, the node as it appeared in
// the root passed to Track. A rewrite pass uses one Scope to get back from
// a tracked node to the version its semantic model was built from.
type Scope struct {
	start map[string]*syntax.Node
}

// NewScope returns a new, empty scope.
func NewScope() *Scope {
	return &Scope{start: make(map[string]*syntax.Node)}
}

// Track is like the package function Track but also records
// each node as given in the scope.
func (s *Scope) Track(root *syntax.Node, nodes ...*syntax.Node) (*syntax.Node, []*syntax.Node) {
	root, out := Track(root, nodes...)
	for i, n := range out {
		id, _ := ID(n)
		if _, ok := s.start[id]; !ok {
			s.start[id] = nodes[i]
		}
	}
	return root, out
}

// Start returns the node carrying n's tracking id as it was when this
// scope tracked it, or nil.
func (s *Scope) Start(n *syntax.Node) *syntax.Node {
	id, ok := ID(n)
	if !ok {
		return nil
	}
	return s.start[id]
}

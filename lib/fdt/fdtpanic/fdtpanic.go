// SPDX-License-Identifier: GPL-2.0-or-later

// Package fdtpanic is the infallible facade over lib/fdt, for callers
// that have already established their input is well-formed and would
// rather panic than thread an error return through every call site
// (§4.D "two decoding modes"). It is a thin wrapper, not a parallel
// implementation: every function here does nothing but call the
// fallible lib/fdt operation and unwrap its error.
package fdtpanic

import (
	"fmt"

	"github.com/go-fdt/fdt/lib/fdt"
)

// Tree is the infallible facade over *fdt.Tree.
type Tree struct {
	*fdt.Tree
}

func wrap(t *fdt.Tree) Tree { return Tree{Tree: t} }

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	return v
}

func mustOK[T any](v T, ok bool, err error) T {
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	if !ok {
		panic("fdtpanic: not found")
	}
	return v
}

// Open panics on any parse error instead of returning one.
func Open(buf []byte) Tree {
	t, err := fdt.Open(buf)
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	return wrap(t)
}

// OpenAligned panics on any parse error instead of returning one.
func OpenAligned(buf []byte) Tree {
	t, err := fdt.OpenAligned(buf)
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	return wrap(t)
}

// Root returns the tree's root node (infallible: Root never errors in
// the fallible API either, kept for symmetry with the rest of the
// facade).
func (t Tree) Root() fdt.Node { return t.Tree.Root() }

// FindNode panics if path does not resolve to a node.
func (t Tree) FindNode(path string) fdt.Node {
	return mustOK(t.Tree.FindNode(path))
}

// FindNodeByName panics if no node has the given base name.
func (t Tree) FindNodeByName(name string) fdt.Node {
	return mustOK(t.Tree.FindNodeByName(name))
}

// ResolvePHandle panics if no node carries the given phandle.
func (t Tree) ResolvePHandle(handle uint32) fdt.Node {
	return must(t.Tree.ResolvePHandle(handle))
}

// MemoryReservations panics on a malformed memory-reservation block.
func (t Tree) MemoryReservations() []fdt.MemReservation {
	return must(t.Tree.MemoryReservations())
}

// AllNodes returns the depth-first iterator unwrapped; a parse error
// mid-iteration still panics at the Next call that discovers it.
func (t Tree) AllNodes() *AllNodesIter {
	return &AllNodesIter{inner: t.Tree.AllNodes()}
}

// AllNodesIter is the infallible facade over *fdt.AllNodesIter.
type AllNodesIter struct {
	inner *fdt.AllNodesIter
}

// Next returns the next (depth, node), or ok=false at end of
// iteration; it panics if iteration ended because of a parse error.
func (it *AllNodesIter) Next() (depth int, node fdt.Node, ok bool) {
	depth, node, ok = it.inner.Next()
	if !ok {
		if err := it.inner.Err(); err != nil {
			panic(fmt.Sprintf("fdtpanic: %v", err))
		}
	}
	return depth, node, ok
}

// Node is the infallible facade over fdt.Node.
type Node struct {
	fdt.Node
}

// Wrap adapts a fallible Node into its infallible facade.
func Wrap(n fdt.Node) Node { return Node{Node: n} }

// Name panics on a malformed name (should not happen for any node
// obtained from a validated Tree).
func (n Node) Name() (name, unitAddr string, hasUnitAddr bool) {
	name, unitAddr, hasUnitAddr, err := n.Node.Name()
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	return name, unitAddr, hasUnitAddr
}

// Parent panics if n is the root.
func (n Node) Parent() Node {
	return Wrap(must(n.Node.Parent()))
}

// RawProperty panics only on a parse error, not when name is absent:
// callers still get (value, ok) and decide what "absent" means.
func (n Node) RawProperty(name string) ([]byte, bool) {
	val, ok, err := n.Node.RawProperty(name)
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	return val, ok
}

// Child panics only on a parse error, mirroring RawProperty.
func (n Node) Child(name string) (Node, bool) {
	child, ok, err := n.Node.Child(name)
	if err != nil {
		panic(fmt.Sprintf("fdtpanic: %v", err))
	}
	return Wrap(child), ok
}

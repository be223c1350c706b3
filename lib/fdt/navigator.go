// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import "strings"

// maxDepth bounds the parent-stack array AllNodesIter keeps inline, so
// depth-first iteration needs no heap allocation (§5, §9 "bounded
// parent stack"). Iteration ends, without an error, at the first node
// whose depth would be maxDepth or more, rather than growing the stack.
const maxDepth = 16

// AllNodesIter performs depth-first iteration over a tree, yielding
// (depth, node) pairs with the root at depth 0.
type AllNodesIter struct {
	root    Node
	started bool
	stack   [maxDepth]*ChildIter
	top     int // -1 before the root is yielded and once iteration is exhausted
	err     error
	done    bool
}

// AllNodes returns a depth-first iterator over every node in t,
// starting with the root at depth 0.
func (t *Tree) AllNodes() *AllNodesIter {
	return &AllNodesIter{root: t.Root(), top: -1}
}

// Next returns the next (depth, node) pair, or ok=false once the tree
// is exhausted or a parse error terminated iteration (see Err).
func (it *AllNodesIter) Next() (depth int, node Node, ok bool) {
	if it.done {
		return 0, Node{}, false
	}
	if !it.started {
		it.started = true
		it.top = 0
		it.stack[0] = it.root.Children()
		return 0, it.root, true
	}
	for it.top >= 0 {
		child, ok := it.stack[it.top].Next()
		if !ok {
			if err := it.stack[it.top].Err(); err != nil {
				it.err, it.done = err, true
				return 0, Node{}, false
			}
			it.top--
			continue
		}
		depth := it.top + 1
		if depth >= maxDepth {
			it.done = true
			return 0, Node{}, false
		}
		it.top++
		it.stack[it.top] = child.Children()
		return depth, child, true
	}
	it.done = true
	return 0, Node{}, false
}

// Err returns the error (if any) that ended iteration early.
func (it *AllNodesIter) Err() error { return it.err }

// FindNodeByName returns the first node (in depth-first order) whose
// base name equals name.
func (t *Tree) FindNodeByName(name string) (Node, bool, error) {
	it := t.AllNodes()
	for {
		_, n, ok := it.Next()
		if !ok {
			return Node{}, false, it.Err()
		}
		base, _, _, err := n.Name()
		if err != nil {
			return Node{}, false, err
		}
		if base == name {
			return n, true, nil
		}
	}
}

// FindAllNodesWithName returns every node (in depth-first order) whose
// base name equals name.
func (t *Tree) FindAllNodesWithName(name string) ([]Node, error) {
	var out []Node
	it := t.AllNodes()
	for {
		_, n, ok := it.Next()
		if !ok {
			return out, it.Err()
		}
		base, _, _, err := n.Name()
		if err != nil {
			return out, err
		}
		if base == name {
			out = append(out, n)
		}
	}
}

// splitPath splits a devicetree path into its non-empty components; it
// returns ok=false for any path that doesn't start with '/', or that
// contains an empty (double-slash) component.
func splitPath(path string) (components []string, ok bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	if path == "/" {
		return nil, true
	}
	parts := strings.Split(path[1:], "/")
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

// FindNode resolves a "/"-separated path, per §4.E: each component is
// matched either by base name or by exact "name@unit". If no node
// matches, FindNode additionally consults /aliases to resolve the
// path's first segment as an alias (e.g. "ethernet0/phy" where
// "ethernet0" is an alias for some absolute path).
func (t *Tree) FindNode(path string) (Node, bool, error) {
	n, ok, err := t.findNodeDirect(path)
	if err != nil || ok {
		return n, ok, err
	}
	return t.findNodeViaAlias(path)
}

func (t *Tree) findNodeDirect(path string) (Node, bool, error) {
	components, ok := splitPath(path)
	if !ok {
		return Node{}, false, nil
	}
	cur := t.Root()
	for _, want := range components {
		child, found, err := cur.Child(want)
		if err != nil {
			return Node{}, false, err
		}
		if !found {
			return Node{}, false, nil
		}
		cur = child
	}
	return cur, true, nil
}

func (t *Tree) findNodeViaAlias(path string) (Node, bool, error) {
	components, ok := splitPath("/" + strings.TrimPrefix(path, "/"))
	if !ok || len(components) == 0 {
		return Node{}, false, nil
	}
	aliases, found, err := t.findNodeDirect("/aliases")
	if err != nil || !found {
		return Node{}, false, err
	}
	target, found, err := aliases.RawProperty(components[0])
	if err != nil || !found {
		return Node{}, false, err
	}
	resolved := strings.TrimRight(string(target), "\x00")
	rest := append([]string{}, components[1:]...)
	fullPath := resolved
	if len(rest) > 0 {
		fullPath = strings.TrimRight(resolved, "/") + "/" + strings.Join(rest, "/")
	}
	return t.findNodeDirect(fullPath)
}

// ResolvePHandle returns the first node (in depth-first order) whose
// "phandle" (or legacy "linux,phandle") property equals handle.
func (t *Tree) ResolvePHandle(handle uint32) (Node, error) {
	it := t.AllNodes()
	for {
		_, n, ok := it.Next()
		if !ok {
			if err := it.Err(); err != nil {
				return Node{}, err
			}
			return Node{}, &MissingPHandleNode{PHandle: handle}
		}
		for _, propName := range [...]string{"phandle", "linux,phandle"} {
			val, found, err := n.RawProperty(propName)
			if err != nil {
				return Node{}, err
			}
			if !found || len(val) != 4 {
				continue
			}
			v := uint32(val[0])<<24 | uint32(val[1])<<16 | uint32(val[2])<<8 | uint32(val[3])
			if v == handle {
				return n, nil
			}
		}
	}
}

// compatibleWith reports whether a raw "compatible" property's
// NUL-separated string list contains any of wants.
func compatibleWith(raw []byte, wants []string) bool {
	for _, entry := range strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00") {
		for _, w := range wants {
			if entry == w {
				return true
			}
		}
	}
	return false
}

// FindCompatible returns the first node (in depth-first order) whose
// "compatible" property contains any of wants.
func (t *Tree) FindCompatible(wants []string) (Node, bool, error) {
	it := t.AllNodes()
	for {
		_, n, ok := it.Next()
		if !ok {
			return Node{}, false, it.Err()
		}
		val, found, err := n.RawProperty("compatible")
		if err != nil {
			return Node{}, false, err
		}
		if found && compatibleWith(val, wants) {
			return n, true, nil
		}
	}
}

// FindAllCompatible returns every node (in depth-first order) whose
// "compatible" property contains any of wants.
func (t *Tree) FindAllCompatible(wants []string) ([]Node, error) {
	var out []Node
	it := t.AllNodes()
	for {
		_, n, ok := it.Next()
		if !ok {
			return out, it.Err()
		}
		val, found, err := n.RawProperty("compatible")
		if err != nil {
			return out, err
		}
		if found && compatibleWith(val, wants) {
			out = append(out, n)
		}
	}
}

// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"strings"

	"github.com/go-fdt/fdt/lib/fdtio"
)

// Node is a zero-copy handle to one node in the structure block. It is
// cheap to copy: both this and parent are slices that alias the tree's
// original input buffer, and strings aliases the tree's strings block.
//
// Per §4.D, "this" starts at the node's BEGIN_NODE payload (i.e. right
// at the node's name), not at the BEGIN_NODE token itself.
type Node struct {
	this    []byte
	parent  []byte
	hasPar  bool
	strings []byte
	aligned bool
}

func (n Node) cursor(buf []byte) *fdtio.Cursor {
	if n.aligned {
		return fdtio.NewAligned(buf)
	}
	return fdtio.NewUnaligned(buf)
}

// Name parses the node's leading C string and splits it at '@' into a
// base name and an optional unit address.
func (n Node) Name() (name string, unitAddr string, hasUnitAddr bool, err error) {
	c := n.cursor(n.this)
	s, err := c.AdvanceCStr()
	if err != nil {
		return "", "", false, &ParseError{Err: err}
	}
	if at := strings.IndexByte(s, '@'); at >= 0 {
		return s[:at], s[at+1:], true, nil
	}
	return s, "", false, nil
}

// DisplayName renders the node's full name ("name@unit" or "name"), or
// "/" for the root node, whose name is the empty string.
func (n Node) DisplayName() string {
	name, unit, hasUnit, err := n.Name()
	if err != nil {
		return "<invalid>"
	}
	if name == "" && !hasUnit {
		return "/"
	}
	if hasUnit {
		return name + "@" + unit
	}
	return name
}

// HasParent reports whether n has a parent (false only for the root).
func (n Node) HasParent() bool { return n.hasPar }

// Parent returns n's parent node, or ErrMissingParent for the root.
func (n Node) Parent() (Node, error) {
	if !n.hasPar {
		return Node{}, ErrMissingParent
	}
	return Node{this: n.parent, hasPar: true, strings: n.strings, aligned: n.aligned}, nil
}

// propsCursor returns a cursor positioned right after the node's name,
// i.e. at the start of its property list.
func (n Node) propsCursor() (*fdtio.Cursor, error) {
	c := n.cursor(n.this)
	if _, err := c.AdvanceCStr(); err != nil {
		return nil, &ParseError{Path: n.DisplayName(), Err: err}
	}
	return c, nil
}

// Property is one (name, raw value) pair of a node.
type Property struct {
	Name  string
	Value []byte
}

func (n Node) resolvePropName(off uint32) (string, error) {
	if int(off) >= len(n.strings) {
		return "", &fdtio.Error{Kind: fdtio.UnexpectedEndOfData, Off: int(off)}
	}
	c := n.cursor(n.strings[off:])
	return c.AdvanceCStr()
}

// PropertyIter walks a node's properties in structure-block order,
// stopping at the first BEGIN_NODE/END_NODE.
type PropertyIter struct {
	node Node
	cur  *fdtio.Cursor
	err  error
	done bool
}

// Properties returns an iterator over n's properties.
func (n Node) Properties() *PropertyIter {
	c, err := n.propsCursor()
	if err != nil {
		return &PropertyIter{node: n, err: err, done: true}
	}
	return &PropertyIter{node: n, cur: c}
}

// Next returns the next property, or ok=false once the property list is
// exhausted (either because a child/sibling boundary was hit, or
// because of a parse error, distinguishable via Err()).
func (it *PropertyIter) Next() (Property, bool) {
	if it.done {
		return Property{}, false
	}
	tok, err := it.cur.PeekToken()
	if err != nil {
		it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: err}, true
		return Property{}, false
	}
	if tok != fdtio.Prop {
		it.done = true
		return Property{}, false
	}
	if _, err := it.cur.AdvanceToken(); err != nil {
		it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: err}, true
		return Property{}, false
	}
	hdr, val, err := it.cur.ParseRawProperty()
	if err != nil {
		it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: err}, true
		return Property{}, false
	}
	name, err := it.node.resolvePropName(hdr.NameOffset)
	if err != nil {
		it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: err}, true
		return Property{}, false
	}
	return Property{Name: name, Value: val}, true
}

// Err returns the error (if any) that ended iteration early.
func (it *PropertyIter) Err() error { return it.err }

// RawProperty linearly searches the node's properties for name.
func (n Node) RawProperty(name string) ([]byte, bool, error) {
	it := n.Properties()
	for {
		p, ok := it.Next()
		if !ok {
			return nil, false, it.Err()
		}
		if p.Name == name {
			return p.Value, true, nil
		}
	}
}

// skipSubtree advances c, currently positioned at a node's name (just
// past its BEGIN_NODE token), past that node's name, properties, and
// every descendant, leaving c positioned just past the matching
// END_NODE. This is the "scoped re-walk" of §4.D: nesting depth is
// tracked by counting BEGIN_NODE/END_NODE tokens, so no recursion or
// allocation is needed to skip an arbitrarily large subtree.
func skipSubtree(c *fdtio.Cursor) error {
	if _, err := c.AdvanceCStr(); err != nil {
		return err
	}
	depth := 0
	for {
		tok, err := c.AdvanceToken()
		if err != nil {
			return err
		}
		switch tok {
		case fdtio.BeginNode:
			if _, err := c.AdvanceCStr(); err != nil {
				return err
			}
			depth++
		case fdtio.Prop:
			if _, _, err := c.ParseRawProperty(); err != nil {
				return err
			}
		case fdtio.EndNode:
			if depth == 0 {
				return nil
			}
			depth--
		case fdtio.End:
			return &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}
		}
	}
}

// ChildIter walks a node's immediate children in structure-block order.
type ChildIter struct {
	node Node
	cur  *fdtio.Cursor
	err  error
	done bool
}

// Children returns an iterator over n's immediate children.
func (n Node) Children() *ChildIter {
	c, err := n.propsCursor()
	if err != nil {
		return &ChildIter{node: n, err: err, done: true}
	}
	// Skip past the property list to reach the first child/END_NODE.
	for {
		tok, err := c.PeekToken()
		if err != nil {
			return &ChildIter{node: n, err: &ParseError{Path: n.DisplayName(), Err: err}, done: true}
		}
		if tok != fdtio.Prop {
			break
		}
		if _, err := c.AdvanceToken(); err != nil {
			return &ChildIter{node: n, err: &ParseError{Path: n.DisplayName(), Err: err}, done: true}
		}
		if _, _, err := c.ParseRawProperty(); err != nil {
			return &ChildIter{node: n, err: &ParseError{Path: n.DisplayName(), Err: err}, done: true}
		}
	}
	return &ChildIter{node: n, cur: c}
}

// Next returns the next child, or ok=false once siblings are exhausted.
func (it *ChildIter) Next() (Node, bool) {
	if it.done {
		return Node{}, false
	}
	tok, err := it.cur.AdvanceToken()
	if err != nil {
		it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: err}, true
		return Node{}, false
	}
	switch tok {
	case fdtio.BeginNode:
		childThis := it.cur.Remaining()
		if err := skipSubtree(it.cur); err != nil {
			it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: err}, true
			return Node{}, false
		}
		child := Node{
			this: childThis, parent: it.node.this, hasPar: true,
			strings: it.node.strings, aligned: it.node.aligned,
		}
		return child, true
	case fdtio.EndNode, fdtio.End:
		it.done = true
		return Node{}, false
	default:
		it.err, it.done = &ParseError{Path: it.node.DisplayName(), Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: it.cur.Offset()}}, true
		return Node{}, false
	}
}

// Err returns the error (if any) that ended iteration early.
func (it *ChildIter) Err() error { return it.err }

// Child looks up an immediate child by its full name ("name" or
// "name@unit"); a component without '@' matches on base name only.
func (n Node) Child(name string) (Node, bool, error) {
	wantBase, wantUnit, wantHasUnit := splitName(name)
	it := n.Children()
	for {
		child, ok := it.Next()
		if !ok {
			return Node{}, false, it.Err()
		}
		base, unit, hasUnit, err := child.Name()
		if err != nil {
			return Node{}, false, err
		}
		if base != wantBase {
			continue
		}
		if wantHasUnit {
			if hasUnit && unit == wantUnit {
				return child, true, nil
			}
			continue
		}
		return child, true, nil
	}
}

func splitName(s string) (base, unit string, hasUnit bool) {
	if at := strings.IndexByte(s, '@'); at >= 0 {
		return s[:at], s[at+1:], true
	}
	return s, "", false
}

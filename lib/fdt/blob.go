// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"unsafe"

	"github.com/go-fdt/fdt/lib/fdtio"
)

// MemReservation is one entry of the memory-reservation block: a
// physical address range the firmware reserves from the OS's general
// allocator.
type MemReservation struct {
	Address uint64
	Size    uint64
}

// Tree is a parsed, validated, zero-copy view of a devicetree blob. It
// borrows buf for its entire lifetime; no method on Tree or on any Node
// it hands out ever copies structure- or strings-block bytes.
type Tree struct {
	buf     []byte
	header  Header
	structS []byte
	strings []byte
	aligned bool
}

// Open parses buf with no alignment assumption. It is always safe to
// call, regardless of how buf was obtained.
func Open(buf []byte) (*Tree, error) {
	return open(buf, false)
}

// OpenAligned parses buf the same way Open does, but asserts that buf's
// first byte is 4-byte-aligned in memory (true of anything returned by
// the Go allocator at a multiple-of-4 length, and always true of a
// []byte freshly read from a file or embedded via go:embed at the start
// of an object). OpenAligned and Open build functionally identical
// trees; OpenAligned only elides the defensive unaligned-assembly code
// path in the byte cursor.
func OpenAligned(buf []byte) (*Tree, error) {
	return open(buf, true)
}

func open(buf []byte, aligned bool) (*Tree, error) {
	h, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}
	if uint32(len(buf)) < h.TotalSize {
		return nil, ErrBufferTooSmall
	}
	buf = buf[:h.TotalSize]

	structStart, structEnd, err := h.structRange(len(buf))
	if err != nil {
		return nil, err
	}
	stringsStart, stringsEnd, err := h.stringsRange(len(buf))
	if err != nil {
		return nil, err
	}

	t := &Tree{
		buf:     buf,
		header:  h,
		structS: buf[structStart:structEnd],
		strings: buf[stringsStart:stringsEnd],
		aligned: aligned,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromPtr parses a devicetree blob starting at ptr: it is unsafe
// because the caller warrants that at least 40 bytes (and, once the
// header is read, TotalSize bytes) starting at ptr are readable memory
// for the duration of the call and the resulting Tree's lifetime. This
// is the entry point a freestanding bootloader or early-boot kernel
// uses when it has only a physical/virtual address for the blob, not a
// Go slice.
func FromPtr(ptr unsafe.Pointer) (*Tree, error) {
	if ptr == nil {
		return nil, ErrBadPtr
	}
	hdrBuf := unsafe.Slice((*byte)(ptr), headerSize)
	h, err := parseHeader(hdrBuf)
	if err != nil {
		return nil, err
	}
	fullBuf := unsafe.Slice((*byte)(ptr), h.TotalSize)
	return open(fullBuf, false)
}

// validate checks the structural invariants of §3: nesting is balanced,
// properties precede children, the stream ends in FDT_END, and the root
// node exists and is named "".
func (t *Tree) validate() error {
	c := t.cursor(t.structS)
	depth := 0
	sawRoot := false
	sawPropAfterChild := make([]bool, 0, 16)
	for {
		tok, err := c.AdvanceToken()
		if err != nil {
			return &ParseError{Err: err}
		}
		switch tok {
		case fdtio.BeginNode:
			name, err := c.AdvanceCStr()
			if err != nil {
				return &ParseError{Err: err}
			}
			if depth == 0 {
				if name != "" {
					return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}}
				}
				sawRoot = true
			}
			depth++
			sawPropAfterChild = append(sawPropAfterChild, false)
		case fdtio.Prop:
			if depth == 0 {
				return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}}
			}
			if sawPropAfterChild[depth-1] {
				return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}}
			}
			hdr, val, err := c.ParseRawProperty()
			if err != nil {
				return &ParseError{Err: err}
			}
			if int(hdr.NameOffset) >= len(t.strings) {
				return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedEndOfData, Off: int(hdr.NameOffset)}}
			}
			if _, err := t.cursor(t.strings[hdr.NameOffset:]).AdvanceCStr(); err != nil {
				return &ParseError{Err: err}
			}
			if int(hdr.Len) != len(val) {
				return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}}
			}
		case fdtio.EndNode:
			if depth == 0 {
				return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}}
			}
			depth--
			sawPropAfterChild = sawPropAfterChild[:depth]
			if depth > 0 {
				sawPropAfterChild[depth-1] = true
			}
		case fdtio.End:
			if depth != 0 {
				return &ParseError{Err: &fdtio.Error{Kind: fdtio.UnexpectedToken, Off: c.Offset()}}
			}
			if !sawRoot {
				return &MissingRequiredNode{Path: "/"}
			}
			return nil
		}
	}
}

func (t *Tree) cursor(buf []byte) *fdtio.Cursor {
	if t.aligned {
		return fdtio.NewAligned(buf)
	}
	return fdtio.NewUnaligned(buf)
}

// Root returns the tree's root node. validate has already confirmed the
// structure block starts (after any leading FDT_NOP) with a BEGIN_NODE
// for a node named "".
func (t *Tree) Root() Node {
	c := t.cursor(t.structS)
	_, _ = c.AdvanceToken() // BEGIN_NODE, guaranteed present by validate
	return Node{this: c.Remaining(), hasPar: false, strings: t.strings, aligned: t.aligned}
}

// RawData returns the whole validated blob (truncated to TotalSize).
func (t *Tree) RawData() []byte { return t.buf }

// TotalSize is the header's declared total size.
func (t *Tree) TotalSize() uint32 { return t.header.TotalSize }

// Strings returns the raw strings block.
func (t *Tree) Strings() []byte { return t.strings }

// Header returns the parsed 40-byte header.
func (t *Tree) Header() Header { return t.header }

// MemoryReservations returns the memory-reservation block entries,
// stopping at the all-zero terminator entry.
func (t *Tree) MemoryReservations() ([]MemReservation, error) {
	var out []MemReservation
	off := int(t.header.OffMemRsvMap)
	for {
		if off+16 > len(t.buf) {
			return nil, ErrBufferTooSmall
		}
		c := t.cursor(t.buf[off : off+16])
		addr, err := c.AdvanceU64()
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		size, err := c.AdvanceU64()
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		off += 16
		if addr == 0 && size == 0 {
			return out, nil
		}
		out = append(out, MemReservation{Address: addr, Size: size})
	}
}

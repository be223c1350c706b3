// SPDX-License-Identifier: GPL-2.0-or-later

package fdtio

// Cursor is a non-owning, allocation-free read head over a borrowed
// []byte. It never copies the underlying bytes; every Advance* method
// either returns a sub-slice of buf or a scalar decoded from one.
//
// Two construction modes share this single implementation (per the
// "single fallible core, thin adapter" shape used elsewhere in this
// module for the panic/fallible duplication): NewAligned promises the
// caller's slice starts on a 4-byte boundary relative to the start of
// the structure block, so u32/u64 reads can assemble the granule
// directly; NewUnaligned makes no such promise and always assembles
// multi-byte values a byte at a time. Both modes decode bit-identical
// trees; the distinction only matters to a caller who can avoid
// address-translation overhead upstream of this package.
type Cursor struct {
	buf     []byte
	off     int
	aligned bool
}

// NewAligned constructs a Cursor over buf, asserting that buf begins on
// a 4-byte boundary relative to the owning structure block.
func NewAligned(buf []byte) *Cursor {
	return &Cursor{buf: buf, aligned: true}
}

// NewUnaligned constructs a Cursor over buf with no alignment promise.
func NewUnaligned(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Aligned reports whether this cursor was constructed with NewAligned.
func (c *Cursor) Aligned() bool { return c.aligned }

// Offset is the number of bytes already consumed.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the unconsumed tail of the cursor's buffer. The
// returned slice aliases the cursor's backing array.
func (c *Cursor) Remaining() []byte { return c.buf[c.off:] }

// Len returns the number of unconsumed bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

// Clone returns an independent cursor positioned identically to c; the
// two cursors share the backing array but advancing one does not
// advance the other. The token peek uses it to read a token without
// moving the cursor.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	return &cp
}

func (c *Cursor) advance(n int) []byte {
	s := c.buf[c.off : c.off+n]
	c.off += n
	return s
}

// AdvanceU32 reads one big-endian 32-bit cell and advances past it.
func (c *Cursor) AdvanceU32() (uint32, error) {
	if err := needNBytes(c.off, c.Len(), 4); err != nil {
		return 0, err
	}
	b := c.advance(4)
	if c.aligned {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
	}
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v, nil
}

// AdvanceU64 reads two consecutive big-endian 32-bit cells as one
// 64-bit big-endian value (the encoding memory-reservation entries and
// 64-bit property scalars use) and advances past it.
func (c *Cursor) AdvanceU64() (uint64, error) {
	if err := needNBytes(c.off, c.Len(), 8); err != nil {
		return 0, err
	}
	b := c.advance(8)
	if c.aligned {
		return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
			uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7]), nil
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v, nil
}

// AdvanceCStr reads a NUL-terminated string (the NUL itself is not
// included in the returned string) and advances past it, including the
// terminator, rounded up to a 4-byte boundary.
func (c *Cursor) AdvanceCStr() (string, error) {
	rest := c.Remaining()
	nul := -1
	for i, b := range rest {
		if b == 0 {
			nul = i
			break
		}
	}
	if nul < 0 {
		return "", &Error{Kind: InvalidCStrValue, Off: c.off}
	}
	s := string(rest[:nul])
	padded := align4(nul + 1)
	if err := needNBytes(c.off, c.Len(), padded); err != nil {
		return "", err
	}
	c.advance(padded)
	return s, nil
}

// AdvanceAligned skips n bytes, rounded up to a multiple of 4.
func (c *Cursor) AdvanceAligned(n int) error {
	padded := align4(n)
	if err := needNBytes(c.off, c.Len(), padded); err != nil {
		return err
	}
	c.advance(padded)
	return nil
}

// peekRawToken reads the token at the cursor's current position without
// consuming it and without skipping NOPs.
func (c *Cursor) peekRawToken() (Token, error) {
	if err := needNBytes(c.off, c.Len(), 4); err != nil {
		return 0, err
	}
	clone := c.Clone()
	v, err := clone.AdvanceU32()
	if err != nil {
		return 0, err
	}
	t := Token(v)
	if !t.Valid() {
		return 0, &Error{Kind: InvalidTokenValue, Off: c.off}
	}
	return t, nil
}

// SkipNops consumes a (possibly empty) run of FDT_NOP tokens, leaving
// the cursor positioned at the first non-NOP token.
func (c *Cursor) SkipNops() error {
	for {
		tok, err := c.peekRawToken()
		if err != nil {
			return err
		}
		if tok != Nop {
			return nil
		}
		if _, err := c.AdvanceU32(); err != nil {
			return err
		}
	}
}

// PeekToken reads the next non-NOP token without consuming it; any run
// of FDT_NOP immediately preceding it is silently consumed.
func (c *Cursor) PeekToken() (Token, error) {
	if err := c.SkipNops(); err != nil {
		return 0, err
	}
	return c.peekRawToken()
}

// AdvanceToken reads and consumes the next non-NOP token; any run of
// FDT_NOP immediately preceding it is silently consumed.
func (c *Cursor) AdvanceToken() (Token, error) {
	if err := c.SkipNops(); err != nil {
		return 0, err
	}
	v, err := c.AdvanceU32()
	if err != nil {
		return 0, err
	}
	t := Token(v)
	if !t.Valid() {
		return 0, &Error{Kind: InvalidTokenValue, Off: c.off - 4}
	}
	return t, nil
}

// RawPropertyHeader is the fixed-shape prefix of an FDT_PROP record.
type RawPropertyHeader struct {
	Len        uint32
	NameOffset uint32
}

// ParseRawProperty consumes an FDT_PROP record's header and value, with
// the FDT_PROP token itself already consumed by the caller, and
// advances past the value, rounded up to a 4-byte boundary. The
// returned slice aliases the cursor's backing array.
func (c *Cursor) ParseRawProperty() (RawPropertyHeader, []byte, error) {
	length, err := c.AdvanceU32()
	if err != nil {
		return RawPropertyHeader{}, nil, err
	}
	nameOff, err := c.AdvanceU32()
	if err != nil {
		return RawPropertyHeader{}, nil, err
	}
	if err := needNBytes(c.off, c.Len(), int(length)); err != nil {
		return RawPropertyHeader{}, nil, err
	}
	value := c.advance(int(length))
	pad := align4(int(length)) - int(length)
	if pad > 0 {
		if err := needNBytes(c.off, c.Len(), pad); err != nil {
			return RawPropertyHeader{}, nil, err
		}
		c.advance(pad)
	}
	return RawPropertyHeader{Len: length, NameOffset: nameOff}, value, nil
}

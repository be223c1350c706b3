// SPDX-License-Identifier: GPL-2.0-or-later

// Package fdttest builds well-formed devicetree blobs in memory, for
// use by other packages' tests. It mirrors the token-by-token assembly
// approach of other_examples' riscv FDT builder, generalized into a
// reusable helper instead of one machine-specific generator function.
package fdttest

import (
	"bytes"
	"encoding/binary"
)

const (
	tokBeginNode = 0x00000001
	tokEndNode   = 0x00000002
	tokProp      = 0x00000003
	tokEnd       = 0x00000005

	fdtMagic      = 0xd00dfeed
	fdtVersion    = 17
	fdtLastCompat = 16
)

// Builder assembles a structure block and strings block token by token.
type Builder struct {
	structure bytes.Buffer
	strings   bytes.Buffer
	stringOff map[string]uint32
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{stringOff: make(map[string]uint32)}
}

func (b *Builder) putU32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.structure.Write(buf[:])
}

func (b *Builder) pad4() {
	for b.structure.Len()%4 != 0 {
		b.structure.WriteByte(0)
	}
}

func (b *Builder) addString(s string) uint32 {
	if off, ok := b.stringOff[s]; ok {
		return off
	}
	off := uint32(b.strings.Len())
	b.strings.WriteString(s)
	b.strings.WriteByte(0)
	b.stringOff[s] = off
	return off
}

// BeginNode opens a node named name (base name, or "base@unit").
func (b *Builder) BeginNode(name string) {
	b.putU32(tokBeginNode)
	b.structure.WriteString(name)
	b.structure.WriteByte(0)
	b.pad4()
}

// EndNode closes the innermost open node.
func (b *Builder) EndNode() {
	b.putU32(tokEndNode)
}

func (b *Builder) prop(name string, value []byte) {
	b.putU32(tokProp)
	b.putU32(uint32(len(value)))
	b.putU32(b.addString(name))
	b.structure.Write(value)
	b.pad4()
}

// PropBytes adds a raw-bytes property.
func (b *Builder) PropBytes(name string, value []byte) { b.prop(name, value) }

// PropEmpty adds a presence-only boolean property.
func (b *Builder) PropEmpty(name string) { b.prop(name, nil) }

// PropString adds a NUL-terminated string property.
func (b *Builder) PropString(name, value string) {
	b.prop(name, append([]byte(value), 0))
}

// PropStringList adds a NUL-separated string-list property.
func (b *Builder) PropStringList(name string, values []string) {
	var buf bytes.Buffer
	for _, v := range values {
		buf.WriteString(v)
		buf.WriteByte(0)
	}
	b.prop(name, buf.Bytes())
}

// PropU32 adds a single-cell u32 property.
func (b *Builder) PropU32(name string, value uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	b.prop(name, buf[:])
}

// PropU32Array adds a packed-cells property from raw 32-bit cells.
func (b *Builder) PropU32Array(name string, values []uint32) {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint32(buf[i*4:], v)
	}
	b.prop(name, buf)
}

// Build finalizes the blob: one all-zero memory-reservation entry, the
// accumulated structure block terminated with FDT_END, and the
// strings block.
func (b *Builder) Build() []byte {
	b.putU32(tokEnd)

	for b.strings.Len()%4 != 0 {
		b.strings.WriteByte(0)
	}

	const headerSize = 40
	memRsvOff := uint32(headerSize)
	memRsvSize := uint32(16)
	structOff := memRsvOff + memRsvSize
	structSize := uint32(b.structure.Len())
	stringsOff := structOff + structSize
	stringsSize := uint32(b.strings.Len())
	total := stringsOff + stringsSize

	out := make([]byte, total)
	put := func(off int, v uint32) { binary.BigEndian.PutUint32(out[off:], v) }
	put(0, fdtMagic)
	put(4, total)
	put(8, structOff)
	put(12, stringsOff)
	put(16, memRsvOff)
	put(20, fdtVersion)
	put(24, fdtLastCompat)
	put(28, 0) // boot_cpuid_phys
	put(32, stringsSize)
	put(36, structSize)

	copy(out[structOff:], b.structure.Bytes())
	copy(out[stringsOff:], b.strings.Bytes())
	return out
}

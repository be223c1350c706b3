// SPDX-License-Identifier: GPL-2.0-or-later

// Package fdt implements the zero-copy Flattened Devicetree (FDT/DTB)
// reader: header validation, the node/property handle, and the tree
// navigator. Every value returned by this package borrows the []byte
// the caller passed to Open; nothing here allocates or copies node
// bytes, and nothing here owns the input.
package fdt

import (
	"fmt"

	"github.com/go-fdt/fdt/lib/fdtio"
)

// Magic is the fixed big-endian u32 that must open every DTB.
const Magic = 0xD00DFEED

const headerSize = 40

// Header is the fixed 40-byte header at offset 0 of a DTB, verbatim
// (all fields big-endian u32).
type Header struct {
	Magic            uint32
	TotalSize        uint32
	OffDTStruct      uint32
	OffDTStrings     uint32
	OffMemRsvMap     uint32
	Version          uint32
	LastCompVersion  uint32
	BootCPUIDPhys    uint32
	SizeDTStrings    uint32
	SizeDTStruct     uint32
}

func parseHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, ErrBufferTooSmall
	}
	c := fdtio.NewAligned(buf[:headerSize])
	var h Header
	fields := []*uint32{
		&h.Magic, &h.TotalSize, &h.OffDTStruct, &h.OffDTStrings, &h.OffMemRsvMap,
		&h.Version, &h.LastCompVersion, &h.BootCPUIDPhys, &h.SizeDTStrings, &h.SizeDTStruct,
	}
	for _, f := range fields {
		v, err := c.AdvanceU32()
		if err != nil {
			// Can't happen: headerSize bytes were checked above.
			return Header{}, fmt.Errorf("fdt: %w", err)
		}
		*f = v
	}
	if h.Magic != Magic {
		return Header{}, ErrBadMagic
	}
	return h, nil
}

// structRange returns the [start, end) byte range of the structure
// block within the blob, validated to lie inside buf.
func (h Header) structRange(bufLen int) (int, int, error) {
	start := int(h.OffDTStruct)
	end := start + int(h.SizeDTStruct)
	if start < 0 || end < start || end > bufLen {
		return 0, 0, ErrBufferTooSmall
	}
	return start, end, nil
}

// stringsRange returns the [start, end) byte range of the strings
// block within the blob, validated to lie inside buf.
func (h Header) stringsRange(bufLen int) (int, int, error) {
	start := int(h.OffDTStrings)
	end := start + int(h.SizeDTStrings)
	if start < 0 || end < start || end > bufLen {
		return 0, 0, ErrBufferTooSmall
	}
	return start, end, nil
}

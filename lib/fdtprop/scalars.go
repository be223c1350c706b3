// SPDX-License-Identifier: GPL-2.0-or-later

// Package fdtprop implements the typed property decoders of §4.G: thin
// functions turning a node's raw property bytes into a caller-chosen
// Go value. Decoders that need cell-size or phandle context take the
// owning fdt.Node (and, where they must traverse, the owning *fdt.Tree)
// explicitly rather than caching anything, mirroring §9's "ancestor
// metadata lookup... re-walks are cheap, no cache is required".
package fdtprop

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/go-fdt/fdt/lib/fdt"
)

// String decodes a property value as UTF-8 text with one or more
// trailing NULs trimmed.
func String(propName string, raw []byte) (string, error) {
	s := strings.TrimRight(string(raw), "\x00")
	if !utf8.ValidString(s) {
		return "", &fdt.InvalidPropertyValue{Property: propName, Reason: "value is not valid UTF-8"}
	}
	return s, nil
}

// StringList splits a property value into its NUL-separated entries.
func StringList(raw []byte) []string {
	trimmed := strings.TrimRight(string(raw), "\x00")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\x00")
}

// U32 decodes a property value as one big-endian 32-bit integer.
func U32(propName string, raw []byte) (uint32, error) {
	if len(raw) != 4 {
		return 0, &fdt.InvalidPropertyValue{Property: propName, Reason: "value is not 4 bytes"}
	}
	return binary.BigEndian.Uint32(raw), nil
}

// U64 decodes a property value as one big-endian 64-bit integer.
func U64(propName string, raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, &fdt.InvalidPropertyValue{Property: propName, Reason: "value is not 8 bytes"}
	}
	return binary.BigEndian.Uint64(raw), nil
}

// Usize decodes a property that may be encoded as either a 4- or
// 8-byte big-endian integer, the way clock-frequency/timebase-frequency
// vary with the platform's native word size.
func Usize(propName string, raw []byte) (uint64, error) {
	switch len(raw) {
	case 4:
		return uint64(binary.BigEndian.Uint32(raw)), nil
	case 8:
		return binary.BigEndian.Uint64(raw), nil
	default:
		return 0, &fdt.InvalidPropertyValue{Property: propName, Reason: "value is neither 4 nor 8 bytes"}
	}
}

// PHandle is a node's phandle identifier.
type PHandle uint32

// ReadPHandle reads propName (typically "phandle" or "linux,phandle")
// as a PHandle.
func ReadPHandle(n fdt.Node, propName string) (PHandle, bool, error) {
	raw, ok, err := n.RawProperty(propName)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := U32(propName, raw)
	return PHandle(v), true, err
}

// readRequiredU32 reads name as a u32, failing with MissingRequiredProperty
// when absent.
func readRequiredU32(n fdt.Node, name string) (uint32, error) {
	raw, ok, err := n.RawProperty(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &fdt.MissingRequiredProperty{Property: name}
	}
	return U32(name, raw)
}

// Compatible is the parsed "compatible" property: an ordered,
// most-specific-first list of strings.
type Compatible struct {
	entries []string
}

// ReadCompatible reads a node's "compatible" property.
func ReadCompatible(n fdt.Node) (Compatible, bool, error) {
	raw, ok, err := n.RawProperty("compatible")
	if err != nil || !ok {
		return Compatible{}, ok, err
	}
	return Compatible{entries: StringList(raw)}, true, nil
}

// Entries returns the compatible strings in declaration order.
func (c Compatible) Entries() []string { return c.entries }

// First returns the most-specific compatible string.
func (c Compatible) First() (string, bool) {
	if len(c.entries) == 0 {
		return "", false
	}
	return c.entries[0], true
}

// CompatibleWith reports whether want appears anywhere in the list.
func (c Compatible) CompatibleWith(want string) bool {
	for _, e := range c.entries {
		if e == want {
			return true
		}
	}
	return false
}

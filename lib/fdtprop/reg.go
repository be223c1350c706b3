// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import (
	"github.com/go-fdt/fdt/lib/cells"
	"github.com/go-fdt/fdt/lib/fdt"
)

// RegIter walks a "reg" property as (address cells, length cells)
// pairs, sized by the node's parent's CellSizes. It yields the raw
// cells uninterpreted; call DecodeUint64 (or another decoder) to turn
// a field into a concrete type, matching §4.G's "parameterized over
// caller-chosen address and length collectors".
type RegIter struct {
	it *cells.RecordIter
}

// Reg opens a RegIter over n's "reg" property.
func Reg(n fdt.Node) (*RegIter, error) {
	parent, err := n.Parent()
	if err != nil {
		return nil, err
	}
	cs, err := ReadCellSizes(parent)
	if err != nil {
		return nil, err
	}
	raw, ok, err := n.RawProperty("reg")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fdt.MissingRequiredProperty{Property: "reg"}
	}
	stride := (cs.AddressCells + cs.SizeCells) * 4
	if stride == 0 || len(raw)%stride != 0 {
		return nil, &fdt.InvalidPropertyValue{Property: "reg", Reason: "length is not a multiple of (address-cells+size-cells)*4"}
	}
	return &RegIter{it: cells.NewRecordIter(raw, cs.AddressCells, cs.SizeCells)}, nil
}

// Next returns the next (address cells, length cells) pair.
func (it *RegIter) Next() (address []uint32, length []uint32, ok bool, err error) {
	fields, ok, err := it.it.Next()
	if err != nil || !ok {
		return nil, nil, ok, err
	}
	return fields[0], fields[1], true, nil
}

// DecodeUint64 folds a raw cell field into a uint64, matching the
// native-width Builder semantics of §4.F (2 cells fit exactly; more
// cells overflow).
func DecodeUint64(field []uint32) (uint64, error) {
	return cells.PushAll(cells.NewUnsigned[uint64](64), field)
}

// DecodeUint32 folds a raw cell field into a uint32.
func DecodeUint32(field []uint32) (uint32, error) {
	return cells.PushAll(cells.NewUnsigned[uint32](32), field)
}

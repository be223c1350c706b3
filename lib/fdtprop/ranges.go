// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import (
	"github.com/go-fdt/fdt/lib/cells"
	"github.com/go-fdt/fdt/lib/fdt"
)

// RangesIter walks a "ranges" property as (child bus address, parent
// bus address, length) triples, per §4.G: the node's own CellSizes
// size the child-address and length fields, the parent's AddressCells
// sizes the parent-address field.
type RangesIter struct {
	it *cells.RecordIter
}

// Ranges opens a RangesIter over n's "ranges" property. An empty
// "ranges" property (present with zero length, meaning identity
// mapping) yields zero entries, not an error.
func Ranges(n fdt.Node) (*RangesIter, error) {
	cs, err := ReadCellSizes(n)
	if err != nil {
		return nil, err
	}
	parent, err := n.Parent()
	if err != nil {
		return nil, err
	}
	pcs, err := ReadCellSizes(parent)
	if err != nil {
		return nil, err
	}
	raw, ok, err := n.RawProperty("ranges")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fdt.MissingRequiredProperty{Property: "ranges"}
	}
	stride := (cs.AddressCells + pcs.AddressCells + cs.SizeCells) * 4
	if stride == 0 || len(raw)%stride != 0 {
		return nil, &fdt.InvalidPropertyValue{Property: "ranges", Reason: "length is not a multiple of the child+parent+size cell stride"}
	}
	return &RangesIter{it: cells.NewRecordIter(raw, cs.AddressCells, pcs.AddressCells, cs.SizeCells)}, nil
}

// Next returns the next (child address cells, parent address cells,
// length cells) triple.
func (it *RangesIter) Next() (childAddr, parentAddr, length []uint32, ok bool, err error) {
	fields, ok, err := it.it.Next()
	if err != nil || !ok {
		return nil, nil, nil, ok, err
	}
	return fields[0], fields[1], fields[2], true, nil
}

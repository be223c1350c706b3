// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import (
	"github.com/go-fdt/fdt/lib/cells"
	"github.com/go-fdt/fdt/lib/fdt"
)

// RegIDIter walks a cpu node's "reg" property: unlike the generic
// §4.G Reg decoder, a cpu's reg has no length field, just one or more
// address-cells-wide CPU IDs, sized by the parent's #address-cells.
type RegIDIter struct {
	it *cells.RecordIter
}

// RegIDs opens a RegIDIter over n's "reg" property.
func RegIDs(n fdt.Node) (*RegIDIter, error) {
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
	stride := cs.AddressCells * 4
	if stride == 0 || len(raw)%stride != 0 {
		return nil, &fdt.InvalidPropertyValue{Property: "reg", Reason: "length is not a multiple of #address-cells*4"}
	}
	return &RegIDIter{it: cells.NewRecordIter(raw, cs.AddressCells)}, nil
}

// Next returns the next CPU ID's raw cells.
func (it *RegIDIter) Next() (id []uint32, ok bool, err error) {
	fields, ok, err := it.it.Next()
	if err != nil || !ok {
		return nil, ok, err
	}
	return fields[0], true, nil
}

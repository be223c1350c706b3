// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import "github.com/go-fdt/fdt/lib/fdt"

// CellSizes is a node's declared #address-cells/#size-cells, governing
// how its children's reg/ranges properties are encoded. The defaults
// (2, 1) apply when the properties are absent, per §3.
type CellSizes struct {
	AddressCells int
	SizeCells    int
}

// ReadCellSizes reads n's own #address-cells/#size-cells.
func ReadCellSizes(n fdt.Node) (CellSizes, error) {
	cs := CellSizes{AddressCells: 2, SizeCells: 1}
	if raw, ok, err := n.RawProperty("#address-cells"); err != nil {
		return cs, err
	} else if ok {
		v, err := U32("#address-cells", raw)
		if err != nil {
			return cs, err
		}
		cs.AddressCells = int(v)
	}
	if raw, ok, err := n.RawProperty("#size-cells"); err != nil {
		return cs, err
	} else if ok {
		v, err := U32("#size-cells", raw)
		if err != nil {
			return cs, err
		}
		cs.SizeCells = int(v)
	}
	return cs, nil
}

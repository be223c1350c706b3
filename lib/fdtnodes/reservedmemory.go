// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// ReservedMemory wraps the optional "/reserved-memory" node, a
// container for statically- or dynamically-allocated reserved regions.
type ReservedMemory struct {
	fdt.Node
}

// OpenReservedMemory looks up "/reserved-memory".
func OpenReservedMemory(t *fdt.Tree) (ReservedMemory, bool, error) {
	n, ok, err := t.FindNode("/reserved-memory")
	if err != nil || !ok {
		return ReservedMemory{}, ok, err
	}
	return ReservedMemory{Node: n}, true, nil
}

// CellSizes reads the required #address-cells/#size-cells governing
// every child region's "reg".
func (rm ReservedMemory) CellSizes() (fdtprop.CellSizes, error) {
	raw1, ok1, err := rm.RawProperty("#address-cells")
	if err != nil {
		return fdtprop.CellSizes{}, err
	}
	raw2, ok2, err := rm.RawProperty("#size-cells")
	if err != nil {
		return fdtprop.CellSizes{}, err
	}
	if !ok1 {
		return fdtprop.CellSizes{}, &fdt.MissingRequiredProperty{Property: "#address-cells"}
	}
	if !ok2 {
		return fdtprop.CellSizes{}, &fdt.MissingRequiredProperty{Property: "#size-cells"}
	}
	ac, err := fdtprop.U32("#address-cells", raw1)
	if err != nil {
		return fdtprop.CellSizes{}, err
	}
	sc, err := fdtprop.U32("#size-cells", raw2)
	if err != nil {
		return fdtprop.CellSizes{}, err
	}
	return fdtprop.CellSizes{AddressCells: int(ac), SizeCells: int(sc)}, nil
}

// Region is one reserved-memory child node.
type Region struct {
	fdt.Node
}

// Reg opens the region's "reg" property's iterator.
func (r Region) Reg() (*fdtprop.RegIter, error) {
	return fdtprop.Reg(r.Node)
}

// RegionIter walks /reserved-memory's child regions.
type RegionIter struct {
	children *fdt.ChildIter
}

// Regions returns an iterator over rm's child regions.
func (rm ReservedMemory) Regions() *RegionIter {
	return &RegionIter{children: rm.Children()}
}

// Next returns the next reserved region.
func (it *RegionIter) Next() (Region, bool) {
	n, ok := it.children.Next()
	if !ok {
		return Region{}, false
	}
	return Region{Node: n}, true
}

// Err returns the error (if any) that ended iteration early.
func (it *RegionIter) Err() error { return it.children.Err() }

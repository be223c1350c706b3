// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import "github.com/go-fdt/fdt/lib/fdt"

// InterruptMapEntry is one "interrupt-map" record: a child interrupt
// specifier and the parent interrupt specifier it maps to.
type InterruptMapEntry struct {
	ChildUnitAddress  []uint32
	ChildInterrupt    []uint32
	ParentUnitAddress []uint32
	ParentInterrupt   []uint32
}

// InterruptMapIter walks an "interrupt-map" property, following each
// entry's embedded parent phandle via the navigator (§4.E) to discover
// the parent's own #address-cells/#interrupt-cells, since those vary
// per entry.
type InterruptMapIter struct {
	data           []byte
	off            int
	tree           *fdt.Tree
	childAddrCells int
	childIntCells  int
}

// InterruptMap opens an InterruptMapIter over n's "interrupt-map"
// property. Child specifiers are sized by n's own #address-cells (the
// cells it uses to address its children) and its own #interrupt-cells.
func InterruptMap(tree *fdt.Tree, n fdt.Node) (*InterruptMapIter, error) {
	raw, ok, err := n.RawProperty("interrupt-map")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fdt.MissingRequiredProperty{Property: "interrupt-map"}
	}
	cs, err := ReadCellSizes(n)
	if err != nil {
		return nil, err
	}
	childIntCells, err := readRequiredU32(n, "#interrupt-cells")
	if err != nil {
		return nil, err
	}
	return &InterruptMapIter{
		data: raw, tree: tree,
		childAddrCells: cs.AddressCells, childIntCells: int(childIntCells),
	}, nil
}

// Next returns the next interrupt-map entry.
func (it *InterruptMapIter) Next() (InterruptMapEntry, bool, error) {
	head := (it.childAddrCells + it.childIntCells + 1) * 4
	if it.off+head > len(it.data) {
		return InterruptMapEntry{}, false, nil
	}
	childAddr := readCells(it.data, it.off, it.childAddrCells)
	it.off += it.childAddrCells * 4
	childInt := readCells(it.data, it.off, it.childIntCells)
	it.off += it.childIntCells * 4
	phandle := readCells(it.data, it.off, 1)[0]
	it.off += 4

	parent, err := it.tree.ResolvePHandle(phandle)
	if err != nil {
		return InterruptMapEntry{}, false, err
	}
	pcs, err := ReadCellSizes(parent)
	if err != nil {
		return InterruptMapEntry{}, false, err
	}
	parentIntCells, err := readRequiredU32(parent, "#interrupt-cells")
	if err != nil {
		return InterruptMapEntry{}, false, err
	}
	tail := (pcs.AddressCells + int(parentIntCells)) * 4
	if it.off+tail > len(it.data) {
		return InterruptMapEntry{}, false, &fdt.InvalidPropertyValue{Property: "interrupt-map", Reason: "truncated parent specifier"}
	}
	parentAddr := readCells(it.data, it.off, pcs.AddressCells)
	it.off += pcs.AddressCells * 4
	parentInt := readCells(it.data, it.off, int(parentIntCells))
	it.off += int(parentIntCells) * 4

	return InterruptMapEntry{
		ChildUnitAddress: childAddr, ChildInterrupt: childInt,
		ParentUnitAddress: parentAddr, ParentInterrupt: parentInt,
	}, true, nil
}

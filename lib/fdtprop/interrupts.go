// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import (
	"encoding/binary"

	"github.com/go-fdt/fdt/lib/fdt"
)

// InterruptParent resolves the #interrupt-cells-bearing node governing
// n's "interrupts" property: n's own "interrupt-parent" if present,
// else the nearest ancestor's, per common DTSpec practice. The
// navigator (§4.E) is reused to follow the phandle.
func InterruptParent(tree *fdt.Tree, n fdt.Node) (fdt.Node, error) {
	cur := n
	for {
		raw, ok, err := cur.RawProperty("interrupt-parent")
		if err != nil {
			return fdt.Node{}, err
		}
		if ok {
			ph, err := U32("interrupt-parent", raw)
			if err != nil {
				return fdt.Node{}, err
			}
			return tree.ResolvePHandle(ph)
		}
		if !cur.HasParent() {
			return fdt.Node{}, &fdt.MissingRequiredProperty{Property: "interrupt-parent"}
		}
		cur, err = cur.Parent()
		if err != nil {
			return fdt.Node{}, err
		}
	}
}

// InterruptsIter walks an "interrupts" (legacy fixed-width) or
// "interrupts-extended" (phandle-prefixed, variable-width) property.
type InterruptsIter struct {
	extended bool
	data     []byte
	off      int
	nCells   int // legacy only
	tree     *fdt.Tree
}

// Interrupts opens an InterruptsIter over n, preferring
// "interrupts-extended" over legacy "interrupts" when both are
// present, per common DTSpec practice.
func Interrupts(tree *fdt.Tree, n fdt.Node) (*InterruptsIter, error) {
	if raw, ok, err := n.RawProperty("interrupts-extended"); err != nil {
		return nil, err
	} else if ok {
		return &InterruptsIter{extended: true, data: raw, tree: tree}, nil
	}
	raw, ok, err := n.RawProperty("interrupts")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fdt.MissingRequiredProperty{Property: "interrupts"}
	}
	ip, err := InterruptParent(tree, n)
	if err != nil {
		return nil, err
	}
	nc, err := readRequiredU32(ip, "#interrupt-cells")
	if err != nil {
		return nil, err
	}
	stride := int(nc) * 4
	if stride == 0 || len(raw)%stride != 0 {
		return nil, &fdt.InvalidPropertyValue{Property: "interrupts", Reason: "length is not a multiple of #interrupt-cells*4"}
	}
	return &InterruptsIter{data: raw, nCells: int(nc)}, nil
}

func readCells(data []byte, off, n int) []uint32 {
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint32(data[off+i*4 : off+i*4+4])
	}
	return out
}

// Next returns the next interrupt specifier's raw cells.
func (it *InterruptsIter) Next() ([]uint32, bool, error) {
	if !it.extended {
		stride := it.nCells * 4
		if stride == 0 || it.off+stride > len(it.data) {
			return nil, false, nil
		}
		out := readCells(it.data, it.off, it.nCells)
		it.off += stride
		return out, true, nil
	}
	if it.off+4 > len(it.data) {
		return nil, false, nil
	}
	ph := binary.BigEndian.Uint32(it.data[it.off : it.off+4])
	it.off += 4
	target, err := it.tree.ResolvePHandle(ph)
	if err != nil {
		return nil, false, err
	}
	nc, err := readRequiredU32(target, "#interrupt-cells")
	if err != nil {
		return nil, false, err
	}
	stride := int(nc) * 4
	if it.off+stride > len(it.data) {
		return nil, false, &fdt.InvalidPropertyValue{Property: "interrupts-extended", Reason: "truncated interrupt specifier"}
	}
	out := readCells(it.data, it.off, int(nc))
	it.off += stride
	return out, true, nil
}

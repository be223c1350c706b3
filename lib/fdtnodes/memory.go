// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// Memory wraps a "/memory" (or "memory@...") node.
type Memory struct {
	fdt.Node
}

// OpenMemory looks up "/memory".
func OpenMemory(t *fdt.Tree) (Memory, bool, error) {
	n, ok, err := t.FindNode("/memory")
	if err != nil || !ok {
		return Memory{}, ok, err
	}
	return Memory{Node: n}, true, nil
}

// Reg opens the required "reg" property's region iterator.
func (m Memory) Reg() (*fdtprop.RegIter, error) {
	return fdtprop.Reg(m.Node)
}

// InitialMappedArea is the optional 20-byte "initial-mapped-area"
// record: the identity mapping the bootloader handed the kernel.
type InitialMappedArea struct {
	EffectiveAddress uint64
	PhysicalAddress  uint64
	Size             uint32
}

// InitialMappedArea reads the optional "initial-mapped-area" property.
func (m Memory) InitialMappedArea() (InitialMappedArea, bool, error) {
	raw, ok, err := m.RawProperty("initial-mapped-area")
	if err != nil || !ok {
		return InitialMappedArea{}, ok, err
	}
	if len(raw) != 20 {
		return InitialMappedArea{}, false, &fdt.InvalidPropertyValue{Property: "initial-mapped-area", Reason: "value is not 20 bytes"}
	}
	eaddr, err := fdtprop.U64("initial-mapped-area", raw[0:8])
	if err != nil {
		return InitialMappedArea{}, false, err
	}
	paddr, err := fdtprop.U64("initial-mapped-area", raw[8:16])
	if err != nil {
		return InitialMappedArea{}, false, err
	}
	size, err := fdtprop.U32("initial-mapped-area", raw[16:20])
	if err != nil {
		return InitialMappedArea{}, false, err
	}
	return InitialMappedArea{EffectiveAddress: eaddr, PhysicalAddress: paddr, Size: size}, true, nil
}

// Hotpluggable reports whether the "hotpluggable" boolean property
// (presence-only, any value) is set.
func (m Memory) Hotpluggable() (bool, error) {
	_, ok, err := m.RawProperty("hotpluggable")
	return ok, err
}

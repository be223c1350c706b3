// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop

import (
	"fmt"

	"github.com/go-fdt/fdt/lib/cells"
	"github.com/go-fdt/fdt/lib/fdt"
)

// AddressSpace is the 2-bit PCI address-space code packed into a
// PciAddress's high cell.
type AddressSpace uint8

const (
	Configuration AddressSpace = iota
	IO
	Memory32
	Memory64
)

func (s AddressSpace) String() string {
	switch s {
	case Configuration:
		return "configuration"
	case IO:
		return "io"
	case Memory32:
		return "memory32"
	case Memory64:
		return "memory64"
	default:
		return fmt.Sprintf("AddressSpace(%d)", uint8(s))
	}
}

// PciAddress is a decoded 3-cell "PCI Bus Binding to IEEE 1275"
// address, as used in PCI reg/ranges/assigned-addresses properties.
type PciAddress struct {
	cells.PCIAddress
}

// DecodePciAddress folds exactly 3 raw cells into a PciAddress.
func DecodePciAddress(propName string, field []uint32) (PciAddress, error) {
	if len(field) != 3 {
		return PciAddress{}, &fdt.InvalidPropertyValue{Property: propName, Reason: "a PCI address is exactly 3 cells"}
	}
	raw, err := cells.PushAll(cells.NewPCIBuilder(), field)
	return PciAddress{PCIAddress: raw}, err
}

func (p PciAddress) Relocatable() bool          { return p.Hi&(1<<31) == 0 }
func (p PciAddress) Prefetchable() bool         { return p.Hi&(1<<30) != 0 }
func (p PciAddress) Aliased() bool              { return p.Hi&(1<<29) != 0 }
func (p PciAddress) AddressSpace() AddressSpace { return AddressSpace((p.Hi >> 24) & 0x3) }
func (p PciAddress) Bus() uint8                 { return uint8((p.Hi >> 16) & 0xFF) }
func (p PciAddress) Device() uint8              { return uint8((p.Hi >> 12) & 0x1F) }
func (p PciAddress) Function() uint8            { return uint8((p.Hi >> 8) & 0x7) }
func (p PciAddress) Register() uint8            { return uint8(p.Hi & 0xFF) }

// SPDX-License-Identifier: GPL-2.0-or-later

package fdtprop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
	"github.com/go-fdt/fdt/lib/fdttest"
)

func openRef(t *testing.T) *fdt.Tree {
	t.Helper()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	return tr
}

func TestRegScenarioS2(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/soc/flash")
	require.NoError(t, err)
	require.True(t, ok)

	it, err := fdtprop.Reg(n)
	require.NoError(t, err)

	type pair struct{ addr, length uint64 }
	var got []pair
	for {
		addr, length, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		a, err := fdtprop.DecodeUint64(addr)
		require.NoError(t, err)
		l, err := fdtprop.DecodeUint64(length)
		require.NoError(t, err)
		got = append(got, pair{a, l})
	}
	assert.Equal(t, []pair{
		{0x20000000, 0x2000000},
		{0x22000000, 0x2000000},
	}, got)
}

func TestRegMissingProperty(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/chosen")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = fdtprop.Reg(n)
	var missing *fdt.MissingRequiredProperty
	assert.ErrorAs(t, err, &missing)
}

func TestRangesScenarioS3(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/soc/pci")
	require.NoError(t, err)
	require.True(t, ok)

	it, err := fdtprop.Ranges(n)
	require.NoError(t, err)

	childAddr, parentAddr, length, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	pci, err := fdtprop.DecodePciAddress("ranges", childAddr)
	require.NoError(t, err)
	assert.Equal(t, fdtprop.Memory32, pci.AddressSpace())

	parent, err := fdtprop.DecodeUint64(parentAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3000000), parent)

	size, err := fdtprop.DecodeUint64(length)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10000), size)

	_, _, _, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, _, ok, err = it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPciAddressBitFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		hi           uint32
		relocatable  bool
		prefetchable bool
		aliased      bool
		space        fdtprop.AddressSpace
		bus          uint8
		device       uint8
		function     uint8
		register     uint8
	}{
		{
			name: "non-relocatable IO", hi: 0x81011800,
			relocatable: false, prefetchable: false, aliased: false,
			space: fdtprop.IO, bus: 1, device: 17, function: 0, register: 0,
		},
		{
			name: "relocatable prefetchable memory32", hi: 0x42011910,
			relocatable: true, prefetchable: true, aliased: false,
			space: fdtprop.Memory32, bus: 1, device: 17, function: 1, register: 0x10,
		},
		{
			name: "relocatable aliased memory32", hi: 0x22011002,
			relocatable: true, prefetchable: false, aliased: true,
			space: fdtprop.Memory32, bus: 1, device: 17, function: 0, register: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pci, err := fdtprop.DecodePciAddress("reg", []uint32{tc.hi, 0, 0})
			require.NoError(t, err)
			assert.Equal(t, tc.relocatable, pci.Relocatable(), "Relocatable")
			assert.Equal(t, tc.prefetchable, pci.Prefetchable(), "Prefetchable")
			assert.Equal(t, tc.aliased, pci.Aliased(), "Aliased")
			assert.Equal(t, tc.space, pci.AddressSpace(), "AddressSpace")
			assert.Equal(t, tc.bus, pci.Bus(), "Bus")
			assert.Equal(t, tc.device, pci.Device(), "Device")
			assert.Equal(t, tc.function, pci.Function(), "Function")
			assert.Equal(t, tc.register, pci.Register(), "Register")
		})
	}
}

func TestInterruptsLegacyScenarioS6(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/soc/uart")
	require.NoError(t, err)
	require.True(t, ok)

	it, err := fdtprop.Interrupts(tr, n)
	require.NoError(t, err)

	cellsOut, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint32{0xA}, cellsOut)

	_, ok, err = it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCellSizesDefaults(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/chosen")
	require.NoError(t, err)
	require.True(t, ok)
	cs, err := fdtprop.ReadCellSizes(n)
	require.NoError(t, err)
	assert.Equal(t, fdtprop.CellSizes{AddressCells: 2, SizeCells: 1}, cs)
}

func TestCellSizesExplicit(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/soc")
	require.NoError(t, err)
	require.True(t, ok)
	cs, err := fdtprop.ReadCellSizes(n)
	require.NoError(t, err)
	assert.Equal(t, fdtprop.CellSizes{AddressCells: 1, SizeCells: 1}, cs)
}

func TestCompatible(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	c, ok, err := fdtprop.ReadCompatible(tr.Root())
	require.NoError(t, err)
	require.True(t, ok)
	first, ok := c.First()
	require.True(t, ok)
	assert.Equal(t, "riscv-virtio", first)
	assert.True(t, c.CompatibleWith("riscv-virtio"))
	assert.False(t, c.CompatibleWith("nonexistent"))
}

func TestBootargsScenarioProperty8(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/chosen")
	require.NoError(t, err)
	require.True(t, ok)
	raw, ok, err := n.RawProperty("bootargs")
	require.NoError(t, err)
	require.True(t, ok)
	s, err := fdtprop.String("bootargs", raw)
	require.NoError(t, err)
	assert.Equal(t, "console=ttyS0", s)
}

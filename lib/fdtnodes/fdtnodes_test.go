// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtnodes"
	"github.com/go-fdt/fdt/lib/fdtprop"
	"github.com/go-fdt/fdt/lib/fdttest"
)

func openRef(t *testing.T) *fdt.Tree {
	t.Helper()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	return tr
}

func TestRootModelAndCompatible(t *testing.T) {
	// S1
	t.Parallel()
	tr := openRef(t)
	root := fdtnodes.Open(tr)
	model, err := root.Model()
	require.NoError(t, err)
	assert.Equal(t, "riscv-virtio,qemu", model)

	compat, err := root.Compatible()
	require.NoError(t, err)
	first, ok := compat.First()
	require.True(t, ok)
	assert.Equal(t, "riscv-virtio", first)
}

func TestRootOptionalPropertiesAbsent(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	root := fdtnodes.Open(tr)
	_, ok, err := root.SerialNumber()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = root.ChassisType()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAliasesResolve(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	aliases, ok, err := fdtnodes.OpenAliases(tr)
	require.NoError(t, err)
	require.True(t, ok)

	path, ok, err := aliases.ResolveName("uart0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/soc/uart@10000000", path)

	n, ok, err := aliases.Resolve("uart0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uart@10000000", n.DisplayName())

	all, err := aliases.All()
	require.NoError(t, err)
	assert.Equal(t, []fdtnodes.AliasEntry{{Alias: "uart0", Path: "/soc/uart@10000000"}}, all)
}

func TestChosenBootargs(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	chosen, ok, err := fdtnodes.OpenChosen(tr)
	require.NoError(t, err)
	require.True(t, ok)
	bootargs, ok, err := chosen.Bootargs()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "console=ttyS0", bootargs)
}

func TestChosenStdoutStdin(t *testing.T) {
	// S5
	t.Parallel()
	tr := openRef(t)
	chosen, ok, err := fdtnodes.OpenChosen(tr)
	require.NoError(t, err)
	require.True(t, ok)

	node, params, hasParams, ok, err := chosen.Stdout()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uart@10000000", node.DisplayName())
	assert.True(t, hasParams)
	assert.Equal(t, "115200", params)

	node, params, hasParams, ok, err = chosen.Stdin()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uart@10000000", node.DisplayName())
	assert.False(t, hasParams)
}

func TestMemoryReg(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	mem, ok, err := fdtnodes.OpenMemory(tr)
	require.NoError(t, err)
	require.True(t, ok)

	it, err := mem.Reg()
	require.NoError(t, err)
	addr, length, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	a, err := fdtprop.DecodeUint64(addr)
	require.NoError(t, err)
	l, err := fdtprop.DecodeUint64(length)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x80000000), a)
	assert.Equal(t, uint64(0x8000000), l)

	hotplug, err := mem.Hotpluggable()
	require.NoError(t, err)
	assert.False(t, hotplug)
}

func TestCpusIterScenarioS4(t *testing.T) {
	// S4
	t.Parallel()
	tr := openRef(t)
	cpus, ok, err := fdtnodes.OpenCpus(tr)
	require.NoError(t, err)
	require.True(t, ok)

	it := cpus.Iter()
	cpu, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	regIt, err := cpu.Reg()
	require.NoError(t, err)
	id, ok, err := regIt.Next()
	require.NoError(t, err)
	require.True(t, ok)
	v, err := fdtprop.DecodeUint32(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)

	_, ok, err = it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCpuStatusOkay(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	cpus, ok, err := fdtnodes.OpenCpus(tr)
	require.NoError(t, err)
	require.True(t, ok)
	cpu, ok, err := cpus.Iter().Next()
	require.NoError(t, err)
	require.True(t, ok)
	status, err := cpu.Status()
	require.NoError(t, err)
	assert.Equal(t, fdtnodes.StatusOkay, status)
}

func TestCpuInheritsTimebaseFrequency(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	cpus, ok, err := fdtnodes.OpenCpus(tr)
	require.NoError(t, err)
	require.True(t, ok)
	cpu, ok, err := cpus.Iter().Next()
	require.NoError(t, err)
	require.True(t, ok)
	freq, ok, err := cpu.TimebaseFrequency()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(10000000), freq)
}

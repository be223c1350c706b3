// SPDX-License-Identifier: GPL-2.0-or-later

package fdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdttest"
)

func openRef(t *testing.T) *fdt.Tree {
	t.Helper()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	return tr
}

func TestFindNodeRoot(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/", n.DisplayName())
}

func TestFindNodeByPath(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/soc/flash@20000000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "flash@20000000", n.DisplayName())
}

func TestFindNodeBaseNameMatch(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNode("/soc/flash")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "flash@20000000", n.DisplayName())
}

func TestFindNodeNotFound(t *testing.T) {
	// S7
	t.Parallel()
	tr := openRef(t)
	_, ok, err := tr.FindNode("/this/doesnt/exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindNodeInvalidPath(t *testing.T) {
	// S7
	t.Parallel()
	tr := openRef(t)
	_, ok, err := tr.FindNode("this/is/an invalid node///////////")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllNodesDepth(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	it := tr.AllNodes()
	depths := map[string]int{}
	for {
		depth, n, ok := it.Next()
		if !ok {
			break
		}
		depths[n.DisplayName()] = depth
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 0, depths["/"])
	assert.Equal(t, 1, depths["chosen"])
	assert.Equal(t, 1, depths["soc"])
	assert.Equal(t, 2, depths["cpu@0"])
	assert.Equal(t, 2, depths["flash@20000000"])
	assert.Equal(t, 2, depths["pci@30000000"])
}

func TestFindNodeByName(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindNodeByName("cpu")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cpu@0", n.DisplayName())
}

func TestFindCompatible(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	n, ok, err := tr.FindCompatible([]string{"ns16550a"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uart@10000000", n.DisplayName())
}

func TestFindAllCompatible(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	nodes, err := tr.FindAllCompatible([]string{"simple-bus", "cfi-flash"})
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestResolvePHandle(t *testing.T) {
	// property 9: phandle roundtrip
	t.Parallel()
	tr := openRef(t)
	n, err := tr.ResolvePHandle(2)
	require.NoError(t, err)
	assert.Equal(t, "plic@c000000", n.DisplayName())
}

func TestResolvePHandleMissing(t *testing.T) {
	t.Parallel()
	tr := openRef(t)
	_, err := tr.ResolvePHandle(99)
	var missing *fdt.MissingPHandleNode
	assert.ErrorAs(t, err, &missing)
}

func TestChosenStdoutStdinViaAlias(t *testing.T) {
	// S5
	t.Parallel()
	tr := openRef(t)
	aliases, ok, err := tr.FindNode("/aliases")
	require.NoError(t, err)
	require.True(t, ok)
	raw, ok, err := aliases.RawProperty("uart0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/soc/uart@10000000\x00", string(raw))

	chosen, ok, err := tr.FindNode("/chosen")
	require.NoError(t, err)
	require.True(t, ok)
	raw, ok, err = chosen.RawProperty("stdout-path")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uart0:115200\x00", string(raw))
	raw, ok, err = chosen.RawProperty("stdin-path")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uart0\x00", string(raw))
}

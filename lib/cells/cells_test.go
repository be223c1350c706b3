// SPDX-License-Identifier: GPL-2.0-or-later

package cells_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-fdt/fdt/lib/cells"
)

func TestUnsignedExactFit(t *testing.T) {
	t.Parallel()
	b := cells.NewUnsigned[uint64](64)
	require.NoError(t, b.Push(0x12345678))
	require.NoError(t, b.Push(0x9abcdef0))
	assert.Equal(t, uint64(0x123456789abcdef0), b.Finish())
}

func TestUnsignedOverflow(t *testing.T) {
	t.Parallel()
	b := cells.NewUnsigned[uint32](32)
	require.NoError(t, b.Push(1))
	err := b.Push(2)
	require.Error(t, err)
	var cellErr *cells.Error
	assert.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 32, cellErr.Width)
}

func TestWrappingNeverFails(t *testing.T) {
	t.Parallel()
	b := cells.NewWrapping[uint32]()
	require.NoError(t, b.Push(1))
	require.NoError(t, b.Push(2))
	require.NoError(t, b.Push(3))
	assert.Equal(t, uint32(3), b.Finish())
}

func TestOptionalReportsWhetherPushed(t *testing.T) {
	t.Parallel()
	empty := cells.NewOptional[uint32](cells.NewUnsigned[uint32](32))
	v, any := empty.Finish()
	assert.False(t, any)
	assert.Zero(t, v)

	present := cells.NewOptional[uint32](cells.NewUnsigned[uint32](32))
	require.NoError(t, present.Push(7))
	v, any = present.Finish()
	assert.True(t, any)
	assert.Equal(t, uint32(7), v)
}

func TestUint128Builder(t *testing.T) {
	t.Parallel()
	b := cells.NewUint128Builder()
	for _, c := range []uint32{1, 2, 3, 4} {
		require.NoError(t, b.Push(c))
	}
	got := b.Finish()
	assert.Equal(t, uint64(0x0000000100000002), got.Hi)
	assert.Equal(t, uint64(0x0000000300000004), got.Lo)

	require.Error(t, b.Push(5))
}

func TestPCIBuilderRejectsFourthCell(t *testing.T) {
	t.Parallel()
	b := cells.NewPCIBuilder()
	require.NoError(t, b.Push(0x02000000))
	require.NoError(t, b.Push(0))
	require.NoError(t, b.Push(0))
	assert.Equal(t, cells.PCIAddress{Hi: 0x02000000}, b.Finish())
	assert.Error(t, b.Push(1))
}

func TestRecordIterSplitsFixedStrideRecords(t *testing.T) {
	t.Parallel()
	data := []byte{
		0, 0, 0, 1, 0, 0, 0, 2, // record 1: field(1 cell), field(1 cell)
		0, 0, 0, 3, 0, 0, 0, 4, // record 2
	}
	it := cells.NewRecordIter(data, 1, 1)
	fields, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint32{1}, fields[0])
	assert.Equal(t, []uint32{2}, fields[1])

	fields, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint32{3}, fields[0])
	assert.Equal(t, []uint32{4}, fields[1])

	_, ok, err = it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordIterStopsOnShortTrailingData(t *testing.T) {
	t.Parallel()
	data := []byte{0, 0, 0, 1, 0, 0} // one full 4-byte field, then 2 stray bytes
	it := cells.NewRecordIter(data, 1)
	_, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

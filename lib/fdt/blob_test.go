// SPDX-License-Identifier: GPL-2.0-or-later

package fdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdttest"
)

func TestOpenReference(t *testing.T) {
	t.Parallel()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	assert.Equal(t, "/", tr.Root().DisplayName())
}

func TestOpenAlignedMatchesOpen(t *testing.T) {
	t.Parallel()
	raw := fdttest.Reference()
	a, err := fdt.Open(raw)
	require.NoError(t, err)
	b, err := fdt.OpenAligned(raw)
	require.NoError(t, err)

	model, err := a.Root().RawProperty("model")
	require.NoError(t, err)
	modelAligned, err := b.Root().RawProperty("model")
	require.NoError(t, err)
	assert.Equal(t, model, modelAligned)
}

func TestOpenBadMagic(t *testing.T) {
	t.Parallel()
	raw := fdttest.Reference()
	raw[0] = 0
	_, err := fdt.Open(raw)
	assert.ErrorIs(t, err, fdt.ErrBadMagic)
}

func TestOpenBufferTooSmall(t *testing.T) {
	t.Parallel()
	raw := fdttest.Reference()
	_, err := fdt.Open(raw[:len(raw)-8])
	assert.ErrorIs(t, err, fdt.ErrBufferTooSmall)
}

func TestFromPtrNil(t *testing.T) {
	t.Parallel()
	_, err := fdt.FromPtr(nil)
	assert.ErrorIs(t, err, fdt.ErrBadPtr)
}

func TestModelScenarioS1(t *testing.T) {
	t.Parallel()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	raw, ok, err := tr.Root().RawProperty("model")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "riscv-virtio,qemu\x00", string(raw))
}

func TestMemoryReservationsEmpty(t *testing.T) {
	t.Parallel()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	rsv, err := tr.MemoryReservations()
	require.NoError(t, err)
	assert.Empty(t, rsv)
}

func TestPropertyNameAndLengthInvariant(t *testing.T) {
	t.Parallel()
	tr, err := fdt.Open(fdttest.Reference())
	require.NoError(t, err)
	wantLen := map[string]int{
		"#address-cells": 4, "#size-cells": 4,
		"compatible": len("riscv-virtio\x00"), "model": len("riscv-virtio,qemu\x00"),
	}
	it := tr.Root().Properties()
	count := 0
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		assert.NotEmpty(t, p.Name)
		assert.Len(t, p.Value, wantLen[p.Name], p.Name)
		count++
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 4, count) // #address-cells, #size-cells, compatible, model
}

// SPDX-License-Identifier: GPL-2.0-or-later

package cells

import "encoding/binary"

// RecordIter walks a packed-cells property value (e.g. "reg" or
// "ranges") as a sequence of fixed-stride records, each record being a
// concatenation of fields whose cell-widths are given up front. This is
// the §4.F "iteration contract": splitting "(address_cells*4) +
// (size_cells*4)"-sized records out of a raw property slice.
//
// Short trailing data (fewer bytes left than one full record) ends
// iteration silently, per §4.F; it is the caller's job to additionally
// reject a property whose total length isn't an exact multiple of the
// record stride, since that's a property-shape error (InvalidPropertyValue)
// rather than a cell-overflow.
type RecordIter struct {
	data        []byte
	fieldCells  []int
	recordCells int
	off         int
}

// NewRecordIter builds an iterator over data, where each record is the
// concatenation of len(fieldCells) fields, field i being fieldCells[i]
// 32-bit cells wide.
func NewRecordIter(data []byte, fieldCells ...int) *RecordIter {
	total := 0
	for _, n := range fieldCells {
		total += n
	}
	return &RecordIter{data: data, fieldCells: fieldCells, recordCells: total}
}

// RecordStrideBytes is the byte length of one record.
func (it *RecordIter) RecordStrideBytes() int { return it.recordCells * 4 }

// Next returns the raw cells of each field in the next record, in
// field order. ok is false (with a nil error) once fewer than one full
// record remains.
func (it *RecordIter) Next() (fields [][]uint32, ok bool, err error) {
	stride := it.recordCells * 4
	if stride == 0 || it.off+stride > len(it.data) {
		return nil, false, nil
	}
	rec := it.data[it.off : it.off+stride]
	it.off += stride

	out := make([][]uint32, len(it.fieldCells))
	pos := 0
	for i, n := range it.fieldCells {
		field := make([]uint32, n)
		for j := 0; j < n; j++ {
			field[j] = binary.BigEndian.Uint32(rec[pos : pos+4])
			pos += 4
		}
		out[i] = field
	}
	return out, true, nil
}

// PushAll feeds every cell of a raw field, in order, into b.
func PushAll[T any](b Builder[T], field []uint32) (T, error) {
	for _, c := range field {
		if err := b.Push(c); err != nil {
			var zero T
			return zero, err
		}
	}
	return b.Finish(), nil
}

// SPDX-License-Identifier: GPL-2.0-or-later

// Package cells implements the cell-collector machinery of §4.F: folding
// a sequence of 32-bit big-endian cells into a caller-chosen output
// type, with overflow checking. It is parameterized the way the
// teacher's generic containers are (golang.org/x/exp/constraints,
// predating the stdlib cmp/slices generics the teacher's Go 1.19 target
// lacks).
package cells

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Error reports that a cell sequence overflowed the output width a
// Builder was asked to produce.
type Error struct {
	Width  int // bits in the destination type
	NCells int // cells that had already been pushed when the overflow was detected
}

func (e *Error) Error() string {
	return fmt.Sprintf("cells: pushing a 32-bit cell after %d cells would overflow a %d-bit value", e.NCells, e.Width)
}

// Builder folds a sequence of 32-bit cells into a value of type T.
type Builder[T any] interface {
	// Push folds the next (most-significant-first) cell into the
	// builder. It returns a *Error if doing so would overflow the
	// destination width.
	Push(cell uint32) error
	// Finish returns the accumulated value. Builders are single-use;
	// call Finish exactly once per logical value.
	Finish() T
}

// Unsigned builds a native unsigned integer of width bits, a multiple
// of 32 (32 for uint32, 64 for uint64/usize on a 64-bit target, ...).
// Pushing more than width/32 cells is an overflow error: the spec's
// invariant that "N*32 <= W" is enforced by rejecting the (width/32+1)th
// push outright, since every cell this collector is asked to hold
// carries 32 significant bits by construction (§4.F only feeds it raw
// structure-block cells, never a partially-populated one).
type Unsigned[T constraints.Unsigned] struct {
	width int
	n     int
	val   T
}

// NewUnsigned returns a strict Builder for T, whose bit width is given
// explicitly and may be narrower than T's native width (a uint64
// accumulator given widthBits 32 accepts only one cell, for example).
// The lib/fdtprop decoders DecodeUint32/DecodeUint64 pass T's native
// width.
func NewUnsigned[T constraints.Unsigned](widthBits int) *Unsigned[T] {
	return &Unsigned[T]{width: widthBits}
}

func (b *Unsigned[T]) Push(cell uint32) error {
	if (b.n+1)*32 > b.width {
		return &Error{Width: b.width, NCells: b.n}
	}
	b.val = (b.val << 32) | T(cell)
	b.n++
	return nil
}

func (b *Unsigned[T]) Finish() T { return b.val }

// Wrapping builds a native unsigned integer of T's width, silently
// truncating any cells that don't fit instead of failing.
type Wrapping[T constraints.Unsigned] struct {
	val T
}

func NewWrapping[T constraints.Unsigned]() *Wrapping[T] {
	return &Wrapping[T]{}
}

func (b *Wrapping[T]) Push(cell uint32) error {
	b.val = (b.val << 32) | T(cell)
	return nil
}

func (b *Wrapping[T]) Finish() T { return b.val }

// Optional wraps another Builder, reporting whether any cell was ever
// pushed.
type Optional[T any] struct {
	inner Builder[T]
	any   bool
}

func NewOptional[T any](inner Builder[T]) *Optional[T] {
	return &Optional[T]{inner: inner}
}

func (b *Optional[T]) Push(cell uint32) error {
	b.any = true
	return b.inner.Push(cell)
}

func (b *Optional[T]) Finish() (T, bool) {
	return b.inner.Finish(), b.any
}

// Uint128 is a 128-bit unsigned integer assembled from up to four
// cells, stored as two 64-bit halves (Hi holding the most-significant
// 64 bits). There is no native 128-bit Go integer type.
type Uint128 struct {
	Hi, Lo uint64
}

// Uint128Builder builds a Uint128 from exactly 4 cells (or fewer, left
// zero-extended); a 5th pushed cell is an overflow error.
type Uint128Builder struct {
	n   int
	val Uint128
}

func NewUint128Builder() *Uint128Builder { return &Uint128Builder{} }

func (b *Uint128Builder) Push(cell uint32) error {
	if b.n >= 4 {
		return &Error{Width: 128, NCells: b.n}
	}
	b.val.Hi = (b.val.Hi << 32) | (b.val.Lo >> 32)
	b.val.Lo = (b.val.Lo << 32) | uint64(cell)
	b.n++
	return nil
}

func (b *Uint128Builder) Finish() Uint128 { return b.val }

// Package enc provides mixed-radix positional encoding of index tuples.
//
// Compound elements (argument tuples, elements of product and power
// algebras, congruence pairs) are represented by a single integer so that
// they can be hashed, ordered and stored cheaply. For factor sizes
// n_0, ..., n_{k-1}, the tuple (t_0, ..., t_{k-1}) is encoded as
// (..((t_0 * n_1) + t_1) * n_2 + ...) + t_{k-1} (Horner's scheme).
// Encoding is a total bijection between tuples within the declared bounds
// and the interval [0, n_0 * ... * n_{k-1}).
package enc

import (
	"errors"
	"fmt"
	"math"
)

var ErrRadixOverflow = errors.New("enc: tuple space exceeds int64 range")

// Encoding fixes a sequence of factor sizes and converts between tuples
// and their integer codes. Immutable after construction.
type Encoding struct {
	sizes []int
	total int64
}

// New creates an encoding for the given factor sizes. Every size must be
// positive, and the product of all sizes must fit in an int64.
func New(sizes ...int) (*Encoding, error) {
	total := int64(1)
	for _, sz := range sizes {
		if sz <= 0 {
			return nil, fmt.Errorf("enc: non-positive factor size %d", sz)
		}
		if total > math.MaxInt64/int64(sz) {
			return nil, ErrRadixOverflow
		}
		total *= int64(sz)
	}

	e := &Encoding{
		sizes: append([]int(nil), sizes...),
		total: total,
	}
	return e, nil
}

// Power creates an encoding of arity-tuples over a single base size.
func Power(base, arity int) (*Encoding, error) {
	sizes := make([]int, arity)
	for i := range sizes {
		sizes[i] = base
	}
	return New(sizes...)
}

// Arity returns the number of factors.
func (e *Encoding) Arity() int {
	return len(e.sizes)
}

// Size returns the number of encodable tuples.
func (e *Encoding) Size() int64 {
	return e.total
}

// Encode maps a tuple to its integer code. The tuple length must match the
// arity and every component must lie within its factor bound; violations
// are programmer errors.
func (e *Encoding) Encode(tuple []int) int64 {
	if len(tuple) != len(e.sizes) {
		panic(fmt.Sprintf("enc: encoding %d-tuple with %d factors", len(tuple), len(e.sizes)))
	}

	code := int64(0)
	for i, t := range tuple {
		if t < 0 || t >= e.sizes[i] {
			panic(fmt.Sprintf("enc: component %d out of range: %d ∉ [0, %d)", i, t, e.sizes[i]))
		}
		code = code*int64(e.sizes[i]) + int64(t)
	}
	return code
}

// Decode is the exact inverse of Encode.
func (e *Encoding) Decode(code int64) []int {
	tuple := make([]int, len(e.sizes))
	e.DecodeInto(code, tuple)
	return tuple
}

// DecodeInto decodes into a caller-provided tuple, avoiding an allocation
// on hot paths. dst must have length equal to the arity.
func (e *Encoding) DecodeInto(code int64, dst []int) {
	if len(dst) != len(e.sizes) {
		panic(fmt.Sprintf("enc: decoding into %d-tuple with %d factors", len(dst), len(e.sizes)))
	}
	if code < 0 || code >= e.total {
		panic(fmt.Sprintf("enc: code out of range: %d ∉ [0, %d)", code, e.total))
	}

	for i := len(e.sizes) - 1; i >= 0; i-- {
		sz := int64(e.sizes[i])
		dst[i] = int(code % sz)
		code /= sz
	}
}

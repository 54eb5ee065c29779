package utils

import (
	"github.com/benbjohnson/immutable"
)

// Hasher is the hashing contract used for every hashed element domain.
type Hasher[T any] interface {
	immutable.Hasher[T]
}

type (
	// Hashable is implemented by all hashable types.
	Hashable interface {
		Hash() uint32
	}
	// HashableEq is implemented by all hashable types that can be compared for equality.
	HashableEq[T any] interface {
		Hashable
		Equal(T) bool
	}

	// hashableHasher is a hasher for hashable and equality comparable entities.
	hashableHasher[T HashableEq[T]] struct{}
)

// Equal checks that two hashable entities a and b are equal.
func (hashableHasher[T]) Equal(a, b T) bool { return a.Equal(b) }

// Hash computes the uint32 hash of hashable entity a.
func (hashableHasher[T]) Hash(a T) uint32 { return a.Hash() }

// HashableHasher is a generic hasher factory of hashable and equality comparable entities.
func HashableHasher[T HashableEq[T]]() Hasher[T] { return hashableHasher[T]{} }

// NewImmMap creates an immutable map where the keys must be hashable and equality comparable.
func NewImmMap[K HashableEq[K], V any]() *immutable.Map[K, V] {
	return immutable.NewMap[K, V](HashableHasher[K]())
}

// IntHasher hashes universe indices.
type IntHasher struct{}

// Hash computes the uint32 hash of index i.
func (IntHasher) Hash(i int) uint32 {
	return uint32(i) ^ uint32(uint64(i)>>32)
}

// Equal checks equality between two universe indices.
func (IntHasher) Equal(a, b int) bool { return a == b }

var _ Hasher[int] = IntHasher{}

// IntSliceHasher hashes value vectors, e. g. elements of power algebras.
type IntSliceHasher struct{}

// Hash computes the uint32 hash of value vector vs.
func (IntSliceHasher) Hash(vs []int) (seed uint32) {
	for _, v := range vs {
		seed = HashCombine(seed, IntHasher{}.Hash(v))
	}
	return
}

// Equal checks component-wise equality between two value vectors.
func (IntSliceHasher) Equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

var _ Hasher[[]int] = IntSliceHasher{}

// HashCombine uses the C++ boost algorithm for combining multiple hash values.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, v := range hs {
		seed = v + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}

	return
}

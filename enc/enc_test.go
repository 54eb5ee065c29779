package enc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, sizes := range [][]int{
		{1},
		{2},
		{3, 4},
		{2, 3, 5},
		{7, 1, 3},
	} {
		e, err := New(sizes...)
		require.NoError(t, err)

		seen := make(map[int64]bool, e.Size())
		tuple := make([]int, e.Arity())
		for code := int64(0); code < e.Size(); code++ {
			e.DecodeInto(code, tuple)
			back := e.Encode(tuple)
			assert.Equal(t, code, back, "sizes %v tuple %v", sizes, tuple)
			assert.False(t, seen[back], "code %d decoded twice", back)
			seen[back] = true
		}
	}
}

func TestHornerOrder(t *testing.T) {
	e, err := New(2, 3)
	require.NoError(t, err)

	// (t0, t1) encodes as t0*3 + t1.
	assert.Equal(t, int64(0), e.Encode([]int{0, 0}))
	assert.Equal(t, int64(2), e.Encode([]int{0, 2}))
	assert.Equal(t, int64(3), e.Encode([]int{1, 0}))
	assert.Equal(t, int64(5), e.Encode([]int{1, 2}))
	assert.Equal(t, []int{1, 2}, e.Decode(5))
}

func TestPower(t *testing.T) {
	e, err := Power(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, e.Arity())
	assert.Equal(t, int64(81), e.Size())
}

func TestNullaryEncoding(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Size())
	assert.Equal(t, int64(0), e.Encode(nil))
	assert.Empty(t, e.Decode(0))
}

func TestInvalidSizes(t *testing.T) {
	_, err := New(3, 0)
	assert.Error(t, err)

	_, err = New(-1)
	assert.Error(t, err)
}

func TestOverflow(t *testing.T) {
	sizes := make([]int, 11)
	for i := range sizes {
		sizes[i] = 1 << 6
	}
	_, err := New(sizes...) // 2^66 tuples
	assert.ErrorIs(t, err, ErrRadixOverflow)
}

func TestContractViolations(t *testing.T) {
	e, err := New(2, 2)
	require.NoError(t, err)

	assert.Panics(t, func() { e.Encode([]int{0}) })
	assert.Panics(t, func() { e.Encode([]int{0, 2}) })
	assert.Panics(t, func() { e.Decode(4) })
	assert.Panics(t, func() { e.Decode(-1) })
}

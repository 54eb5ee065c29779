// Package partition implements equivalence relations ("partitions") over a
// finite universe {0, ..., n-1}, ordered by refinement. Partitions are the
// element domain of congruence lattices: the congruence lattice builder
// closes a set of principal congruences under the binary Join operation.
package partition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ualc/ualc/utils"

	"github.com/fatih/color"
	uf "github.com/spakin/disjoint"
)

var (
	ErrInvalidPartition         = errors.New("partition: malformed representative array")
	ErrIncompatibleDomainSize   = errors.New("partition: partitions over mismatched universe sizes")
	errQueryBeforeNormalization = "partition: structural query on a non-normalized partition"
)

var colorize = struct {
	Delim func(...interface{}) string
}{
	Delim: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
}

// Partition maps each universe index to a representative of its block.
// After normalization the representative of a block is always its smallest
// member and rep[rep[i]] == rep[i] holds for every i. A partition is
// created either as one of the bound constants (Zero, One), from a raw
// representative array, or by merging pairs into a copy of an existing
// partition. Merging denormalizes; every structural query requires a
// normalized receiver, and querying a denormalized partition is a fatal
// contract violation. Normalized partitions are immutable by convention
// and freely shareable.
type Partition struct {
	rep        []int
	blocks     int
	normalized bool
}

// Zero returns the finest partition over n elements: all blocks are
// singletons. The universe size must be positive.
func Zero(n int) *Partition {
	if n <= 0 {
		panic(fmt.Sprintf("partition: non-positive universe size %d", n))
	}

	rep := make([]int, n)
	for i := range rep {
		rep[i] = i
	}
	return &Partition{rep: rep, blocks: n, normalized: true}
}

// One returns the coarsest partition over n elements: a single block.
// The universe size must be positive.
func One(n int) *Partition {
	if n <= 0 {
		panic(fmt.Sprintf("partition: non-positive universe size %d", n))
	}

	rep := make([]int, n)
	return &Partition{rep: rep, blocks: 1, normalized: true}
}

// FromArray builds the partition in which every i is related to rep[i].
// The array may contain representative chains; the result is normalized.
// Empty arrays and out-of-range entries yield ErrInvalidPartition.
func FromArray(rep []int) (*Partition, error) {
	if len(rep) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrInvalidPartition)
	}

	p := Zero(len(rep))
	for i, r := range rep {
		if r < 0 || r >= len(rep) {
			return nil, fmt.Errorf("%w: rep[%d] = %d ∉ [0, %d)", ErrInvalidPartition, i, r, len(rep))
		}
		p.Merge(i, r)
	}

	p.Normalize()
	return p, nil
}

// Size returns the universe size n.
func (p *Partition) Size() int {
	return len(p.rep)
}

// Copy returns a mutable copy of p, preserving normalization state.
func (p *Partition) Copy() *Partition {
	return &Partition{
		rep:        append([]int(nil), p.rep...),
		blocks:     p.blocks,
		normalized: p.normalized,
	}
}

// root follows representative chains up to the block root. Merge only ever
// attaches the larger of two roots below the smaller, so the root of a
// chain is the smallest member of its block.
func (p *Partition) root(i int) int {
	for p.rep[i] != i {
		// Path halving keeps chains shallow without changing roots.
		p.rep[i] = p.rep[p.rep[i]]
		i = p.rep[i]
	}
	return i
}

// Merge relates i and j directly (raw union). The partition is left
// denormalized; call Normalize before any structural query.
func (p *Partition) Merge(i, j int) {
	ri, rj := p.root(i), p.root(j)
	if ri == rj {
		return
	}
	if rj < ri {
		ri, rj = rj, ri
	}

	p.rep[rj] = ri
	p.normalized = false
}

// Normalize flattens all representative chains so that every index points
// directly at the smallest member of its block, and recounts blocks.
// Idempotent, and the representative numbering is stable across repeated
// normalization.
func (p *Partition) Normalize() {
	blocks := 0
	for i := range p.rep {
		p.rep[i] = p.root(i)
		if p.rep[i] == i {
			blocks++
		}
	}

	p.blocks = blocks
	p.normalized = true
}

func (p *Partition) checkNormalized() {
	if !p.normalized {
		panic(errQueryBeforeNormalization)
	}
}

func (p *Partition) checkSize(q *Partition) error {
	if len(p.rep) != len(q.rep) {
		return fmt.Errorf("%w: %d vs. %d", ErrIncompatibleDomainSize, len(p.rep), len(q.rep))
	}
	return nil
}

// Join returns the least upper bound of p and q in the refinement order:
// the finest partition coarser than both. Implemented by merging the block
// structure of both operands in a disjoint-set forest.
func (p *Partition) Join(q *Partition) (*Partition, error) {
	if err := p.checkSize(q); err != nil {
		return nil, err
	}
	p.checkNormalized()
	q.checkNormalized()

	els := make([]*uf.Element, len(p.rep))
	for i := range els {
		els[i] = uf.NewElement()
	}
	for i := range els {
		uf.Union(els[i], els[p.rep[i]])
		uf.Union(els[i], els[q.rep[i]])
	}

	return fromForest(els), nil
}

// Meet returns the greatest lower bound of p and q: two indices are
// related iff they are related under both operands. Implemented by
// re-blocking on the encoded pair of representatives.
func (p *Partition) Meet(q *Partition) (*Partition, error) {
	if err := p.checkSize(q); err != nil {
		return nil, err
	}
	p.checkNormalized()
	q.checkNormalized()

	n := len(p.rep)
	canonical := make(map[int64]int, n)
	rep := make([]int, n)
	for i := 0; i < n; i++ {
		// Horner encoding of the representative pair; n*n always fits
		// since both factors are universe indices.
		code := int64(p.rep[i])*int64(n) + int64(q.rep[i])
		first, ok := canonical[code]
		if !ok {
			canonical[code] = i
			first = i
		}
		rep[i] = first
	}

	res := &Partition{rep: rep, blocks: len(canonical), normalized: true}
	return res, nil
}

// MustJoin is Join for operands known to share a universe.
func (p *Partition) MustJoin(q *Partition) *Partition {
	r, err := p.Join(q)
	if err != nil {
		panic(err)
	}
	return r
}

// MustMeet is Meet for operands known to share a universe.
func (p *Partition) MustMeet(q *Partition) *Partition {
	r, err := p.Meet(q)
	if err != nil {
		panic(err)
	}
	return r
}

// Leq reports whether p refines q, i. e. every block of p is contained in
// some block of q.
func (p *Partition) Leq(q *Partition) (bool, error) {
	if err := p.checkSize(q); err != nil {
		return false, err
	}
	p.checkNormalized()
	q.checkNormalized()

	for i := range p.rep {
		if q.rep[i] != q.rep[p.rep[i]] {
			return false, nil
		}
	}
	return true, nil
}

// MustLeq is Leq for operands known to share a universe.
func (p *Partition) MustLeq(q *Partition) bool {
	leq, err := p.Leq(q)
	if err != nil {
		panic(err)
	}
	return leq
}

// Related reports whether i and j lie in the same block.
func (p *Partition) Related(i, j int) bool {
	p.checkNormalized()
	return p.rep[i] == p.rep[j]
}

// Representative returns the canonical (smallest) member of i's block.
func (p *Partition) Representative(i int) int {
	p.checkNormalized()
	return p.rep[i]
}

// Representatives returns the canonical members of all blocks in
// increasing order.
func (p *Partition) Representatives() []int {
	p.checkNormalized()

	reps := make([]int, 0, p.blocks)
	for i, r := range p.rep {
		if r == i {
			reps = append(reps, i)
		}
	}
	return reps
}

// BlockIndex returns the position of i's block among all blocks, ordered
// by their canonical members.
func (p *Partition) BlockIndex(i int) int {
	p.checkNormalized()

	idx := 0
	for j := 0; j < p.rep[i]; j++ {
		if p.rep[j] == j {
			idx++
		}
	}
	return idx
}

// NumBlocks returns the number of blocks.
func (p *Partition) NumBlocks() int {
	p.checkNormalized()
	return p.blocks
}

// Rank is the height of p in the partition lattice: n - NumBlocks().
// Zero has rank 0; One has rank n-1.
func (p *Partition) Rank() int {
	p.checkNormalized()
	return len(p.rep) - p.blocks
}

// IsZero reports whether p is the all-singletons partition.
func (p *Partition) IsZero() bool {
	p.checkNormalized()
	return p.blocks == len(p.rep)
}

// IsUniform reports whether p is the one-block partition.
func (p *Partition) IsUniform() bool {
	p.checkNormalized()
	return p.blocks == 1
}

// Equal checks that p and q are the same partition over the same universe.
func (p *Partition) Equal(q *Partition) bool {
	if len(p.rep) != len(q.rep) {
		return false
	}
	p.checkNormalized()
	q.checkNormalized()

	for i, r := range p.rep {
		if q.rep[i] != r {
			return false
		}
	}
	return true
}

// Hash computes the uint32 hash of a normalized partition.
func (p *Partition) Hash() uint32 {
	p.checkNormalized()

	hs := make([]uint32, len(p.rep))
	for i, r := range p.rep {
		hs[i] = uint32(r)
	}
	return utils.HashCombine(hs...)
}

// String renders the partition in block notation, e. g. |0,1|2|.
func (p *Partition) String() string {
	p.checkNormalized()

	var sb strings.Builder
	for _, r := range p.Representatives() {
		sb.WriteString(colorize.Delim("|"))
		first := true
		for i, ri := range p.rep {
			if ri != r {
				continue
			}
			if !first {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Itoa(i))
			first = false
		}
	}
	sb.WriteString(colorize.Delim("|"))
	return sb.String()
}

// Hasher hashes partitions for use in hashed collections.
type Hasher struct{}

func (Hasher) Hash(p *Partition) uint32   { return p.Hash() }
func (Hasher) Equal(p, q *Partition) bool { return p.Equal(q) }

var _ utils.Hasher[*Partition] = Hasher{}

// fromForest extracts the normalized partition induced by a disjoint-set
// forest over the universe indices.
func fromForest(els []*uf.Element) *Partition {
	canonical := make(map[*uf.Element]int, len(els))
	rep := make([]int, len(els))
	blocks := 0
	for i, el := range els {
		root := el.Find()
		first, ok := canonical[root]
		if !ok {
			canonical[root] = i
			first = i
			blocks++
		}
		rep[i] = first
	}

	return &Partition{rep: rep, blocks: blocks, normalized: true}
}

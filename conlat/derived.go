package conlat

import (
	"github.com/ualc/ualc/enc"
	"github.com/ualc/ualc/partition"
	"github.com/ualc/ualc/utils"
	"github.com/ualc/ualc/utils/graph"
	i "github.com/ualc/ualc/utils/indenter"
	"github.com/ualc/ualc/utils/pq"

	"github.com/benbjohnson/immutable"
)

// index maps discovered congruences to their discovery position. Built
// lazily with the universe; shared by the derived-set and property
// computations.
func (l *Lattice) indexOf() (*immutable.Map[*partition.Partition, int], error) {
	u, err := l.Universe()
	if err != nil {
		return nil, err
	}

	if l.idx == nil {
		idx := utils.NewImmMap[*partition.Partition, int]()
		for j, p := range u {
			idx = idx.Set(p, j)
		}
		l.idx = idx
	}
	return l.idx, nil
}

// Contains reports whether p is a discovered congruence.
func (l *Lattice) Contains(p *partition.Partition) (bool, error) {
	idx, err := l.indexOf()
	if err != nil {
		return false, err
	}
	_, found := idx.Get(p)
	return found, nil
}

// requireDerived computes the cover relation of the discovered universe
// and the subsets derived from it. Derived sets over a partial universe
// would be unsound, so an incomplete universe stage propagates its error.
func (l *Lattice) requireDerived() error {
	if l.stage >= derivedSetsComputed {
		return nil
	}
	u, err := l.Universe()
	if err != nil {
		return err
	}

	N := len(u)

	// Strictly-below sets, ordered by rank so that the maximality scan
	// for covers sees candidates coarsest-first.
	byRank := pq.Empty(func(a, b int) bool {
		ra, rb := u[a].Rank(), u[b].Rank()
		if ra != rb {
			return ra < rb
		}
		return a < b
	})
	for j := 0; j < N; j++ {
		byRank.Add(j)
	}
	ranked := make([]int, 0, N)
	for !byRank.IsEmpty() {
		ranked = append(ranked, byRank.GetNext())
	}

	below := make([][]int, N)
	for _, j := range ranked {
		for _, k := range ranked {
			if j != k && u[k].Rank() <= u[j].Rank() && u[k].MustLeq(u[j]) && !u[k].Equal(u[j]) {
				below[j] = append(below[j], k)
			}
		}
	}

	// j is a lower cover of i iff j is maximal among the elements
	// strictly below i.
	lower := graph.OfHashable(func(ci int) []int {
		covers := []int{}
		for _, j := range below[ci] {
			maximal := true
			for _, k := range below[ci] {
				if k != j && u[j].MustLeq(u[k]) && !u[j].Equal(u[k]) {
					maximal = false
					break
				}
			}
			if maximal {
				covers = append(covers, j)
			}
		}
		return covers
	})

	l.lowerCovers = make([][]int, N)
	l.upperCovers = make([][]int, N)
	for j := 0; j < N; j++ {
		l.lowerCovers[j] = lower.Edges(j)
		for _, k := range l.lowerCovers[j] {
			l.upperCovers[k] = append(l.upperCovers[k], j)
		}
	}

	zeroIdx, oneIdx := -1, -1
	for j, p := range u {
		if p.IsZero() {
			zeroIdx = j
		}
		if p.IsUniform() {
			oneIdx = j
		}
	}

	pick := func(indices []int) []*partition.Partition {
		res := make([]*partition.Partition, len(indices))
		for j, k := range indices {
			res[j] = u[k]
		}
		return res
	}

	// Atoms cover zero; coatoms are covered by one. In a finite lattice
	// an element is join-irreducible iff it has a unique lower cover,
	// and meet-irreducible iff it has a unique upper cover.
	l.atoms = pick(l.upperCovers[zeroIdx])
	l.coatoms = pick(l.lowerCovers[oneIdx])
	for j := 0; j < N; j++ {
		if len(l.lowerCovers[j]) == 1 {
			l.ji = append(l.ji, u[j])
		}
		if len(l.upperCovers[j]) == 1 {
			l.mi = append(l.mi, u[j])
		}
	}

	l.stage = derivedSetsComputed
	return nil
}

// Atoms returns the minimal non-zero congruences.
func (l *Lattice) Atoms() ([]*partition.Partition, error) {
	if err := l.requireDerived(); err != nil {
		return nil, err
	}
	return append([]*partition.Partition(nil), l.atoms...), nil
}

// Coatoms returns the maximal congruences below one.
func (l *Lattice) Coatoms() ([]*partition.Partition, error) {
	if err := l.requireDerived(); err != nil {
		return nil, err
	}
	return append([]*partition.Partition(nil), l.coatoms...), nil
}

// JoinIrreducibles returns the congruences that are not the join of two
// strictly smaller congruences.
func (l *Lattice) JoinIrreducibles() ([]*partition.Partition, error) {
	if err := l.requireDerived(); err != nil {
		return nil, err
	}
	return append([]*partition.Partition(nil), l.ji...), nil
}

// MeetIrreducibles returns the congruences that are not the meet of two
// strictly larger congruences.
func (l *Lattice) MeetIrreducibles() ([]*partition.Partition, error) {
	if err := l.requireDerived(); err != nil {
		return nil, err
	}
	return append([]*partition.Partition(nil), l.mi...), nil
}

// UpperCovers returns the congruences covering p in the lattice order.
func (l *Lattice) UpperCovers(p *partition.Partition) ([]*partition.Partition, error) {
	if err := l.requireDerived(); err != nil {
		return nil, err
	}
	idx, err := l.indexOf()
	if err != nil {
		return nil, err
	}

	j, found := idx.Get(p)
	if !found {
		return nil, nil
	}
	res := make([]*partition.Partition, len(l.upperCovers[j]))
	for k, c := range l.upperCovers[j] {
		res[k] = l.universe[c]
	}
	return res, nil
}

// IsCongruence checks that a partition is compatible with every operation
// of the algebra: whenever x ~ y, op(..x..) ~ op(..y..) for every
// operation, position and choice of remaining arguments.
func (l *Lattice) IsCongruence(p *partition.Partition) bool {
	n := l.alg.Size()
	if p.Size() != n {
		return false
	}

	for _, op := range l.alg.Operations() {
		k := op.Arity()
		if k == 0 {
			continue
		}

		rest, err := enc.Power(n, k-1)
		if err != nil {
			panic(err)
		}

		argsX := make([]int, k)
		others := make([]int, k-1)
		for x := 0; x < n; x++ {
			for y := x + 1; y < n; y++ {
				if !p.Related(x, y) {
					continue
				}
				for pos := 0; pos < k; pos++ {
					for code := int64(0); code < rest.Size(); code++ {
						rest.DecodeInto(code, others)
						for j := 0; j < k; j++ {
							switch {
							case j < pos:
								argsX[j] = others[j]
							case j == pos:
								argsX[j] = x
							default:
								argsX[j] = others[j-1]
							}
						}
						vx := op.Eval(argsX)
						argsX[pos] = y
						vy := op.Eval(argsX)
						if !p.Related(vx, vy) {
							return false
						}
					}
				}
			}
		}
	}
	return true
}

// String renders the discovered universe, one congruence per line.
func (l *Lattice) String() string {
	u, _ := l.Universe()

	lines := make([]func() string, len(u))
	for j, p := range u {
		p := p
		lines[j] = p.String
	}
	return i.Indenter().Start("Con(" + l.alg.Name() + ") {").NestThunked(lines...).End("}")
}

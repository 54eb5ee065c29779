// Package conlat builds the congruence lattice of a finite algebra: the
// lattice of all equivalence relations compatible with every operation.
//
// The builder first computes all principal congruences Cg(a,b) via a
// union-find closure that restores operation compatibility, then closes
// the set of principals under binary join with the generic closure engine,
// and finally derives the cover relation, atoms, coatoms and the join- and
// meet-irreducible elements. Every stage is computed lazily and cached.
package conlat

import (
	"fmt"
	"time"

	"github.com/ualc/ualc/algebra"
	"github.com/ualc/ualc/closure"
	"github.com/ualc/ualc/enc"
	"github.com/ualc/ualc/partition"
	"github.com/ualc/ualc/utils"
	"github.com/ualc/ualc/utils/hmap"
	"github.com/ualc/ualc/utils/worklist"

	"github.com/benbjohnson/immutable"
	uf "github.com/spakin/disjoint"
)

type stage int

const (
	uninitialized stage = iota
	principalsComputed
	universeComputed
	derivedSetsComputed
)

// Pair is an ordered generator pair of a principal congruence.
type Pair struct {
	A, B int
}

// Lattice is the congruence lattice of an algebra, computed stage by
// stage: Uninitialized -> PrincipalsComputed -> UniverseComputed ->
// DerivedSetsComputed. Replacing the algebra requires Reset.
type Lattice struct {
	alg      *algebra.Algebra
	maxSize  int
	progress func(found, rounds int) (cancel bool)

	stage      stage
	principals []*partition.Partition
	genPairs   []Pair

	universe []*partition.Partition
	complete bool
	uniErr   error
	idx      *immutable.Map[*partition.Partition, int]

	lowerCovers [][]int
	upperCovers [][]int
	atoms       []*partition.Partition
	coatoms     []*partition.Partition
	ji          []*partition.Partition
	mi          []*partition.Partition
}

// New creates an uninitialized congruence lattice for the given algebra.
func New(a *algebra.Algebra) *Lattice {
	return &Lattice{alg: a}
}

// SetMaxSize bounds the universe closure; 0 means unbounded. Must be set
// before the universe stage is computed.
func (l *Lattice) SetMaxSize(n int) {
	l.maxSize = n
}

// SetProgress installs a non-blocking progress callback for the universe
// closure; returning true cancels at the next round boundary.
func (l *Lattice) SetProgress(progress func(found, rounds int) (cancel bool)) {
	l.progress = progress
}

// Reset discards all computed stages, e. g. after the underlying algebra
// has been replaced.
func (l *Lattice) Reset(a *algebra.Algebra) {
	*l = Lattice{alg: a, maxSize: l.maxSize, progress: l.progress}
}

// Algebra returns the algebra the lattice belongs to.
func (l *Lattice) Algebra() *algebra.Algebra {
	return l.alg
}

// Zero returns the bottom congruence (all blocks singletons).
func (l *Lattice) Zero() *partition.Partition {
	return partition.Zero(l.alg.Size())
}

// One returns the top congruence (a single block).
func (l *Lattice) One() *partition.Partition {
	return partition.One(l.alg.Size())
}

// Principal computes Cg(a,b), the smallest congruence relating a and b.
// Starting from the merged pair, a worklist of newly related pairs drives
// the restoration of operation compatibility: whenever x ~ y, then
// op(..x..) ~ op(..y..) for every operation and every choice of the
// remaining arguments.
func (l *Lattice) Principal(a, b int) *partition.Partition {
	n := l.alg.Size()
	if a < 0 || a >= n || b < 0 || b >= n {
		panic(fmt.Sprintf("conlat: pair (%d,%d) outside universe of size %d", a, b, n))
	}

	els := make([]*uf.Element, n)
	for i := range els {
		els[i] = uf.NewElement()
		els[i].Data = i
	}
	related := func(x, y int) bool {
		return els[x].Find() == els[y].Find()
	}

	if !related(a, b) {
		uf.Union(els[a], els[b])

		worklist.Start(Pair{a, b}, func(next Pair, add func(el Pair)) {
			for _, op := range l.alg.Operations() {
				l.propagate(op, next, related, func(x, y int) {
					uf.Union(els[x], els[y])
					add(Pair{x, y})
				})
			}
		})
	}

	rep := make([]int, n)
	for i, el := range els {
		rep[i] = el.Find().Data.(int)
	}
	p, err := partition.FromArray(rep)
	if err != nil {
		panic(err)
	}
	return p
}

// propagate applies one operation to the newly related pair in every
// argument position, with all choices of the remaining arguments, and
// merges result pairs that compatibility forces together.
func (l *Lattice) propagate(op algebra.Operation, next Pair, related func(x, y int) bool, merge func(x, y int)) {
	k := op.Arity()
	if k == 0 {
		return
	}

	rest, err := enc.Power(l.alg.Size(), k-1)
	if err != nil {
		panic(err)
	}

	argsX := make([]int, k)
	argsY := make([]int, k)
	others := make([]int, k-1)
	for pos := 0; pos < k; pos++ {
		for code := int64(0); code < rest.Size(); code++ {
			rest.DecodeInto(code, others)
			for j := 0; j < k; j++ {
				switch {
				case j < pos:
					argsX[j] = others[j]
				case j == pos:
					argsX[j] = next.A
				default:
					argsX[j] = others[j-1]
				}
				argsY[j] = argsX[j]
			}
			argsY[pos] = next.B

			x, y := op.Eval(argsX), op.Eval(argsY)
			if x != y && !related(x, y) {
				merge(x, y)
			}
		}
	}
}

// Principals computes the deduplicated set of principal congruences
// Cg(a,b) for all pairs a < b, together with a generating pair for each.
// The zero congruence is never principal and is excluded.
func (l *Lattice) Principals() []*partition.Partition {
	l.requirePrincipals()
	return append([]*partition.Partition(nil), l.principals...)
}

// GeneratingPairs returns one generating pair per principal congruence,
// positionally matching Principals.
func (l *Lattice) GeneratingPairs() []Pair {
	l.requirePrincipals()
	return append([]Pair(nil), l.genPairs...)
}

func (l *Lattice) requirePrincipals() {
	if l.stage >= principalsComputed {
		return
	}

	seen := hmap.NewMap[int](partition.Hasher{})
	n := l.alg.Size()
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			p := l.Principal(a, b)
			if _, found := seen.GetOk(p); found {
				continue
			}
			seen.Set(p, len(l.principals))
			l.principals = append(l.principals, p)
			l.genPairs = append(l.genPairs, Pair{a, b})
		}
	}

	l.stage = principalsComputed
}

// Universe computes the set of all congruences: the closure of the
// principal congruences under binary join, seeded with the zero
// congruence. On ErrClosureTooLarge the discovered subset is returned
// alongside the error and Complete reports false.
func (l *Lattice) Universe() ([]*partition.Partition, error) {
	if l.stage >= universeComputed {
		return append([]*partition.Partition(nil), l.universe...), l.uniErr
	}
	defer utils.TimeTrack(time.Now(), "Con("+l.alg.Name()+") universe")
	l.requirePrincipals()

	set := closure.New(closure.Config[*partition.Partition]{
		Hasher: partition.Hasher{},
		Rules: []closure.Rule[*partition.Partition]{
			closure.TotalRule("∨", 2, func(args []*partition.Partition) *partition.Partition {
				return args[0].MustJoin(args[1])
			}),
		},
		MaxSize:  l.maxSize,
		Progress: l.progress,
	})

	set.Add(l.Zero())
	set.AddAll(l.principals...)
	l.uniErr = set.Close()

	l.universe = set.Elements()
	l.complete = set.Complete()
	l.stage = universeComputed
	utils.VerbosePrint("Con(%s): %d congruences from %d principals in %d rounds\n",
		l.alg.Name(), len(l.universe), len(l.principals), set.Rounds())

	return append([]*partition.Partition(nil), l.universe...), l.uniErr
}

// Complete reports whether the universe stage finished without hitting
// the size bound or being cancelled.
func (l *Lattice) Complete() bool {
	return l.stage >= universeComputed && l.complete
}

// Size returns the number of discovered congruences.
func (l *Lattice) Size() (int, error) {
	u, err := l.Universe()
	return len(u), err
}

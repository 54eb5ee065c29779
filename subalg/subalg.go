// Package subalg generates subuniverses (Sg) and free algebras by
// parameterizing the generic closure engine with an algebra's operations.
package subalg

import (
	"errors"
	"fmt"

	"github.com/ualc/ualc/algebra"
	"github.com/ualc/ualc/closure"
	"github.com/ualc/ualc/enc"
	"github.com/ualc/ualc/utils"
)

var ErrOutOfUniverse = errors.New("subalg: generator outside the universe")

type config struct {
	maxSize  int
	witness  bool
	workers  int
	progress func(found, rounds int) (cancel bool)
}

// Option configures a generation run.
type Option func(*config)

// WithMaxSize bounds the closure; exceeding it yields ErrClosureTooLarge
// with the partial subuniverse retained.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// WithWitnesses records a witness term for every generated element.
func WithWitnesses() Option {
	return func(c *config) { c.witness = true }
}

// WithWorkers parallelizes tuple evaluation within closure rounds.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithProgress installs a round-boundary progress callback that may
// request cancellation.
func WithProgress(progress func(found, rounds int) (cancel bool)) Option {
	return func(c *config) { c.progress = progress }
}

// rules lifts the operations of an algebra to closure rules over a domain
// D, given a pointwise application function.
func rules[D any](a *algebra.Algebra, apply func(op algebra.Operation, args []D) D) []closure.Rule[D] {
	ops := a.Operations()
	rs := make([]closure.Rule[D], len(ops))
	for i, op := range ops {
		op := op
		rs[i] = closure.TotalRule(op.Symbol(), op.Arity(), func(args []D) D {
			return apply(op, args)
		})
	}
	return rs
}

// Sg computes the subuniverse of a generated by gens: the least subset
// containing gens and closed under every operation. The returned set is
// live: further generators may be added and the closure resumed, which is
// how repeated single-point extensions avoid recomputation. On
// ErrClosureTooLarge or ErrCancelled the partial set is returned alongside
// the error.
func Sg(a *algebra.Algebra, gens []int, opts ...Option) (*closure.Set[int], error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	for _, g := range gens {
		if g < 0 || g >= a.Size() {
			return nil, fmt.Errorf("%w: %d ∉ [0, %d)", ErrOutOfUniverse, g, a.Size())
		}
	}

	set := closure.New(closure.Config[int]{
		Hasher: utils.IntHasher{},
		Rules: rules(a, func(op algebra.Operation, args []int) int {
			return op.Eval(args)
		}),
		MaxSize:  c.maxSize,
		Witness:  c.witness,
		Workers:  c.workers,
		Progress: c.progress,
	})

	set.AddAll(gens...)
	err := set.Close()
	return set, err
}

// FreeAlgebra is the free algebra on k generators in the variety generated
// by a base algebra, realized inside the direct power a^(|a|^k): elements
// are value vectors indexed by the encoded k-tuples of generator
// assignments, and the generators are the k projection vectors.
type FreeAlgebra struct {
	base  *algebra.Algebra
	k     int
	coder *enc.Encoding
	set   *closure.Set[[]int]
}

// Free generates the free algebra on k generators. The column space has
// |a|^k entries per element, so even modest parameters are combinatorially
// explosive; callers should bound the run with WithMaxSize and treat
// ErrClosureTooLarge as inconclusive. The partial algebra is returned
// alongside a non-nil error.
func Free(a *algebra.Algebra, k int, opts ...Option) (*FreeAlgebra, error) {
	if k < 1 {
		return nil, fmt.Errorf("subalg: free algebra on %d generators", k)
	}

	var c config
	for _, opt := range opts {
		opt(&c)
	}

	coder, err := enc.Power(a.Size(), k)
	if err != nil {
		return nil, err
	}
	cols := coder.Size()
	if cols > 1<<24 {
		return nil, fmt.Errorf("%w: %d columns per element", closure.ErrClosureTooLarge, cols)
	}

	set := closure.New(closure.Config[[]int]{
		Hasher: utils.IntSliceHasher{},
		Rules: rules(a, func(op algebra.Operation, args [][]int) []int {
			res := make([]int, cols)
			point := make([]int, len(args))
			for col := 0; col < int(cols); col++ {
				for j := range args {
					point[j] = args[j][col]
				}
				res[col] = op.Eval(point)
			}
			return res
		}),
		MaxSize:  c.maxSize,
		Witness:  c.witness,
		Workers:  c.workers,
		Progress: c.progress,
	})

	// The i-th generator is the projection onto the i-th coordinate of
	// the encoded assignment tuples.
	assignment := make([]int, k)
	for i := 0; i < k; i++ {
		gen := make([]int, cols)
		for col := int64(0); col < cols; col++ {
			coder.DecodeInto(col, assignment)
			gen[col] = assignment[i]
		}
		set.Add(gen)
	}

	f := &FreeAlgebra{base: a, k: k, coder: coder, set: set}
	if err := set.Close(); err != nil {
		return f, err
	}
	return f, nil
}

// Base returns the algebra generating the variety.
func (f *FreeAlgebra) Base() *algebra.Algebra { return f.base }

// Generators returns the number of free generators.
func (f *FreeAlgebra) Generators() int { return f.k }

// Size returns the number of generated elements.
func (f *FreeAlgebra) Size() int { return f.set.Size() }

// Set exposes the underlying closure set, including witnesses when
// requested: the witness of an element is its normal-form term over the
// free generators.
func (f *FreeAlgebra) Set() *closure.Set[[]int] { return f.set }

// Complete reports whether generation ran to fixpoint.
func (f *FreeAlgebra) Complete() bool { return f.set.Complete() }

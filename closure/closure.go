// Package closure implements the generic closure engine: the least subset
// of an element domain that contains a set of generators and is closed
// under a list of production rules, optionally together with a symbolic
// witness term for every discovered element.
//
// The computation is a semi-naive fixpoint. Elements are split into a
// processed prefix and a frontier; each round evaluates every rule on
// every argument tuple that draws at least one argument from the frontier,
// so no tuple is ever evaluated twice. A closed set may be re-opened by
// adding further generators and resumed, which the subalgebra and
// free-algebra workloads rely on.
package closure

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ualc/ualc/enc"
	"github.com/ualc/ualc/term"
	"github.com/ualc/ualc/utils"
	"github.com/ualc/ualc/utils/hmap"
)

var (
	// ErrClosureTooLarge signals that the size bound was exceeded. The
	// partial closure is retained; the caller may raise the bound and
	// resume, or treat dependent results as inconclusive.
	ErrClosureTooLarge = errors.New("closure: size bound exceeded")
	// ErrCancelled signals cooperative cancellation, observed at a round
	// boundary. The closure remains internally consistent and resumable.
	ErrCancelled = errors.New("closure: cancelled")
)

// Rule is a production rule: a named operation of fixed arity over the
// element domain. Apply may be partial; returning false skips the tuple.
// Evaluators must be pure and deterministic.
type Rule[D any] struct {
	Sym   string
	Arity int
	Apply func(args []D) (D, bool)
}

// TotalRule wraps a total evaluator as a Rule.
func TotalRule[D any](sym string, arity int, fn func(args []D) D) Rule[D] {
	return Rule[D]{sym, arity, func(args []D) (D, bool) {
		return fn(args), true
	}}
}

// Config carries the closure parameters. The hasher decides element
// identity; MaxSize (0 = unbounded) is the backpressure mechanism against
// combinatorially explosive domains; Progress is invoked after every round
// with the number of elements found and rounds completed, and may request
// cancellation; Workers > 1 parallelizes tuple evaluation within a round.
type Config[D any] struct {
	Hasher   utils.Hasher[D]
	Rules    []Rule[D]
	MaxSize  int
	Witness  bool
	Workers  int
	Progress func(found, rounds int) (cancel bool)
}

// Set is a closure in progress or at fixpoint. Elements are kept in
// discovery order; the set is monotonically non-decreasing and free of
// duplicates.
type Set[D any] struct {
	cfg       Config[D]
	elems     []D
	witnesses []term.Term
	index     *hmap.Map[D, int]
	gens      []int
	processed int
	rounds    int
	complete  bool
}

// New creates an empty closure set for the given configuration.
func New[D any](cfg Config[D]) *Set[D] {
	if cfg.Hasher == nil {
		panic("closure: configuration without a hasher")
	}
	for _, r := range cfg.Rules {
		if r.Arity < 0 || r.Apply == nil {
			panic(fmt.Sprintf("closure: malformed rule %q", r.Sym))
		}
	}

	return &Set[D]{
		cfg:      cfg,
		index:    hmap.NewMap[int](cfg.Hasher),
		complete: true,
	}
}

// Add inserts a generator, re-opening the set if it was closed. Reports
// whether the element was new. A generator already present (possibly as a
// derived element) contributes no new witness variable.
func (s *Set[D]) Add(gen D) bool {
	if _, found := s.index.GetOk(gen); found {
		return false
	}

	var w term.Term
	if s.cfg.Witness {
		w = term.Var(len(s.gens))
	}
	s.gens = append(s.gens, len(s.elems))
	s.insert(gen, w)
	s.complete = false
	return true
}

// AddAll inserts a sequence of generators.
func (s *Set[D]) AddAll(gens ...D) {
	for _, g := range gens {
		s.Add(g)
	}
}

// Close runs the fixpoint. It terminates when a round produces no new
// elements, when the size bound is hit (ErrClosureTooLarge), or when the
// progress callback requests cancellation (ErrCancelled, checked only at
// round boundaries). After a non-nil error the set holds a consistent
// partial result and Close may be called again to resume, e. g. with a
// raised bound.
func (s *Set[D]) Close() error {
	// Nullary rules can seed an otherwise empty set.
	if len(s.elems) == 0 && s.rounds == 0 {
		for _, rule := range s.cfg.Rules {
			if rule.Arity == 0 {
				s.complete = false
				break
			}
		}
		if !s.complete {
			if err := s.round(); err != nil {
				return err
			}
		}
	}

	for s.processed < len(s.elems) {
		if err := s.round(); err != nil {
			return err
		}

		if s.cfg.Progress != nil && s.cfg.Progress(len(s.elems), s.rounds) {
			return ErrCancelled
		}
	}

	s.complete = true
	return nil
}

// Size returns the number of elements discovered so far.
func (s *Set[D]) Size() int {
	return len(s.elems)
}

// Elements returns the discovered elements in discovery order.
func (s *Set[D]) Elements() []D {
	return append([]D(nil), s.elems...)
}

// Get returns the i-th discovered element.
func (s *Set[D]) Get(i int) D {
	return s.elems[i]
}

// Generators returns the accepted generators in insertion order; their
// positions match the witness variables x0, x1, ...
func (s *Set[D]) Generators() []D {
	gens := make([]D, len(s.gens))
	for i, idx := range s.gens {
		gens[i] = s.elems[idx]
	}
	return gens
}

// Contains reports whether d has been discovered.
func (s *Set[D]) Contains(d D) bool {
	_, found := s.index.GetOk(d)
	return found
}

// IndexOf returns the discovery index of d.
func (s *Set[D]) IndexOf(d D) (int, bool) {
	return s.index.GetOk(d)
}

// Witness returns the witness term of the i-th element, or nil when
// witness recording is disabled.
func (s *Set[D]) Witness(i int) term.Term {
	if !s.cfg.Witness {
		return nil
	}
	return s.witnesses[i]
}

// Rounds returns the number of completed rounds.
func (s *Set[D]) Rounds() int {
	return s.rounds
}

// Complete reports whether the set is closed under all rules.
func (s *Set[D]) Complete() bool {
	return s.complete
}

func (s *Set[D]) insert(d D, w term.Term) int {
	idx := len(s.elems)
	s.elems = append(s.elems, d)
	if s.cfg.Witness {
		s.witnesses = append(s.witnesses, w)
	}
	s.index.Set(d, idx)
	return idx
}

// candidate is a rule result produced during a round, identified by the
// indices of its argument tuple. Witnesses are only materialized for
// candidates that survive deduplication.
type candidate[D any] struct {
	value D
	args  []int
}

// round evaluates every rule on every argument tuple with at least one
// frontier argument. Tuples only draw arguments from the elements present
// at the start of the round, so results are independent of insertion
// interleaving and the frontier produced here is used first in the next
// round.
func (s *Set[D]) round() error {
	total := len(s.elems)
	frontier := s.processed

	for ri, rule := range s.cfg.Rules {
		if rule.Arity == 0 {
			// Nullary rules have no frontier argument; they fire once,
			// before any element has been processed.
			if frontier == 0 {
				if v, ok := rule.Apply(nil); ok {
					if err := s.admit(rule, v, nil); err != nil {
						return err
					}
				}
			}
			continue
		}

		// Enumerate tuples with at least one frontier argument by the
		// position p of the first such argument: positions before p range
		// over processed elements, position p over the frontier, and
		// positions after p over everything.
		for p := 0; p < rule.Arity; p++ {
			sizes := make([]int, rule.Arity)
			empty := false
			for j := range sizes {
				switch {
				case j < p:
					sizes[j] = frontier
				case j == p:
					sizes[j] = total - frontier
				default:
					sizes[j] = total
				}
				empty = empty || sizes[j] == 0
			}
			if empty {
				continue
			}

			coder, err := enc.New(sizes...)
			if err != nil {
				return fmt.Errorf("closure: rule %q (index %d): %w", rule.Sym, ri, err)
			}

			if err := s.segment(rule, p, coder); err != nil {
				return err
			}
		}
	}

	s.processed = total
	s.rounds++
	return nil
}

// segment evaluates one enumeration segment, sequentially or fanned out
// across workers. Worker results are merged in tuple-ordinal order, so the
// first-derivation-wins witness rule is independent of Workers.
func (s *Set[D]) segment(rule Rule[D], p int, coder *enc.Encoding) error {
	if s.cfg.Workers <= 1 || coder.Size() < int64(4*s.cfg.Workers) {
		args := make([]int, rule.Arity)
		vals := make([]D, rule.Arity)
		for ord := int64(0); ord < coder.Size(); ord++ {
			s.decodeTuple(coder, ord, p, args)
			for j, idx := range args {
				vals[j] = s.elems[idx]
			}

			if v, ok := rule.Apply(vals); ok {
				if err := s.admit(rule, v, args); err != nil {
					return err
				}
			}
		}
		return nil
	}

	workers := s.cfg.Workers
	chunk := (coder.Size() + int64(workers) - 1) / int64(workers)
	results := make([][]candidate[D], workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := int64(w)*chunk, int64(w+1)*chunk
		if hi > coder.Size() {
			hi = coder.Size()
		}
		if lo >= hi {
			continue
		}

		wg.Add(1)
		go func(w int, lo, hi int64) {
			defer wg.Done()

			args := make([]int, rule.Arity)
			vals := make([]D, rule.Arity)
			for ord := lo; ord < hi; ord++ {
				s.decodeTuple(coder, ord, p, args)
				for j, idx := range args {
					vals[j] = s.elems[idx]
				}

				if v, ok := rule.Apply(vals); ok {
					results[w] = append(results[w], candidate[D]{v, append([]int(nil), args...)})
				}
			}
		}(w, lo, hi)
	}
	wg.Wait()

	for _, cands := range results {
		for _, c := range cands {
			if err := s.admit(rule, c.value, c.args); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeTuple decodes a segment ordinal into element indices, offsetting
// position p into the frontier.
func (s *Set[D]) decodeTuple(coder *enc.Encoding, ord int64, p int, dst []int) {
	coder.DecodeInto(ord, dst)
	dst[p] += s.processed
}

// admit deduplicates a rule result and appends it to the next frontier,
// deriving its witness from the argument witnesses. Enforces the size
// bound.
func (s *Set[D]) admit(rule Rule[D], v D, args []int) error {
	if _, found := s.index.GetOk(v); found {
		return nil
	}
	if s.cfg.MaxSize > 0 && len(s.elems) >= s.cfg.MaxSize {
		s.complete = false
		return fmt.Errorf("%w: bound %d hit while applying %q", ErrClosureTooLarge, s.cfg.MaxSize, rule.Sym)
	}

	var w term.Term
	if s.cfg.Witness {
		sub := make([]term.Term, len(args))
		for j, idx := range args {
			sub[j] = s.witnesses[idx]
		}
		w = term.Apply{Sym: rule.Sym, Args: sub}
	}
	s.insert(v, w)
	return nil
}

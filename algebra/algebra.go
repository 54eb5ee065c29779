package algebra

import (
	"errors"
	"fmt"
	"math"

	"github.com/ualc/ualc/enc"
	"github.com/ualc/ualc/term"
)

var (
	ErrInvalidAlgebra    = errors.New("algebra: invalid algebra")
	ErrUnknownSymbol     = errors.New("algebra: unknown operation symbol")
	ErrDissimilarAlgebra = errors.New("algebra: algebras of different similarity types")
)

// Algebra is a finite universe together with an immutable family of
// operations on it.
type Algebra struct {
	name string
	size int
	ops  []Operation
}

// New creates an algebra with the given universe size and operations.
// Operation symbols must be distinct.
func New(name string, size int, ops ...Operation) (*Algebra, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: universe size %d", ErrInvalidAlgebra, size)
	}

	seen := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		if _, dup := seen[op.Symbol()]; dup {
			return nil, fmt.Errorf("%w: duplicate operation symbol %q", ErrInvalidAlgebra, op.Symbol())
		}
		seen[op.Symbol()] = struct{}{}
	}

	return &Algebra{name, size, append([]Operation(nil), ops...)}, nil
}

func (a *Algebra) Name() string { return a.name }

// Size returns the universe size.
func (a *Algebra) Size() int { return a.size }

// Operations returns the operations in declaration order.
func (a *Algebra) Operations() []Operation {
	return append([]Operation(nil), a.ops...)
}

// Op looks up an operation by symbol.
func (a *Algebra) Op(sym string) (Operation, bool) {
	for _, op := range a.ops {
		if op.Symbol() == sym {
			return op, true
		}
	}
	return nil, false
}

// EvalTerm evaluates a witness term under the given generator environment:
// variable xi denotes env[i]. Every closure witness, evaluated over the
// generators that produced it, reproduces exactly its element.
func (a *Algebra) EvalTerm(t term.Term, env []int) (int, error) {
	switch t := t.(type) {
	case term.Var:
		if int(t) < 0 || int(t) >= len(env) {
			return 0, fmt.Errorf("algebra: unbound variable x%d in environment of size %d", int(t), len(env))
		}
		return env[int(t)], nil

	case term.Apply:
		op, ok := a.Op(t.Sym)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, t.Sym)
		}
		if op.Arity() != len(t.Args) {
			return 0, fmt.Errorf("algebra: %s/%d applied to %d arguments", t.Sym, op.Arity(), len(t.Args))
		}

		args := make([]int, len(t.Args))
		for i, sub := range t.Args {
			v, err := a.EvalTerm(sub, env)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return op.Eval(args), nil

	default:
		return 0, fmt.Errorf("algebra: unknown term variant %T", t)
	}
}

// similar checks that two algebras share a similarity type: the same
// operation symbols with the same arities, in the same order.
func similar(a, b *Algebra) error {
	if len(a.ops) != len(b.ops) {
		return fmt.Errorf("%w: %s and %s", ErrDissimilarAlgebra, a.name, b.name)
	}
	for i, op := range a.ops {
		if bop := b.ops[i]; op.Symbol() != bop.Symbol() || op.Arity() != bop.Arity() {
			return fmt.Errorf("%w: %s/%d vs. %s/%d",
				ErrDissimilarAlgebra, op.Symbol(), op.Arity(), bop.Symbol(), bop.Arity())
		}
	}
	return nil
}

// Product constructs the direct product of two similar algebras. Elements
// of the product are the encoded pairs of factor elements; operations act
// component-wise.
func Product(a, b *Algebra) (*Algebra, error) {
	if err := similar(a, b); err != nil {
		return nil, err
	}

	coder, err := enc.New(a.size, b.size)
	if err != nil {
		return nil, err
	}
	if coder.Size() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: product universe of size %d", ErrInvalidAlgebra, coder.Size())
	}

	ops := make([]Operation, len(a.ops))
	for i := range a.ops {
		aop, bop := a.ops[i], b.ops[i]
		arity := aop.Arity()

		ops[i] = NewOp(aop.Symbol(), arity, func(args []int) int {
			left := make([]int, arity)
			right := make([]int, arity)
			pair := make([]int, 2)
			for j, code := range args {
				coder.DecodeInto(int64(code), pair)
				left[j], right[j] = pair[0], pair[1]
			}
			return int(coder.Encode([]int{aop.Eval(left), bop.Eval(right)}))
		})
	}

	return New(a.name+"×"+b.name, int(coder.Size()), ops...)
}

// Power constructs the k-th direct power of a. Elements are encoded
// k-tuples over the universe of a; operations act component-wise.
func Power(a *Algebra, k int) (*Algebra, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: power exponent %d", ErrInvalidAlgebra, k)
	}

	coder, err := enc.Power(a.size, k)
	if err != nil {
		return nil, err
	}
	if coder.Size() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: power universe of size %d", ErrInvalidAlgebra, coder.Size())
	}

	ops := make([]Operation, len(a.ops))
	for i := range a.ops {
		op := a.ops[i]
		arity := op.Arity()

		ops[i] = NewOp(op.Symbol(), arity, func(args []int) int {
			components := make([][]int, len(args))
			for j, code := range args {
				components[j] = coder.Decode(int64(code))
			}

			res := make([]int, k)
			point := make([]int, arity)
			for c := 0; c < k; c++ {
				for j := range args {
					point[j] = components[j][c]
				}
				res[c] = op.Eval(point)
			}
			return int(coder.Encode(res))
		})
	}

	return New(fmt.Sprintf("%s^%d", a.name, k), int(coder.Size()), ops...)
}

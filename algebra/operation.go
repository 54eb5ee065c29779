// Package algebra implements finite algebras: a universe {0, ..., n-1}
// together with a family of named finitary operations. Algebras are the
// input supplied by clients of the closure engine and the congruence
// lattice builder; they are immutable once constructed.
package algebra

import (
	"errors"
	"fmt"

	"github.com/ualc/ualc/enc"
)

var ErrIncompatibleDomainSize = errors.New("algebra: operation incompatible with universe size")

// Operation is a named, total, deterministic function of fixed arity over
// a universe of indices. The two concrete variants are FuncOp, backed by
// an evaluator, and TableOp, backed by a precomputed lookup table.
type Operation interface {
	Symbol() string
	Arity() int
	// Eval applies the operation. Arguments must match the arity and lie
	// within the universe the operation was declared over.
	Eval(args []int) int
}

// FuncOp evaluates through a client-supplied function.
type FuncOp struct {
	sym   string
	arity int
	fn    func(args []int) int
}

// NewOp creates a function-backed operation. The evaluator must be total,
// pure and deterministic over the intended universe.
func NewOp(sym string, arity int, fn func(args []int) int) FuncOp {
	if arity < 0 {
		panic(fmt.Sprintf("algebra: negative arity %d for %s", arity, sym))
	}
	return FuncOp{sym, arity, fn}
}

func (op FuncOp) Symbol() string { return op.sym }
func (op FuncOp) Arity() int     { return op.arity }

func (op FuncOp) Eval(args []int) int {
	if len(args) != op.arity {
		panic(fmt.Sprintf("algebra: %s/%d applied to %d arguments", op.sym, op.arity, len(args)))
	}
	return op.fn(args)
}

// TableOp evaluates through a flat lookup table indexed by the mixed-radix
// encoding of the argument tuple.
type TableOp struct {
	sym   string
	coder *enc.Encoding
	table []int
}

// NewTableOp creates a table-backed operation over a universe of the given
// size. The table must hold size^arity entries, one per encoded argument
// tuple, and every entry must be a universe index.
func NewTableOp(sym string, arity, size int, table []int) (TableOp, error) {
	coder, err := enc.Power(size, arity)
	if err != nil {
		return TableOp{}, err
	}
	if int64(len(table)) != coder.Size() {
		return TableOp{}, fmt.Errorf("%w: %s/%d needs %d entries, got %d",
			ErrIncompatibleDomainSize, sym, arity, coder.Size(), len(table))
	}
	for code, v := range table {
		if v < 0 || v >= size {
			return TableOp{}, fmt.Errorf("%w: %s%v = %d ∉ [0, %d)",
				ErrIncompatibleDomainSize, sym, coder.Decode(int64(code)), v, size)
		}
	}

	return TableOp{sym, coder, append([]int(nil), table...)}, nil
}

// Tabulate precomputes a lookup table for op over a universe of the given
// size. Useful when a function-backed operation is evaluated hot enough
// that the call overhead matters, and as a totality check.
func Tabulate(op Operation, size int) (TableOp, error) {
	coder, err := enc.Power(size, op.Arity())
	if err != nil {
		return TableOp{}, err
	}

	table := make([]int, coder.Size())
	args := make([]int, op.Arity())
	for code := int64(0); code < coder.Size(); code++ {
		coder.DecodeInto(code, args)
		v := op.Eval(args)
		if v < 0 || v >= size {
			return TableOp{}, fmt.Errorf("%w: %s%v = %d ∉ [0, %d)",
				ErrIncompatibleDomainSize, op.Symbol(), args, v, size)
		}
		table[code] = v
	}

	return TableOp{op.Symbol(), coder, table}, nil
}

func (op TableOp) Symbol() string { return op.sym }
func (op TableOp) Arity() int     { return op.coder.Arity() }

func (op TableOp) Eval(args []int) int {
	return op.table[op.coder.Encode(args)]
}

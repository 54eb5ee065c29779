package algebra

import (
	"errors"
	"testing"

	"github.com/ualc/ualc/term"
)

func addMod(n int) FuncOp {
	return NewOp("+", 2, func(args []int) int { return (args[0] + args[1]) % n })
}

func TestNew(t *testing.T) {
	a, err := New("Z3", 3, addMod(3))
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "Z3" || a.Size() != 3 || len(a.Operations()) != 1 {
		t.Errorf("algebra lost its parameters: %s, %d", a.Name(), a.Size())
	}
	if op, ok := a.Op("+"); !ok || op.Arity() != 2 {
		t.Error("operation lookup by symbol failed")
	}
	if _, ok := a.Op("-"); ok {
		t.Error("lookup of an undeclared symbol must fail")
	}

	if _, err := New("bad", 0); !errors.Is(err, ErrInvalidAlgebra) {
		t.Errorf("expected ErrInvalidAlgebra for an empty universe, got %v", err)
	}
	if _, err := New("dup", 2, addMod(2), addMod(2)); !errors.Is(err, ErrInvalidAlgebra) {
		t.Errorf("expected ErrInvalidAlgebra for duplicate symbols, got %v", err)
	}
}

func TestTableOp(t *testing.T) {
	// Exclusive or on {0,1}, Horner-ordered: rows by first argument.
	op, err := NewTableOp("⊕", 2, 2, []int{0, 1, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct{ x, y, want int }{
		{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0},
	} {
		if got := op.Eval([]int{test.x, test.y}); got != test.want {
			t.Errorf("%d⊕%d = %d, want %d", test.x, test.y, got, test.want)
		}
	}

	if _, err := NewTableOp("short", 2, 2, []int{0, 1}); !errors.Is(err, ErrIncompatibleDomainSize) {
		t.Errorf("expected ErrIncompatibleDomainSize for a short table, got %v", err)
	}
	if _, err := NewTableOp("range", 1, 2, []int{0, 2}); !errors.Is(err, ErrIncompatibleDomainSize) {
		t.Errorf("expected ErrIncompatibleDomainSize for an out-of-range entry, got %v", err)
	}
}

func TestTabulate(t *testing.T) {
	tab, err := Tabulate(addMod(4), 4)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if got, want := tab.Eval([]int{x, y}), (x+y)%4; got != want {
				t.Errorf("tabulated %d+%d = %d, want %d", x, y, got, want)
			}
		}
	}

	// Tabulation doubles as a totality check over the declared universe.
	escape := NewOp("esc", 1, func(args []int) int { return args[0] + 1 })
	if _, err := Tabulate(escape, 3); !errors.Is(err, ErrIncompatibleDomainSize) {
		t.Errorf("expected ErrIncompatibleDomainSize, got %v", err)
	}
}

func TestEvalTerm(t *testing.T) {
	a, err := New("Z5", 5, addMod(5))
	if err != nil {
		t.Fatal(err)
	}

	// (x0 + x1) + x0 under [2, 4] is 3 in Z5.
	tm := term.Apply{Sym: "+", Args: []term.Term{
		term.Apply{Sym: "+", Args: []term.Term{term.Var(0), term.Var(1)}},
		term.Var(0),
	}}
	got, err := a.EvalTerm(tm, []int{2, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("got %d, want 3", got)
	}

	if _, err := a.EvalTerm(term.Var(2), []int{2, 4}); err == nil {
		t.Error("expected an unbound-variable error")
	}
	if _, err := a.EvalTerm(term.Apply{Sym: "*"}, nil); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
	arityMismatch := term.Apply{Sym: "+", Args: []term.Term{term.Var(0)}}
	if _, err := a.EvalTerm(arityMismatch, []int{1}); err == nil {
		t.Error("expected an arity error")
	}
}

func TestProduct(t *testing.T) {
	z2, _ := New("Z2", 2, addMod(2))
	z3, _ := New("Z3", 3, addMod(3))

	p, err := Product(z2, z3)
	if err != nil {
		t.Fatal(err)
	}
	if p.Size() != 6 {
		t.Fatalf("Z2×Z3 has 6 elements, got %d", p.Size())
	}

	// (1,2) + (1,2) = (0,1); pairs encode as a*3+b.
	op, _ := p.Op("+")
	if got, want := op.Eval([]int{5, 5}), 1; got != want {
		t.Errorf("(1,2)+(1,2) encoded as %d, want %d", got, want)
	}

	mul := NewOp("*", 2, func(args []int) int { return (args[0] * args[1]) % 2 })
	other, _ := New("M2", 2, mul)
	if _, err := Product(z2, other); !errors.Is(err, ErrDissimilarAlgebra) {
		t.Errorf("expected ErrDissimilarAlgebra, got %v", err)
	}
}

func TestPower(t *testing.T) {
	z2, _ := New("Z2", 2, addMod(2))

	p, err := Power(z2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if p.Size() != 8 {
		t.Fatalf("Z2^3 has 8 elements, got %d", p.Size())
	}

	// (1,0,1) + (1,1,0) = (0,1,1); triples encode in Horner order.
	op, _ := p.Op("+")
	if got, want := op.Eval([]int{5, 6}), 3; got != want {
		t.Errorf("component-wise sum encoded as %d, want %d", got, want)
	}

	if _, err := Power(z2, 0); !errors.Is(err, ErrInvalidAlgebra) {
		t.Errorf("expected ErrInvalidAlgebra, got %v", err)
	}
}

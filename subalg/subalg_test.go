package subalg

import (
	"errors"
	"sort"
	"testing"

	"github.com/ualc/ualc/algebra"
	"github.com/ualc/ualc/closure"
)

func mkAlgebra(t *testing.T, name string, size int, ops ...algebra.Operation) *algebra.Algebra {
	t.Helper()

	a, err := algebra.New(name, size, ops...)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func join2() algebra.Operation {
	return algebra.NewOp("∨", 2, func(args []int) int {
		if args[0] > args[1] {
			return args[0]
		}
		return args[1]
	})
}

func sorted(xs []int) []int {
	res := append([]int(nil), xs...)
	sort.Ints(res)
	return res
}

// A set closed under max is its own subuniverse.
func TestSgAlreadyClosed(t *testing.T) {
	a := mkAlgebra(t, "M5", 5, join2())

	set, err := Sg(a, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if set.Size() != 2 || !set.Complete() {
		t.Errorf("expected the closed set {1,3}, got %v", set.Elements())
	}
}

func TestSgSuccessor(t *testing.T) {
	succ := algebra.NewOp("s", 1, func(args []int) int { return (args[0] + 1) % 7 })
	a := mkAlgebra(t, "Z7", 7, succ)

	set, err := Sg(a, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if got := sorted(set.Elements()); len(got) != 7 {
		t.Errorf("a cycle generator must reach everything, got %v", got)
	}
}

func TestSgOutOfUniverse(t *testing.T) {
	a := mkAlgebra(t, "M5", 5, join2())

	if _, err := Sg(a, []int{0, 5}); !errors.Is(err, ErrOutOfUniverse) {
		t.Errorf("expected ErrOutOfUniverse, got %v", err)
	}
	if _, err := Sg(a, []int{-1}); !errors.Is(err, ErrOutOfUniverse) {
		t.Errorf("expected ErrOutOfUniverse, got %v", err)
	}
}

// The returned set is live: adding a generator reopens it and Close
// resumes from the retained state.
func TestSgExtension(t *testing.T) {
	succ := algebra.NewOp("s", 1, func(args []int) int {
		if args[0] < 5 {
			return args[0] + 1
		}
		return args[0]
	})
	a := mkAlgebra(t, "chain", 10, succ)

	set, err := Sg(a, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if got := sorted(set.Elements()); len(got) != 3 || got[0] != 3 {
		t.Fatalf("Sg(3) should be {3,4,5}, got %v", got)
	}

	set.Add(0)
	if set.Complete() {
		t.Error("adding a generator must reopen the set")
	}
	if err := set.Close(); err != nil {
		t.Fatal(err)
	}
	if got := sorted(set.Elements()); len(got) != 6 {
		t.Errorf("Sg(3,0) should be {0,1,2,3,4,5}, got %v", got)
	}
}

func TestSgBounded(t *testing.T) {
	succ := algebra.NewOp("s", 1, func(args []int) int { return (args[0] + 1) % 100 })
	a := mkAlgebra(t, "Z100", 100, succ)

	set, err := Sg(a, []int{0}, WithMaxSize(10))
	if !errors.Is(err, closure.ErrClosureTooLarge) {
		t.Fatalf("expected ErrClosureTooLarge, got %v", err)
	}
	if set.Size() != 10 || set.Complete() {
		t.Errorf("partial subuniverse should hold exactly 10 elements, got %d", set.Size())
	}
}

// Witness terms over the generators evaluate back to their elements.
func TestSgWitnesses(t *testing.T) {
	add := algebra.NewOp("+", 2, func(args []int) int { return (args[0] + args[1]) % 5 })
	a := mkAlgebra(t, "Z5", 5, add)

	set, err := Sg(a, []int{2}, WithWitnesses())
	if err != nil {
		t.Fatal(err)
	}
	if set.Size() != 5 {
		t.Fatalf("2 generates Z5 under addition, got %v", set.Elements())
	}

	env := set.Generators()
	for j, el := range set.Elements() {
		w := set.Witness(j)
		if w == nil {
			t.Fatalf("missing witness for element %d", el)
		}
		got, err := a.EvalTerm(w, env)
		if err != nil {
			t.Fatal(err)
		}
		if got != el {
			t.Errorf("witness %v evaluates to %d, want %d", w, got, el)
		}
	}
}

// The free semilattice on two generators has three elements: the two
// generators and their join.
func TestFreeSemilattice(t *testing.T) {
	a := mkAlgebra(t, "2∨", 2, join2())

	f, err := Free(a, 2)
	if err != nil {
		t.Fatal(err)
	}
	if f.Size() != 3 || !f.Complete() {
		t.Fatalf("free semilattice on 2 generators has 3 elements, got %d", f.Size())
	}

	set := f.Set()
	wantCols := [][]int{{0, 0, 1, 1}, {0, 1, 0, 1}, {0, 1, 1, 1}}
	for _, want := range wantCols {
		if !set.Contains(want) {
			t.Errorf("missing element %v in %v", want, set.Elements())
		}
	}
}

func TestFreeSemilatticeThreeGenerators(t *testing.T) {
	a := mkAlgebra(t, "2∨", 2, join2())

	f, err := Free(a, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Free semilattices are the non-empty subsets of the generators.
	if f.Size() != 7 {
		t.Errorf("free semilattice on 3 generators has 7 elements, got %d", f.Size())
	}
	if f.Generators() != 3 || f.Base() != a {
		t.Error("free algebra lost its parameters")
	}
}

func TestFreeBounded(t *testing.T) {
	// The free algebra of the two-element lattice grows like the free
	// distributive lattice; bound it and expect an inconclusive run.
	meet := algebra.NewOp("∧", 2, func(args []int) int {
		if args[0] < args[1] {
			return args[0]
		}
		return args[1]
	})
	a := mkAlgebra(t, "2lat", 2, join2(), meet)

	f, err := Free(a, 4, WithMaxSize(20))
	if !errors.Is(err, closure.ErrClosureTooLarge) {
		t.Fatalf("expected ErrClosureTooLarge, got %v", err)
	}
	if f == nil || f.Size() != 20 || f.Complete() {
		t.Error("partial free algebra should be retained at the bound")
	}
}

func TestFreeInvalidRank(t *testing.T) {
	a := mkAlgebra(t, "2∨", 2, join2())
	if _, err := Free(a, 0); err == nil {
		t.Error("expected an error for zero generators")
	}
}

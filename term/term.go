// Package term implements the symbolic witness terms recorded by the
// closure engine. A term is either a variable, standing for a generator,
// or the application of an operation symbol to argument terms.
package term

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ualc/ualc/utils"
	i "github.com/ualc/ualc/utils/indenter"

	"github.com/fatih/color"
)

var colorize = struct {
	Var func(...interface{}) string
	Sym func(...interface{}) string
}{
	Var: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Sym: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
}

type Term interface {
	fmt.Stringer

	// Equal checks structural equality with another term.
	Equal(Term) bool
	// Hash computes the uint32 hash of the term.
	Hash() uint32
	// Height is 0 for variables and 1 + the maximal argument height otherwise.
	Height() int

	collectVars(seen map[int]struct{})
}

// Var is a term variable, standing for the i-th generator.
type Var int

// Apply is the application of an operation symbol to argument terms.
type Apply struct {
	Sym  string
	Args []Term
}

func (v Var) String() string {
	return colorize.Var(fmt.Sprintf("x%d", int(v)))
}

func (v Var) Equal(other Term) bool {
	w, ok := other.(Var)
	return ok && v == w
}

func (v Var) Hash() uint32 {
	return utils.HashCombine(1, uint32(int(v)))
}

func (v Var) Height() int {
	return 0
}

func (v Var) collectVars(seen map[int]struct{}) {
	seen[int(v)] = struct{}{}
}

func (a Apply) String() string {
	if len(a.Args) == 0 {
		return colorize.Sym(a.Sym)
	}

	args := make([]string, len(a.Args))
	for j, arg := range a.Args {
		args[j] = arg.String()
	}
	return colorize.Sym(a.Sym) + "(" + strings.Join(args, ", ") + ")"
}

func (a Apply) Equal(other Term) bool {
	b, ok := other.(Apply)
	if !ok || a.Sym != b.Sym || len(a.Args) != len(b.Args) {
		return false
	}
	for j, arg := range a.Args {
		if !arg.Equal(b.Args[j]) {
			return false
		}
	}
	return true
}

func (a Apply) Hash() uint32 {
	hs := make([]uint32, 0, len(a.Args)+1)
	hs = append(hs, hashString(a.Sym))
	for _, arg := range a.Args {
		hs = append(hs, arg.Hash())
	}
	return utils.HashCombine(hs...)
}

func (a Apply) Height() (h int) {
	for _, arg := range a.Args {
		if ah := arg.Height() + 1; ah > h {
			h = ah
		}
	}
	return
}

func (a Apply) collectVars(seen map[int]struct{}) {
	for _, arg := range a.Args {
		arg.collectVars(seen)
	}
}

// Vars returns the sorted set of variable indices occurring in t.
func Vars(t Term) []int {
	seen := make(map[int]struct{})
	t.collectVars(seen)

	vars := make([]int, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	return vars
}

// Sub substitutes args[i] for every occurrence of variable xi in t.
// Variables without a binding are left in place.
func Sub(t Term, args []Term) Term {
	switch t := t.(type) {
	case Var:
		if 0 <= int(t) && int(t) < len(args) && args[int(t)] != nil {
			return args[int(t)]
		}
		return t
	case Apply:
		sub := make([]Term, len(t.Args))
		for j, arg := range t.Args {
			sub[j] = Sub(arg, args)
		}
		return Apply{t.Sym, sub}
	default:
		panic(fmt.Sprintf("term: unknown term variant %T", t))
	}
}

// Prettify renders a wide term with one top-level argument per line;
// arguments themselves are rendered compactly.
func Prettify(t Term) string {
	if a, ok := t.(Apply); ok && len(a.Args) > 1 {
		args := make([]fmt.Stringer, len(a.Args))
		for j, arg := range a.Args {
			args[j] = arg
		}
		return i.Indenter().Start(colorize.Sym(a.Sym) + "(").NestSep(",", args...).End(")")
	}
	return t.String()
}

// TermHasher hashes witness terms for use in hashed collections.
type TermHasher struct{}

func (TermHasher) Hash(t Term) uint32   { return t.Hash() }
func (TermHasher) Equal(a, b Term) bool { return a.Equal(b) }

var _ utils.Hasher[Term] = TermHasher{}

func hashString(s string) (h uint32) {
	// FNV-1a
	h = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return
}

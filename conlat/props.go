package conlat

// Lattice-theoretic property tests over the discovered universe. A
// universe truncated by the size bound makes these undecidable, so the
// bound error is propagated and must be read as "inconclusive", never as
// a negative answer.

// IsDistributive reports whether the congruence lattice satisfies
// x ∧ (y ∨ z) = (x ∧ y) ∨ (x ∧ z) for all congruences x, y, z.
func (l *Lattice) IsDistributive() (bool, error) {
	u, err := l.Universe()
	if err != nil {
		return false, err
	}

	for _, x := range u {
		for _, y := range u {
			for _, z := range u {
				lhs := x.MustMeet(y.MustJoin(z))
				rhs := x.MustMeet(y).MustJoin(x.MustMeet(z))
				if !lhs.Equal(rhs) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// IsModular reports whether the congruence lattice satisfies the modular
// law: x ≤ z implies x ∨ (y ∧ z) = (x ∨ y) ∧ z.
func (l *Lattice) IsModular() (bool, error) {
	u, err := l.Universe()
	if err != nil {
		return false, err
	}

	for _, x := range u {
		for _, z := range u {
			if !x.MustLeq(z) {
				continue
			}
			for _, y := range u {
				lhs := x.MustJoin(y.MustMeet(z))
				rhs := x.MustJoin(y).MustMeet(z)
				if !lhs.Equal(rhs) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

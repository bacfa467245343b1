package chem

// kekulize picks the aromatic atoms that need a double bond and pairs them
// along aromatic bonds. It returns, per atom, whether it received one.
func (m *Molecule) kekulize() ([]bool, error) {
	n := len(m.Atoms)
	candidate := make([]bool, n)
	found := false
	for i, a := range m.Atoms {
		if a.Aromatic && m.needsDoubleBond(i) {
			candidate[i] = true
			found = true
		}
	}
	double := make([]bool, n)
	if !found {
		return double, nil
	}

	k := &kekulizer{
		mol:     m,
		partner: make([]int, n),
		nbrs:    make([][]int, n),
	}
	for i := range k.partner {
		k.partner[i] = -1
	}
	for i := range m.Atoms {
		if !candidate[i] {
			continue
		}
		for _, bi := range m.adj[i] {
			if !m.Bonds[bi].Aromatic {
				continue
			}
			if o := m.other(bi, i); candidate[o] {
				k.nbrs[i] = append(k.nbrs[i], o)
			}
		}
	}

	// Independent aromatic systems are matched one at a time so a failure in
	// one never backtracks into another.
	for _, group := range k.components(candidate) {
		if len(group)%2 != 0 {
			return nil, invalidf("can't kekulize aromatic system at atom %d", group[0])
		}
		k.atoms = group
		ok, err := k.solve()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalidf("can't kekulize aromatic system at atom %d", group[0])
		}
		for _, i := range group {
			double[i] = true
		}
	}
	return double, nil
}

// components groups the candidate atoms connected by aromatic bonds, in
// order of their lowest atom index.
func (k *kekulizer) components(candidate []bool) [][]int {
	seen := make([]bool, len(candidate))
	var groups [][]int
	for i := range candidate {
		if !candidate[i] || seen[i] {
			continue
		}
		seen[i] = true
		group := []int{i}
		for j := 0; j < len(group); j++ {
			for _, o := range k.nbrs[group[j]] {
				if !seen[o] {
					seen[o] = true
					group = append(group, o)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// needsDoubleBond reports whether an aromatic atom has room for one more bond.
func (m *Molecule) needsDoubleBond(i int) bool {
	a := m.Atoms[i]
	used := m.bondSum(i)
	if a.Bracket {
		used += a.HCount
		vs, ok := allowedValences(a.Symbol, a.Charge)
		if !ok {
			return false
		}
		for _, v := range vs {
			if v == used+1 {
				return true
			}
		}
		return false
	}
	vs, ok := allowedValences(a.Symbol, 0)
	if !ok {
		return false
	}
	v, ok := targetValence(vs, used)
	return ok && v-used >= 1
}

// kekulizer searches for a perfect matching of the candidate atoms.
type kekulizer struct {
	mol     *Molecule
	atoms   []int
	nbrs    [][]int
	partner []int
	steps   int
}

func (k *kekulizer) solve() (bool, error) {
	best, bestDeg := -1, 0
	for _, a := range k.atoms {
		if k.partner[a] >= 0 {
			continue
		}
		deg := 0
		for _, b := range k.nbrs[a] {
			if k.partner[b] < 0 {
				deg++
			}
		}
		if deg == 0 {
			return false, nil
		}
		if best < 0 || deg < bestDeg {
			best, bestDeg = a, deg
		}
	}
	if best < 0 {
		return true, nil
	}
	for _, b := range k.nbrs[best] {
		if k.partner[b] >= 0 {
			continue
		}
		k.steps++
		if k.steps > kekulizeBudget {
			return false, ErrKekulizeBudget
		}
		k.partner[best], k.partner[b] = b, best
		ok, err := k.solve()
		if err != nil || ok {
			return ok, err
		}
		k.partner[best], k.partner[b] = -1, -1
	}
	return false, nil
}

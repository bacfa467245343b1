package chem

import (
	"errors"
	"fmt"
)

// ErrKekulizeBudget is returned when assigning double bonds to an aromatic
// system takes more search steps than allowed. It is not a rejection of the
// input: the structure may be valid.
var ErrKekulizeBudget = errors.New("kekulization search budget exceeded")

const kekulizeBudget = 200000

// perceive validates aromaticity and valences and assigns implicit hydrogens.
func (m *Molecule) perceive() error {
	if err := m.checkAromaticRings(); err != nil {
		return err
	}
	double, err := m.kekulize()
	if err != nil {
		return err
	}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		used := m.bondSum(i)
		if double[i] {
			used++
		}
		if a.Bracket {
			vs, checked := allowedValences(a.Symbol, a.Charge)
			if checked && used+a.HCount > maxValence(vs) {
				return invalidf("explicit valence %d of atom %d (%s) exceeds %d", used+a.HCount, i, a.Symbol, maxValence(vs))
			}
			continue
		}
		vs, checked := allowedValences(a.Symbol, 0)
		if !checked {
			continue
		}
		v, ok := targetValence(vs, used)
		if !ok {
			return invalidf("explicit valence %d of atom %d (%s) exceeds %d", used, i, a.Symbol, maxValence(vs))
		}
		a.implicitH = v - used
	}
	return nil
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidSMILES}, args...)...)
}

// checkAromaticRings rejects aromatic atoms that are not part of a ring.
func (m *Molecule) checkAromaticRings() error {
	ring := m.ringBonds()
	for i, a := range m.Atoms {
		if !a.Aromatic {
			continue
		}
		inRing := false
		for _, bi := range m.adj[i] {
			if ring[bi] {
				inRing = true
				break
			}
		}
		if !inRing {
			return invalidf("non-ring atom %d marked aromatic", i)
		}
	}
	return nil
}

// ringBonds marks every bond that lies on a cycle (i.e. is not a bridge).
func (m *Molecule) ringBonds() []bool {
	n := len(m.Atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	bridge := make([]bool, len(m.Bonds))
	timer := 0

	type frame struct {
		atom, parentBond, next int
	}
	for root := 0; root < n; root++ {
		if disc[root] >= 0 {
			continue
		}
		disc[root], low[root] = timer, timer
		timer++
		stack := []frame{{atom: root, parentBond: -1}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(m.adj[f.atom]) {
				bi := m.adj[f.atom][f.next]
				f.next++
				if bi == f.parentBond {
					continue
				}
				to := m.other(bi, f.atom)
				if disc[to] < 0 {
					disc[to], low[to] = timer, timer
					timer++
					stack = append(stack, frame{atom: to, parentBond: bi})
				} else if disc[to] < low[f.atom] {
					low[f.atom] = disc[to]
				}
				continue
			}
			done := *f
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1].atom
			if low[done.atom] < low[parent] {
				low[parent] = low[done.atom]
			}
			if low[done.atom] > disc[parent] {
				bridge[done.parentBond] = true
			}
		}
	}

	ring := make([]bool, len(m.Bonds))
	for i := range ring {
		ring[i] = !bridge[i]
	}
	return ring
}

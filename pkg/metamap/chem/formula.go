package chem

import (
	"sort"
	"strconv"
	"strings"
)

// Composition counts atoms per element symbol, hydrogens included.
func (m *Molecule) Composition() map[string]int {
	counts := make(map[string]int)
	for _, a := range m.Atoms {
		counts[a.Symbol]++
		if h := a.Hydrogens(); h > 0 {
			counts["H"] += h
		}
	}
	return counts
}

// Formula returns the molecular formula in Hill order: carbon first, then
// hydrogen, then the remaining elements alphabetically. Without carbon every
// element, hydrogen included, is alphabetical. A net charge is appended as
// "+", "-", "+2", "-3", ...
func (m *Molecule) Formula() string {
	counts := m.Composition()

	var b strings.Builder
	write := func(sym string) {
		b.WriteString(sym)
		if n := counts[sym]; n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
		delete(counts, sym)
	}

	if counts["C"] > 0 {
		write("C")
		if counts["H"] > 0 {
			write("H")
		}
	}
	rest := make([]string, 0, len(counts))
	for sym := range counts {
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	for _, sym := range rest {
		write(sym)
	}

	switch q := m.Charge(); {
	case q == 1:
		b.WriteString("+")
	case q == -1:
		b.WriteString("-")
	case q > 1:
		b.WriteString("+" + strconv.Itoa(q))
	case q < -1:
		b.WriteString(strconv.Itoa(q))
	}
	return b.String()
}

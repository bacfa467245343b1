// Package chem turns SMILES strings into molecular formulas.
//
// The parser covers the OpenSMILES grammar used by compound databases:
// organic-subset and bracket atoms, branches, ring closures (including %nn),
// disconnected components, charges, isotopes and stereo marks (ignored).
// Aromatic systems are kekulized to assign implicit hydrogens, and valences
// are checked the way common toolkits do, so chemically impossible input is
// rejected rather than given a formula.
package chem

// Atom is a single parsed atom.
type Atom struct {
	// Symbol is the element symbol, "*" for a wildcard atom.
	Symbol   string
	Aromatic bool
	// Bracket is set for atoms written inside [...]; their hydrogen count is explicit.
	Bracket bool
	HCount  int
	Charge  int
	Isotope int

	implicitH int
}

// Hydrogens returns the total hydrogens attached to the atom.
func (a Atom) Hydrogens() int {
	if a.Bracket {
		return a.HCount
	}
	return a.implicitH
}

// Bond connects two atoms by index.
type Bond struct {
	From, To int
	// Order is 1, 2, 3 or 4; aromatic bonds are stored as 1 with Aromatic set.
	Order    int
	Aromatic bool
}

// Molecule is the atom/bond graph of one SMILES string. Disconnected
// components separated by '.' share a single Molecule.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond

	adj [][]int // atom -> bond indices
}

func (m *Molecule) addAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.Atoms) - 1
}

func (m *Molecule) bonded(a, b int) bool {
	for _, bi := range m.adj[a] {
		bd := m.Bonds[bi]
		if bd.From == b || bd.To == b {
			return true
		}
	}
	return false
}

func (m *Molecule) addBond(b Bond) {
	m.Bonds = append(m.Bonds, b)
	i := len(m.Bonds) - 1
	m.adj[b.From] = append(m.adj[b.From], i)
	m.adj[b.To] = append(m.adj[b.To], i)
}

func (m *Molecule) other(bond, atom int) int {
	b := m.Bonds[bond]
	if b.From == atom {
		return b.To
	}
	return b.From
}

// bondSum returns the explicit valence contributed by bonds, counting
// aromatic bonds as single.
func (m *Molecule) bondSum(atom int) int {
	sum := 0
	for _, bi := range m.adj[atom] {
		sum += m.Bonds[bi].Order
	}
	return sum
}

// Charge returns the net formal charge.
func (m *Molecule) Charge() int {
	q := 0
	for _, a := range m.Atoms {
		q += a.Charge
	}
	return q
}

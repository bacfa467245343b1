package chem

// symbols lists element symbols by atomic number (index 0 is the wildcard atom).
var symbols = [...]string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		m[s] = z
	}
	return m
}()

// valences holds the permitted valences of the main-group elements that are
// checked during parsing. Elements not listed are accepted with any valence.
var valences = map[int][]int{
	1:  {1},       // H
	5:  {3},       // B
	6:  {4},       // C
	7:  {3},       // N
	8:  {2},       // O
	9:  {1},       // F
	14: {4},       // Si
	15: {3, 5, 7}, // P
	16: {2, 4, 6}, // S
	17: {1},       // Cl
	33: {3, 5},    // As
	34: {2, 4, 6}, // Se
	35: {1},       // Br
	52: {2, 4, 6}, // Te
	53: {1, 3, 5}, // I
}

// organicSubset are the elements that may appear outside brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols maps lowercase aromatic symbols to their element.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te", "si": "Si",
}

// allowedValences returns the valences of an atom with the given formal charge.
// A charged atom takes the valences of its isoelectronic neighbour, so N+ behaves
// like C and O- like F. The boolean is false when the atom is not checked.
func allowedValences(symbol string, charge int) ([]int, bool) {
	z, ok := atomicNumbers[symbol]
	if !ok || z == 0 {
		return nil, false
	}
	if charge != 0 {
		if _, checked := valences[z]; !checked {
			return nil, false
		}
		z -= charge
		if z <= 1 {
			return nil, false
		}
	}
	v, ok := valences[z]
	return v, ok
}

// targetValence returns the smallest permitted valence not below used.
func targetValence(vs []int, used int) (int, bool) {
	for _, v := range vs {
		if v >= used {
			return v, true
		}
	}
	return 0, false
}

func maxValence(vs []int) int {
	return vs[len(vs)-1]
}

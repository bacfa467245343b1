package chem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSMILES is returned when a string is not a valid molecule.
var ErrInvalidSMILES = errors.New("invalid SMILES")

// SyntaxError describes where parsing stopped.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("smiles %q at %d: %s", e.Input, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidSMILES
}

type ringBond struct {
	atom int
	bond byte
}

type smilesParser struct {
	in       string
	pos      int
	mol      *Molecule
	prev     int
	bond     byte
	branches []int
	rings    map[int]ringBond
}

// ParseSMILES parses s into a molecule with implicit hydrogens assigned.
// Parsing stops at the first whitespace, so a trailing name is ignored.
func ParseSMILES(s string) (*Molecule, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\r\n"); i >= 0 {
		s = s[:i]
	}
	p := &smilesParser{in: s, mol: &Molecule{}, prev: -1, rings: make(map[int]ringBond)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := p.mol.perceive(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

func (p *smilesParser) fail(format string, args ...interface{}) error {
	return &SyntaxError{Input: p.in, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *smilesParser) parse() error {
	if p.in == "" {
		return p.fail("empty string")
	}
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail("branch without atom")
			}
			if p.bond != 0 {
				return p.fail("bond before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail("unbalanced ')'")
			}
			if p.bond != 0 {
				return p.fail("dangling bond")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.prev < 0 || p.bond != 0 {
				return p.fail("unexpected bond %q", c)
			}
			p.bond = c
			p.pos++
		case c == '.':
			if p.prev < 0 || p.bond != 0 {
				return p.fail("unexpected '.'")
			}
			p.prev = -1
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			a, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.attach(a); err != nil {
				return err
			}
		default:
			a, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.attach(a); err != nil {
				return err
			}
		}
	}
	switch {
	case p.bond != 0:
		return p.fail("dangling bond")
	case len(p.branches) > 0:
		return p.fail("unclosed branch")
	case len(p.rings) > 0:
		return p.fail("unclosed ring")
	case p.prev < 0:
		return p.fail("missing atom")
	}
	return nil
}

func (p *smilesParser) attach(a Atom) error {
	idx := p.mol.addAtom(a)
	if p.prev >= 0 {
		if err := p.connect(p.prev, idx, p.bond); err != nil {
			return err
		}
	}
	p.bond = 0
	p.prev = idx
	return nil
}

func (p *smilesParser) connect(a, b int, symbol byte) error {
	if a == b {
		return p.fail("atom bonded to itself")
	}
	if p.mol.bonded(a, b) {
		return p.fail("duplicate bond")
	}
	bd := Bond{From: a, To: b, Order: 1}
	switch symbol {
	case 0:
		bd.Aromatic = p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic
	case ':':
		bd.Aromatic = true
	case '=':
		bd.Order = 2
	case '#':
		bd.Order = 3
	case '$':
		bd.Order = 4
	}
	p.mol.addBond(bd)
	return nil
}

func (p *smilesParser) ringClosure() error {
	if p.prev < 0 {
		return p.fail("ring closure without atom")
	}
	var n int
	if p.in[p.pos] == '%' {
		if p.pos+2 >= len(p.in) || !isDigit(p.in[p.pos+1]) || !isDigit(p.in[p.pos+2]) {
			return p.fail("bad ring number")
		}
		n = int(p.in[p.pos+1]-'0')*10 + int(p.in[p.pos+2]-'0')
		p.pos += 3
	} else {
		n = int(p.in[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringBond{atom: p.prev, bond: p.bond}
		p.bond = 0
		return nil
	}
	delete(p.rings, n)
	symbol := open.bond
	if p.bond != 0 {
		if symbol != 0 && !sameBond(symbol, p.bond) {
			return p.fail("conflicting ring bond %d", n)
		}
		symbol = p.bond
	}
	p.bond = 0
	return p.connect(open.atom, p.prev, symbol)
}

func sameBond(a, b byte) bool {
	single := func(c byte) bool { return c == '-' || c == '/' || c == '\\' }
	return a == b || (single(a) && single(b))
}

func (p *smilesParser) organicAtom() (Atom, error) {
	c := p.in[p.pos]
	if c == '*' {
		p.pos++
		return Atom{Symbol: "*"}, nil
	}
	if p.pos+1 < len(p.in) {
		two := p.in[p.pos : p.pos+2]
		if two == "Cl" || two == "Br" {
			p.pos += 2
			return Atom{Symbol: two}, nil
		}
	}
	one := string(c)
	if organicSubset[one] {
		p.pos++
		return Atom{Symbol: one}, nil
	}
	if el, ok := aromaticSymbols[one]; ok {
		p.pos++
		return Atom{Symbol: el, Aromatic: true}, nil
	}
	return Atom{}, p.fail("unexpected character %q", c)
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	p.pos++ // '['
	var a Atom
	a.Bracket = true
	a.Isotope = p.number(0)

	if err := p.bracketSymbol(&a); err != nil {
		return a, err
	}
	p.chirality()

	if p.peek() == 'H' {
		p.pos++
		a.HCount = p.number(1)
	}

	switch p.peek() {
	case '+', '-':
		a.Charge = p.charge()
	}

	if p.peek() == ':' {
		p.pos++
		start := p.pos
		p.number(0)
		if p.pos == start {
			return a, p.fail("missing atom class")
		}
	}
	if p.peek() != ']' {
		return a, p.fail("unterminated bracket atom")
	}
	p.pos++
	return a, nil
}

func (p *smilesParser) bracketSymbol(a *Atom) error {
	rest := p.in[p.pos:]
	if rest == "" {
		return p.fail("unterminated bracket atom")
	}
	if rest[0] == '*' {
		p.pos++
		a.Symbol = "*"
		return nil
	}
	if len(rest) >= 2 {
		if el, ok := aromaticSymbols[rest[:2]]; ok {
			p.pos += 2
			a.Symbol, a.Aromatic = el, true
			return nil
		}
	}
	if el, ok := aromaticSymbols[rest[:1]]; ok {
		p.pos++
		a.Symbol, a.Aromatic = el, true
		return nil
	}
	if !isUpper(rest[0]) {
		return p.fail("bad element in bracket")
	}
	if len(rest) >= 2 && isLower(rest[1]) {
		if _, ok := atomicNumbers[rest[:2]]; ok {
			p.pos += 2
			a.Symbol = rest[:2]
			return nil
		}
	}
	if _, ok := atomicNumbers[rest[:1]]; !ok {
		return p.fail("unknown element %q", rest[:1])
	}
	p.pos++
	a.Symbol = rest[:1]
	return nil
}

// chirality skips @, @@ and the @TH1/@AL2/@SP3/@TB12/@OH30 forms.
func (p *smilesParser) chirality() {
	if p.peek() != '@' {
		return
	}
	p.pos++
	if p.peek() == '@' {
		p.pos++
		return
	}
	if p.pos+1 < len(p.in) {
		switch p.in[p.pos : p.pos+2] {
		case "TH", "AL", "SP", "TB", "OH":
			p.pos += 2
			p.number(0)
		}
	}
}

func (p *smilesParser) charge() int {
	sign := 1
	if p.in[p.pos] == '-' {
		sign = -1
	}
	symbol := p.in[p.pos]
	p.pos++
	if isDigit(p.peek()) {
		return sign * p.number(1)
	}
	n := 1
	for p.peek() == symbol {
		n++
		p.pos++
	}
	return sign * n
}

// number reads a decimal number, returning def when none is present.
func (p *smilesParser) number(def int) int {
	start := p.pos
	n := 0
	for p.pos < len(p.in) && isDigit(p.in[p.pos]) {
		n = n*10 + int(p.in[p.pos]-'0')
		p.pos++
	}
	if p.pos == start {
		return def
	}
	return n
}

func (p *smilesParser) peek() byte {
	if p.pos < len(p.in) {
		return p.in[p.pos]
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

package chem

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Sentinel formula values written in place of a formula.
const (
	// InvalidFormula marks input that is not a molecule, including empty cells.
	InvalidFormula = "Invalid"
	// ErrorFormula marks input on which the parser failed unexpectedly.
	ErrorFormula = "Error"
)

// IsSentinel reports whether s is one of the sentinel formula values.
func IsSentinel(s string) bool {
	return s == InvalidFormula || s == ErrorFormula
}

// Status classifies a derivation result.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of deriving one formula.
type Result struct {
	Formula string
	Status  Status
	// Err is the rejection or failure cause; nil for valid results.
	Err error
}

// Value returns the formula, or the sentinel for failed results.
func (r Result) Value() string {
	switch r.Status {
	case StatusInvalid:
		return InvalidFormula
	case StatusError:
		return ErrorFormula
	}
	return r.Formula
}

// Deriver turns a structure string into a formula result.
// Implementations must be safe for concurrent use.
type Deriver interface {
	Derive(smiles string) Result
}

// SMILESDeriver derives formulas with the package's SMILES parser.
type SMILESDeriver struct{}

// Derive never panics: a clean rejection yields StatusInvalid, any other
// failure inside the parser yields StatusError.
func (SMILESDeriver) Derive(smiles string) (res Result) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return Result{Status: StatusInvalid, Err: fmt.Errorf("%w: empty input", ErrInvalidSMILES)}
	}
	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: StatusError, Err: fmt.Errorf("smiles %q: parser panic: %v", s, r)}
		}
	}()
	mol, err := ParseSMILES(s)
	return resultOf(mol, err)
}

func resultOf(mol *Molecule, err error) Result {
	switch {
	case err == nil:
		return Result{Formula: mol.Formula(), Status: StatusValid}
	case errors.Is(err, ErrInvalidSMILES):
		return Result{Status: StatusInvalid, Err: err}
	default:
		return Result{Status: StatusError, Err: err}
	}
}

// CachedDeriver memoizes another Deriver. The cache admits new entries until
// it holds size of them; afterwards misses are derived without being stored.
type CachedDeriver struct {
	next Deriver
	size int

	mu    sync.RWMutex
	cache map[string]Result
}

// NewCachedDeriver wraps next. A size of zero or less disables caching.
func NewCachedDeriver(next Deriver, size int) *CachedDeriver {
	return &CachedDeriver{next: next, size: size, cache: make(map[string]Result)}
}

// Derive returns the cached result for smiles or computes it.
func (c *CachedDeriver) Derive(smiles string) Result {
	if c.size <= 0 {
		return c.next.Derive(smiles)
	}
	key := strings.TrimSpace(smiles)

	c.mu.RLock()
	res, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return res
	}

	res = c.next.Derive(smiles)
	c.mu.Lock()
	if len(c.cache) < c.size {
		c.cache[key] = res
	}
	c.mu.Unlock()
	return res
}

// Len returns the number of cached entries.
func (c *CachedDeriver) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

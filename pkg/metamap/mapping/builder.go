package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/chem"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
)

// ErrReferenceValidation is matched by every ReferenceValidationError.
var ErrReferenceValidation = errors.New("reference validation failed")

// ReferenceValidationError reports a reference sheet that cannot produce a mapping.
type ReferenceValidationError struct {
	Sheet string
	// SheetMissing is set when the workbook has no sheet with that name.
	SheetMissing bool
	// Missing lists the required columns absent from the sheet.
	Missing []string
}

func (e *ReferenceValidationError) Error() string {
	if e.SheetMissing {
		return fmt.Sprintf("reference sheet %q not found", e.Sheet)
	}
	return fmt.Sprintf("reference sheet %q is missing required columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

func (e *ReferenceValidationError) Is(target error) bool {
	return target == ErrReferenceValidation
}

// ReferenceConfig names the curated columns of the reference sheet.
type ReferenceConfig struct {
	FormulaColumn string
	NameColumn    string
}

// Mapping is an immutable formula to name lookup.
type Mapping struct {
	names    map[string]string
	formulas []string
}

// Lookup returns the name mapped to formula by exact match.
func (m *Mapping) Lookup(formula string) (string, bool) {
	name, ok := m.names[formula]
	return name, ok
}

// Len returns the number of formulas in the mapping.
func (m *Mapping) Len() int {
	return len(m.names)
}

// Formulas returns the mapped formulas in reference order.
func (m *Mapping) Formulas() []string {
	return append([]string(nil), m.formulas...)
}

// ValidateReference checks that t carries both reference columns.
func ValidateReference(t *models.Table, cfg ReferenceConfig) error {
	var missing []string
	for _, col := range []string{cfg.FormulaColumn, cfg.NameColumn} {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ReferenceValidationError{Sheet: t.Name, Missing: missing}
	}
	return nil
}

// BuildMapping reads the reference columns row by row. The first name seen
// for a formula is kept; later rows with the same formula count as duplicates.
// Rows with an empty formula, an empty name or a sentinel formula are skipped.
func BuildMapping(ref *models.Table, cfg ReferenceConfig) (*Mapping, models.ReferenceStats, error) {
	if err := ValidateReference(ref, cfg); err != nil {
		return nil, models.ReferenceStats{}, err
	}
	formulas, _ := ref.Column(cfg.FormulaColumn)
	names, _ := ref.Column(cfg.NameColumn)

	m := &Mapping{names: make(map[string]string)}
	stats := models.ReferenceStats{Total: ref.NumRows()}
	for i := range formulas {
		formula := strings.TrimSpace(formulas[i])
		name := strings.TrimSpace(names[i])
		if formula == "" || name == "" || chem.IsSentinel(formula) {
			stats.Skipped++
			continue
		}
		if _, dup := m.names[formula]; dup {
			stats.Duplicates++
			continue
		}
		m.names[formula] = name
		m.formulas = append(m.formulas, formula)
		stats.Mapped++
	}
	return m, stats, nil
}

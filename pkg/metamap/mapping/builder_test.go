package mapping

import (
	"errors"
	"testing"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refConfig = ReferenceConfig{FormulaColumn: "chemical_formula", NameColumn: "Metabolite name"}

func TestBuildMapping(t *testing.T) {
	ref := models.NewTable("Sheet1", []string{"chemical_formula", "Metabolite name"}, [][]string{
		{"C6H12O6", "Glucose"},
		{"C8H10N4O2", "Caffeine"},
		{"C6H12O6", "Fructose"},
		{"", "Nameless"},
		{"H2O", ""},
		{"Invalid", "Broken"},
		{" C2H6O ", " Ethanol "},
	})

	m, stats, err := BuildMapping(ref, refConfig)
	require.NoError(t, err)

	assert.Equal(t, models.ReferenceStats{Total: 7, Mapped: 3, Skipped: 3, Duplicates: 1}, stats)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"C6H12O6", "C8H10N4O2", "C2H6O"}, m.Formulas())

	name, ok := m.Lookup("C6H12O6")
	assert.True(t, ok)
	assert.Equal(t, "Glucose", name)

	name, _ = m.Lookup("C2H6O")
	assert.Equal(t, "Ethanol", name)

	for _, sentinel := range []string{"Invalid", "Error", ""} {
		_, ok := m.Lookup(sentinel)
		assert.False(t, ok, "sentinel %q must not be mapped", sentinel)
	}
}

func TestBuildMapping_MissingColumns(t *testing.T) {
	ref := models.NewTable("Sheet1", []string{"Metabolite name", "smiles"}, [][]string{{"Caffeine", "C"}})

	m, _, err := BuildMapping(ref, refConfig)
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenceValidation))

	var rve *ReferenceValidationError
	require.True(t, errors.As(err, &rve))
	assert.Equal(t, "Sheet1", rve.Sheet)
	assert.Equal(t, []string{"chemical_formula"}, rve.Missing)
	assert.Contains(t, err.Error(), "chemical_formula")
}

func TestReferenceValidationError_SheetMissing(t *testing.T) {
	err := &ReferenceValidationError{Sheet: "Ref", SheetMissing: true}
	assert.Equal(t, `reference sheet "Ref" not found`, err.Error())
	assert.ErrorIs(t, err, ErrReferenceValidation)
}

func TestMapping_FormulasIsACopy(t *testing.T) {
	ref := models.NewTable("Sheet1", []string{"chemical_formula", "Metabolite name"}, [][]string{{"H2O", "Water"}})
	m, _, err := BuildMapping(ref, refConfig)
	require.NoError(t, err)
	f := m.Formulas()
	f[0] = "changed"
	assert.Equal(t, []string{"H2O"}, m.Formulas())
}

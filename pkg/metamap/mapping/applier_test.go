package mapping

import (
	"testing"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applyConfig = ApplyConfig{FormulaColumn: "Formula", NameColumn: "Metabolite name"}

func sampleMapping(t *testing.T) *Mapping {
	t.Helper()
	ref := models.NewTable("Sheet1", []string{"chemical_formula", "Metabolite name"}, [][]string{
		{"C8H10N4O2", "Caffeine"},
		{"H2O", "Water"},
	})
	m, _, err := BuildMapping(ref, refConfig)
	require.NoError(t, err)
	return m
}

func TestApplyMapping(t *testing.T) {
	tbl := models.NewTable("target", []string{"smiles", "Formula"}, [][]string{
		{"Cn1cnc2c1c(=O)n(c(=O)n2C)C", "C8H10N4O2"},
		{"bad", "Invalid"},
		{"CC(C)C", "C4H10"},
		{"O", "H2O"},
		{"CCCC", "C4H10"},
		{"", ""},
	})

	stats, err := ApplyMapping(tbl, sampleMapping(t), applyConfig)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 4, stats.Unmatched)
	assert.Equal(t, []models.UnmatchedFormula{
		{Formula: "Invalid", Count: 1},
		{Formula: "C4H10", Count: 2},
	}, stats.UnmatchedFormulas)
	assert.InDelta(t, 33.33, stats.MatchRate(), 0.01)

	names, ok := tbl.Column("Metabolite name")
	require.True(t, ok)
	assert.Equal(t, []string{"Caffeine", "", "", "Water", "", ""}, names)
}

func TestApplyMapping_Marker(t *testing.T) {
	tbl := models.NewTable("target", []string{"Formula"}, [][]string{{"C4H10"}, {"H2O"}})
	cfg := applyConfig
	cfg.UnmatchedMarker = "n/a"
	_, err := ApplyMapping(tbl, sampleMapping(t), cfg)
	require.NoError(t, err)
	names, _ := tbl.Column("Metabolite name")
	assert.Equal(t, []string{"n/a", "Water"}, names)
}

func TestApplyMapping_NoFormulaColumn(t *testing.T) {
	tbl := models.NewTable("notes", []string{"comment"}, [][]string{{"x"}})
	stats, err := ApplyMapping(tbl, sampleMapping(t), applyConfig)
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	assert.False(t, tbl.HasColumn("Metabolite name"))
}

func TestApplyMapping_UnmatchedBound(t *testing.T) {
	tbl := models.NewTable("target", []string{"Formula"}, [][]string{{"A"}, {"B"}, {"A"}, {"H2O"}})
	stats, err := ApplyMapping(tbl, sampleMapping(t), applyConfig)
	require.NoError(t, err)
	assert.Len(t, stats.UnmatchedFormulas, 2)
	assert.Equal(t, stats.Total, stats.Matched+stats.Unmatched)
}

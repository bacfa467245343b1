package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *models.Report {
	return &models.Report{
		RunID:          "run-1",
		Input:          "in.xlsx",
		Output:         "out.xlsx",
		ReferenceSheet: "Sheet1",
		Reference:      models.ReferenceStats{Total: 3, Mapped: 2, Skipped: 1},
		Sheets: []models.SheetReport{
			{Name: "Sheet1", Rows: 3, Reference: true, Formula: &models.FormulaStats{Skipped: true}},
			{
				Name:    "Samples",
				Rows:    4,
				Formula: &models.FormulaStats{Column: "smiles", Total: 4, Valid: 3, Invalid: 1},
				Mapping: &models.ApplyStats{Total: 4, Matched: 2, Unmatched: 2, UnmatchedFormulas: []models.UnmatchedFormula{
					{Formula: "Invalid", Count: 1}, {Formula: "C6H6", Count: 1},
				}},
			},
			{Name: "Notes", Rows: 1, Excluded: true},
		},
		Warnings:  []string{`sheet "Samples": mapping rate 50.0% below 80.0%`},
		StartedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, WriteReport(jsonPath, r))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded models.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 2, decoded.Sheets[1].Mapping.Matched)

	yamlPath := filepath.Join(dir, "report.yml")
	require.NoError(t, WriteReport(yamlPath, r))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &generic))
	assert.Equal(t, "Sheet1", generic["reference_sheet"])

	assert.Error(t, WriteReport(filepath.Join(dir, "report.txt"), r))
}

func TestToJSON_Pretty(t *testing.T) {
	compact, err := ToJSON(map[string]int{"a": 1}, false)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(compact))

	pretty, err := ToJSON(map[string]int{"a": 1}, true)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(pretty))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Formulas derived:")
	assert.Contains(t, out, "Samples")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "excluded")
	assert.Contains(t, out, "Unmatched formulas (2 distinct):")
	assert.Contains(t, out, "  Invalid (1)")
	assert.Contains(t, out, "Warnings:")
	assert.Less(t, strings.Index(out, "Invalid (1)"), strings.Index(out, "C6H6 (1)"))
}

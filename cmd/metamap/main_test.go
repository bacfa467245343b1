package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeBook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"chemical_formula", "Metabolite name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"H2O", "Water"}))
	_, err := f.NewSheet("Samples")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Samples", "A1", &[]interface{}{"smiles"}))
	require.NoError(t, f.SetSheetRow("Samples", "A2", &[]interface{}{"O"}))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestFormulaCommand(t *testing.T) {
	out, err := execute(t, "formula", "CCO", "c1ccccc1", "bad!")
	require.NoError(t, err)
	assert.Contains(t, out, "C2H6O")
	assert.Contains(t, out, "C6H6")
	assert.Contains(t, out, "invalid")
}

func TestRunCommand(t *testing.T) {
	input := writeBook(t)
	dir := filepath.Dir(input)
	reportFile := filepath.Join(dir, "report.json")
	metricsFile := filepath.Join(dir, "metamap.prom")
	t.Cleanup(func() { reportPath, metricsPath = "", "" })

	out, err := execute(t, input, filepath.Join(dir, "out.xlsx"),
		"--no-backup", "--log-format", "json", "--report", reportFile, "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Names matched:")

	assert.FileExists(t, filepath.Join(dir, "out.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "book_backup.xlsx"))
	assert.FileExists(t, metricsFile)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "Sheet1", report["reference_sheet"])
}

func TestRunCommand_MissingReference(t *testing.T) {
	input := writeBook(t)
	_, err := execute(t, input, "--reference", "Nope", "--log-format", "json")
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	input := writeBook(t)
	out, err := execute(t, "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Samples")
	assert.Contains(t, out, "smiles")
}

func TestDiffCommand(t *testing.T) {
	input := writeBook(t)
	out, err := execute(t, "diff", input, input)
	require.NoError(t, err)
	assert.Contains(t, out, "Samples: 1 -> 1 rows")
}

func TestJSONFlagsAreIndependent(t *testing.T) {
	input := writeBook(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	cmd.SetArgs([]string{"inspect", "--json", input})
	require.NoError(t, cmd.Execute())
	assert.True(t, json.Valid(out.Bytes()))

	out.Reset()
	cmd.SetArgs([]string{"diff", input, input})
	require.NoError(t, cmd.Execute())
	assert.False(t, json.Valid(out.Bytes()))
	assert.Contains(t, out.String(), "Samples: 1 -> 1 rows")
}

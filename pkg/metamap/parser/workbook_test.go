package parser

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/mapping"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"chemical_formula", "Metabolite name"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{"C8H10N4O2", "Caffeine"})
	if _, err := f.NewSheet("Samples"); err != nil {
		t.Fatal(err)
	}
	f.SetSheetRow("Samples", "A1", &[]interface{}{"id", "SMILES"})
	f.SetSheetRow("Samples", "A2", &[]interface{}{1, "CCO"})
	f.SetSheetRow("Samples", "A3", &[]interface{}{2, "O"})
	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save fixture: %v", err)
	}
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeFixture(t)

	wb, err := LoadWorkbook(path)
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if wb.BookName != "book.xlsx" {
		t.Errorf("BookName = %q", wb.BookName)
	}
	if got := wb.SheetNames(); !reflect.DeepEqual(got, []string{"Sheet1", "Samples", "Empty"}) {
		t.Errorf("SheetNames = %v", got)
	}
	samples, ok := wb.Sheet("Samples")
	if !ok {
		t.Fatal("Samples sheet missing")
	}
	smiles, _ := samples.Column("SMILES")
	if !reflect.DeepEqual(smiles, []string{"CCO", "O"}) {
		t.Errorf("SMILES column = %q", smiles)
	}
}

func TestLoadWorkbook_Missing(t *testing.T) {
	if _, err := LoadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInspect(t *testing.T) {
	path := writeFixture(t)
	infos, err := Inspect(path, InspectOptions{
		StructureColumns: mapping.DefaultStructureColumns,
		Reference:        mapping.ReferenceConfig{FormulaColumn: "chemical_formula", NameColumn: "Metabolite name"},
	})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 sheets, got %d", len(infos))
	}
	if !infos[0].HasReferenceColumns || infos[0].StructureColumn != "" {
		t.Errorf("Sheet1 info = %+v", infos[0])
	}
	if infos[1].StructureColumn != "SMILES" || infos[1].Rows != 2 || infos[1].Range != "A1:B3" || infos[1].NonEmpty != 6 {
		t.Errorf("Samples info = %+v", infos[1])
	}
	if infos[2].Range != "" || infos[2].Rows != 0 {
		t.Errorf("Empty info = %+v", infos[2])
	}
}

func TestValidateFile(t *testing.T) {
	wb := &models.Workbook{Sheets: []*models.Table{
		models.NewTable("ok", []string{"a"}, [][]string{{"1"}}),
		models.NewTable("blank", nil, nil),
		models.NewTable("header", []string{"a"}, nil),
	}}
	got := ValidateFile(wb)
	expected := []string{`sheet "blank" is empty`, `sheet "header" has no data rows`}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ValidateFile = %q, expected %q", got, expected)
	}
	if got := ValidateFile(&models.Workbook{}); len(got) != 1 {
		t.Errorf("expected one issue for a workbook without sheets, got %q", got)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.xlsx", true},
		{"A.XLSX", true},
		{"a.xlsm", true},
		{"a.xls", false},
		{"a.csv", false},
		{"a", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.expected {
			t.Errorf("IsSupported(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

// Package metamap derives molecular formulas from SMILES columns of a
// workbook and propagates metabolite names from a reference sheet by exact
// formula match.
package metamap

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/logging"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/mapping"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/parser"
)

// Options configures a run. Every component receives its settings from here.
type Options struct {
	// ReferenceSheet is the sheet holding the curated formula and name columns.
	ReferenceSheet string `mapstructure:"reference_sheet" yaml:"reference_sheet"`
	// SmilesColumns are the accepted structure column names, in priority order,
	// matched case-insensitively.
	SmilesColumns []string `mapstructure:"smiles_columns" yaml:"smiles_columns"`
	// FormulaColumn is the derived formula column written to every sheet.
	FormulaColumn string `mapstructure:"formula_column" yaml:"formula_column"`
	// NameColumn is the name column written to every non-reference sheet.
	NameColumn string `mapstructure:"name_column" yaml:"name_column"`

	ReferenceFormulaColumn string `mapstructure:"reference_formula_column" yaml:"reference_formula_column"`
	ReferenceNameColumn    string `mapstructure:"reference_name_column" yaml:"reference_name_column"`

	// UnmatchedMarker is written to the name column when a formula has no match.
	UnmatchedMarker string `mapstructure:"unmatched_marker" yaml:"unmatched_marker"`
	// ExcludedSheets pass through the run unchanged.
	ExcludedSheets []string `mapstructure:"excluded_sheets" yaml:"excluded_sheets"`

	CreateBackup bool   `mapstructure:"create_backup" yaml:"create_backup"`
	BackupSuffix string `mapstructure:"backup_suffix" yaml:"backup_suffix"`
	// Output is the output path. When empty it is derived from the input
	// path and OutputSuffix.
	Output       string `mapstructure:"output" yaml:"output"`
	OutputSuffix string `mapstructure:"output_suffix" yaml:"output_suffix"`

	// Workers bounds parallel formula derivation within a sheet.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// CacheSize bounds the per-run formula cache; 0 disables it.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`

	// Sheets below these rates (percent) produce a warning.
	MinFormulaSuccessRate float64 `mapstructure:"min_formula_success_rate" yaml:"min_formula_success_rate"`
	MinMappingRate        float64 `mapstructure:"min_mapping_rate" yaml:"min_mapping_rate"`

	Log logging.Config `mapstructure:"log" yaml:"log"`
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return Options{
		ReferenceSheet:         "Sheet1",
		SmilesColumns:          append([]string(nil), mapping.DefaultStructureColumns...),
		FormulaColumn:          "Formula",
		NameColumn:             "Metabolite name",
		ReferenceFormulaColumn: "chemical_formula",
		ReferenceNameColumn:    "Metabolite name",
		CreateBackup:           true,
		BackupSuffix:           "_backup",
		OutputSuffix:           "_with_formulas",
		Workers:                1,
		CacheSize:              10000,
		MinFormulaSuccessRate:  90,
		MinMappingRate:         80,
		Log:                    logging.Config{Level: "info", Format: logging.FormatAuto},
	}
}

// Validate reports every inconsistent setting at once.
func (o Options) Validate() error {
	var errs []error
	required := []struct{ key, value string }{
		{"reference_sheet", o.ReferenceSheet},
		{"formula_column", o.FormulaColumn},
		{"name_column", o.NameColumn},
		{"reference_formula_column", o.ReferenceFormulaColumn},
		{"reference_name_column", o.ReferenceNameColumn},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.key))
		}
	}
	if len(o.SmilesColumns) == 0 {
		errs = append(errs, errors.New("smiles_columns must list at least one column name"))
	}
	for _, c := range o.SmilesColumns {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, errors.New("smiles_columns must not contain empty names"))
			break
		}
	}
	if o.FormulaColumn != "" {
		switch o.FormulaColumn {
		case o.ReferenceFormulaColumn, o.ReferenceNameColumn:
			errs = append(errs, fmt.Errorf("formula_column %q would overwrite a reference column", o.FormulaColumn))
		case o.NameColumn:
			errs = append(errs, fmt.Errorf("formula_column and name_column are both %q", o.FormulaColumn))
		}
	}
	if o.IsExcluded(o.ReferenceSheet) {
		errs = append(errs, fmt.Errorf("reference sheet %q cannot be excluded", o.ReferenceSheet))
	}
	if o.CreateBackup && o.BackupSuffix == "" {
		errs = append(errs, errors.New("backup_suffix must not be empty when create_backup is set"))
	}
	if o.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", o.Workers))
	}
	if o.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", o.CacheSize))
	}
	for _, r := range []struct {
		key  string
		rate float64
	}{
		{"min_formula_success_rate", o.MinFormulaSuccessRate},
		{"min_mapping_rate", o.MinMappingRate},
	} {
		if r.rate < 0 || r.rate > 100 {
			errs = append(errs, fmt.Errorf("%s must be within 0..100, got %g", r.key, r.rate))
		}
	}
	return errors.Join(errs...)
}

// IsExcluded reports whether the sheet is listed in ExcludedSheets.
func (o Options) IsExcluded(sheet string) bool {
	for _, s := range o.ExcludedSheets {
		if s == sheet {
			return true
		}
	}
	return false
}

// AnnotateConfig returns the Formula Annotator settings.
func (o Options) AnnotateConfig() mapping.AnnotateConfig {
	return mapping.AnnotateConfig{Candidates: o.SmilesColumns, Column: o.FormulaColumn, Workers: o.Workers}
}

// ReferenceConfig returns the Mapping Builder settings.
func (o Options) ReferenceConfig() mapping.ReferenceConfig {
	return mapping.ReferenceConfig{FormulaColumn: o.ReferenceFormulaColumn, NameColumn: o.ReferenceNameColumn}
}

// ApplyConfig returns the Mapping Applier settings.
func (o Options) ApplyConfig() mapping.ApplyConfig {
	return mapping.ApplyConfig{FormulaColumn: o.FormulaColumn, NameColumn: o.NameColumn, UnmatchedMarker: o.UnmatchedMarker}
}

// InspectOptions returns the settings used by Inspect.
func (o Options) InspectOptions() parser.InspectOptions {
	return parser.InspectOptions{StructureColumns: o.SmilesColumns, Reference: o.ReferenceConfig()}
}

// OutputPathFor returns Output, or <dir>/<stem><OutputSuffix>.xlsx next to input.
func (o Options) OutputPathFor(input string) string {
	if o.Output != "" {
		return o.Output
	}
	return filepath.Join(filepath.Dir(input), stem(input)+o.OutputSuffix+".xlsx")
}

// BackupPathFor returns <dir>/<stem><BackupSuffix><ext> next to input.
func (o Options) BackupPathFor(input string) string {
	return filepath.Join(filepath.Dir(input), stem(input)+o.BackupSuffix+filepath.Ext(input))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

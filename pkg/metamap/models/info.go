package models

// SheetInfo describes a sheet without processing it.
type SheetInfo struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	// Range is the used data range, e.g. "A1:D10", empty for a blank sheet.
	Range    string `json:"range,omitempty"`
	NonEmpty int    `json:"non_empty"`
	// StructureColumn is the detected SMILES column, empty when none.
	StructureColumn string `json:"structure_column,omitempty"`
	// HasReferenceColumns is set when both reference columns are present.
	HasReferenceColumns bool `json:"has_reference_columns"`
}

// SheetDiff lists the differences of one sheet present in both workbooks.
type SheetDiff struct {
	Name           string   `json:"name"`
	RowsBefore     int      `json:"rows_before"`
	RowsAfter      int      `json:"rows_after"`
	AddedColumns   []string `json:"added_columns,omitempty"`
	RemovedColumns []string `json:"removed_columns,omitempty"`
}

// Comparison is the structural difference between two workbooks.
type Comparison struct {
	CommonSheets []string    `json:"common_sheets"`
	OnlyInFirst  []string    `json:"only_in_first,omitempty"`
	OnlyInSecond []string    `json:"only_in_second,omitempty"`
	Sheets       []SheetDiff `json:"sheets"`
}

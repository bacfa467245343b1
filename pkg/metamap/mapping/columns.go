// Package mapping derives formula columns and joins reference names onto sheets.
package mapping

import "strings"

// DefaultStructureColumns are the header names recognised as SMILES columns.
var DefaultStructureColumns = []string{"smiles", "SMILES", "Smiles"}

// FindColumn returns the first column whose name equals a candidate, ignoring
// case. Candidates are tried in order and, for each, columns in table order,
// so the earliest candidate wins even when a later one matches an earlier column.
func FindColumn(columns, candidates []string) (string, bool) {
	for _, cand := range candidates {
		for _, col := range columns {
			if strings.EqualFold(col, cand) {
				return col, true
			}
		}
	}
	return "", false
}

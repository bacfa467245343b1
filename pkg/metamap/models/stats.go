package models

import "time"

// FormulaStats counts the outcome of formula derivation on one sheet.
type FormulaStats struct {
	// Column is the structure column used, empty when the sheet was skipped.
	Column  string `json:"column,omitempty" yaml:"column,omitempty"`
	Total   int    `json:"total" yaml:"total"`
	Valid   int    `json:"valid" yaml:"valid"`
	Invalid int    `json:"invalid" yaml:"invalid"`
	Error   int    `json:"error" yaml:"error"`
	// Skipped is set when the sheet had no structure column.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SuccessRate returns the share of valid formulas in percent.
func (s FormulaStats) SuccessRate() float64 {
	return percent(s.Valid, s.Total)
}

// ReferenceStats counts how the reference sheet rows entered the mapping.
type ReferenceStats struct {
	Total      int `json:"total" yaml:"total"`
	Mapped     int `json:"mapped" yaml:"mapped"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
}

// UnmatchedFormula is a formula value absent from the mapping, with its occurrences.
type UnmatchedFormula struct {
	Formula string `json:"formula" yaml:"formula"`
	Count   int    `json:"count" yaml:"count"`
}

// ApplyStats counts name lookups on one target sheet.
type ApplyStats struct {
	Total     int `json:"total" yaml:"total"`
	Matched   int `json:"matched" yaml:"matched"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
	// UnmatchedFormulas lists distinct unmatched values in first-seen order.
	UnmatchedFormulas []UnmatchedFormula `json:"unmatched_formulas,omitempty" yaml:"unmatched_formulas,omitempty"`
	// Skipped is set when the sheet had no formula column.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// MatchRate returns the share of matched rows in percent.
func (s ApplyStats) MatchRate() float64 {
	return percent(s.Matched, s.Total)
}

// SheetReport collects the statistics of every stage for one sheet.
type SheetReport struct {
	Name      string        `json:"name" yaml:"name"`
	Rows      int           `json:"rows" yaml:"rows"`
	Reference bool          `json:"reference,omitempty" yaml:"reference,omitempty"`
	Excluded  bool          `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Formula   *FormulaStats `json:"formula,omitempty" yaml:"formula,omitempty"`
	Mapping   *ApplyStats   `json:"mapping,omitempty" yaml:"mapping,omitempty"`
}

// Report is the aggregated result of one run.
type Report struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	Input          string         `json:"input,omitempty" yaml:"input,omitempty"`
	Output         string         `json:"output,omitempty" yaml:"output,omitempty"`
	Backup         string         `json:"backup,omitempty" yaml:"backup,omitempty"`
	ReferenceSheet string         `json:"reference_sheet" yaml:"reference_sheet"`
	Reference      ReferenceStats `json:"reference_stats" yaml:"reference_stats"`
	Sheets         []SheetReport  `json:"sheets" yaml:"sheets"`
	Warnings       []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	StartedAt      time.Time      `json:"started_at" yaml:"started_at"`
	Duration       time.Duration  `json:"duration" yaml:"duration"`
}

// Totals sums the per-sheet counters.
func (r *Report) Totals() (rows, formulas, matched, unmatched int) {
	for _, s := range r.Sheets {
		rows += s.Rows
		if s.Formula != nil {
			formulas += s.Formula.Valid
		}
		if s.Mapping != nil {
			matched += s.Mapping.Matched
			unmatched += s.Mapping.Unmatched
		}
	}
	return rows, formulas, matched, unmatched
}

// UnmatchedFormulas merges the unmatched values of all sheets in first-seen order.
func (r *Report) UnmatchedFormulas() []UnmatchedFormula {
	var out []UnmatchedFormula
	index := make(map[string]int)
	for _, s := range r.Sheets {
		if s.Mapping == nil {
			continue
		}
		for _, u := range s.Mapping.UnmatchedFormulas {
			if i, ok := index[u.Formula]; ok {
				out[i].Count += u.Count
				continue
			}
			index[u.Formula] = len(out)
			out = append(out, u)
		}
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

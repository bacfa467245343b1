package mapping

import (
	"strings"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
)

// ApplyConfig configures the Mapping Applier.
type ApplyConfig struct {
	// FormulaColumn is read from the target sheet.
	FormulaColumn string
	// NameColumn is written to the target sheet.
	NameColumn string
	// UnmatchedMarker is written for rows without a match.
	UnmatchedMarker string
}

// ApplyMapping writes the name column into t in place. Every row receives
// either its mapped name or the unmatched marker. Unmatched non-empty formula
// values, sentinels included, are collected with their counts. A sheet
// without the formula column is left unchanged and reported as skipped.
func ApplyMapping(t *models.Table, m *Mapping, cfg ApplyConfig) (models.ApplyStats, error) {
	formulas, ok := t.Column(cfg.FormulaColumn)
	if !ok {
		return models.ApplyStats{Skipped: true}, nil
	}

	stats := models.ApplyStats{Total: len(formulas)}
	names := make([]string, len(formulas))
	seen := make(map[string]int)
	for i, f := range formulas {
		f = strings.TrimSpace(f)
		if name, ok := m.Lookup(f); ok && f != "" {
			names[i] = name
			stats.Matched++
			continue
		}
		names[i] = cfg.UnmatchedMarker
		stats.Unmatched++
		if f == "" {
			continue
		}
		if j, ok := seen[f]; ok {
			stats.UnmatchedFormulas[j].Count++
			continue
		}
		seen[f] = len(stats.UnmatchedFormulas)
		stats.UnmatchedFormulas = append(stats.UnmatchedFormulas, models.UnmatchedFormula{Formula: f, Count: 1})
	}
	if err := t.SetColumn(cfg.NameColumn, names); err != nil {
		return models.ApplyStats{}, err
	}
	return stats, nil
}

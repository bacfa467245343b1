package mapping

import (
	"context"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/chem"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of rows one worker derives at a time.
const chunkSize = 256

// AnnotateConfig configures the Formula Annotator.
type AnnotateConfig struct {
	// Candidates are the accepted structure column names, in priority order.
	Candidates []string
	// Column is the name of the formula column to write.
	Column string
	// Workers bounds parallel derivation; 1 or less derives sequentially.
	Workers int
}

// Annotator adds a formula column derived from a sheet's structure column.
type Annotator struct {
	deriver chem.Deriver
	cfg     AnnotateConfig
	log     *zap.Logger
}

// NewAnnotator creates an Annotator. A nil logger discards output.
func NewAnnotator(d chem.Deriver, cfg AnnotateConfig, log *zap.Logger) *Annotator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Annotator{deriver: d, cfg: cfg, log: log}
}

// Annotate writes the formula column into t in place. Every row receives a
// value, a sentinel when derivation fails. A sheet without a structure column
// is left unchanged and reported as skipped.
func (a *Annotator) Annotate(ctx context.Context, t *models.Table) (models.FormulaStats, error) {
	col, ok := FindColumn(t.ColumnNames(), a.cfg.Candidates)
	if !ok {
		return models.FormulaStats{Skipped: true}, nil
	}
	smiles, _ := t.Column(col)

	results, err := a.derive(ctx, smiles)
	if err != nil {
		return models.FormulaStats{}, err
	}

	stats := models.FormulaStats{Column: col, Total: len(results)}
	values := make([]string, len(results))
	for i, res := range results {
		values[i] = res.Value()
		switch res.Status {
		case chem.StatusValid:
			stats.Valid++
		case chem.StatusInvalid:
			stats.Invalid++
			a.log.Debug("structure rejected", zap.String("sheet", t.Name), zap.Int("row", i+1), zap.String("smiles", smiles[i]), zap.Error(res.Err))
		case chem.StatusError:
			stats.Error++
			a.log.Warn("structure could not be processed", zap.String("sheet", t.Name), zap.Int("row", i+1), zap.String("smiles", smiles[i]), zap.Error(res.Err))
		}
	}
	if err := t.SetColumn(a.cfg.Column, values); err != nil {
		return models.FormulaStats{}, err
	}
	return stats, nil
}

// derive computes results in row order. With more than one worker the rows
// are split into chunks derived concurrently; result i always belongs to row i.
func (a *Annotator) derive(ctx context.Context, smiles []string) ([]chem.Result, error) {
	results := make([]chem.Result, len(smiles))
	if a.cfg.Workers <= 1 {
		for i, s := range smiles {
			results[i] = a.deriver.Derive(s)
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for start := 0; start < len(smiles); start += chunkSize {
		start, end := start, min(start+chunkSize, len(smiles))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = a.deriver.Derive(smiles[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

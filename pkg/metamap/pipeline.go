package metamap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/chem"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/mapping"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/output"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/parser"
	"go.uber.org/zap"
)

// Processor runs the load, annotate, map, apply and save steps over a workbook.
type Processor struct {
	opts    Options
	deriver chem.Deriver
	log     *zap.Logger
	now     func() time.Time
}

// Option customizes a Processor.
type Option func(*Processor)

// WithDeriver replaces the SMILES formula deriver.
func WithDeriver(d chem.Deriver) Option {
	return func(p *Processor) { p.deriver = d }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// NewProcessor validates opts and creates a Processor.
func NewProcessor(opts Options, options ...Option) (*Processor, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	p := &Processor{
		opts:    opts,
		deriver: chem.SMILESDeriver{},
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// Process annotates every sheet, builds the mapping from the reference sheet
// and applies it to every other sheet, mutating wb in place. Nothing is
// written to disk. A reference sheet that is missing or lacks a required
// column fails the run with a ReferenceValidationError.
func (p *Processor) Process(ctx context.Context, wb *models.Workbook) (*models.Report, error) {
	report := &models.Report{
		RunID:          uuid.NewString(),
		ReferenceSheet: p.opts.ReferenceSheet,
		StartedAt:      p.now(),
	}
	log := p.log.With(zap.String("run_id", report.RunID))
	if err := p.process(ctx, wb, report, log); err != nil {
		return nil, err
	}
	report.Duration = p.now().Sub(report.StartedAt)
	return report, nil
}

func (p *Processor) process(ctx context.Context, wb *models.Workbook, report *models.Report, log *zap.Logger) error {
	deriver := chem.Deriver(chem.NewCachedDeriver(p.deriver, p.opts.CacheSize))
	annotator := mapping.NewAnnotator(deriver, p.opts.AnnotateConfig(), log)

	report.Sheets = make([]models.SheetReport, len(wb.Sheets))
	for i, t := range wb.Sheets {
		sr := &report.Sheets[i]
		sr.Name = t.Name
		sr.Rows = t.NumRows()
		sr.Reference = t.Name == p.opts.ReferenceSheet
		if p.opts.IsExcluded(t.Name) {
			sr.Excluded = true
			log.Info("sheet excluded", zap.String("sheet", t.Name))
			continue
		}

		if err := ctx.Err(); err != nil {
			return NewProcessingError(StageAnnotate, t.Name, err)
		}
		stats, err := annotator.Annotate(ctx, t)
		if err != nil {
			return NewProcessingError(StageAnnotate, t.Name, err)
		}
		sr.Formula = &stats
		if stats.Skipped {
			log.Warn("no structure column found, sheet skipped",
				zap.String("sheet", t.Name), zap.Strings("candidates", p.opts.SmilesColumns))
			continue
		}
		log.Info("formulas derived",
			zap.String("sheet", t.Name),
			zap.String("column", stats.Column),
			zap.Int("valid", stats.Valid),
			zap.Int("invalid", stats.Invalid),
			zap.Int("error", stats.Error))
		if stats.Total > 0 && stats.SuccessRate() < p.opts.MinFormulaSuccessRate {
			p.warn(report, log, fmt.Sprintf("sheet %q: formula success rate %.1f%% below %.1f%%",
				t.Name, stats.SuccessRate(), p.opts.MinFormulaSuccessRate))
		}
	}

	ref, ok := wb.Sheet(p.opts.ReferenceSheet)
	if !ok {
		return NewProcessingError(StageMap, p.opts.ReferenceSheet,
			&ReferenceValidationError{Sheet: p.opts.ReferenceSheet, SheetMissing: true})
	}
	m, refStats, err := mapping.BuildMapping(ref, p.opts.ReferenceConfig())
	if err != nil {
		return NewProcessingError(StageMap, ref.Name, err)
	}
	report.Reference = refStats
	log.Info("mapping built",
		zap.String("sheet", ref.Name),
		zap.Int("mapped", refStats.Mapped),
		zap.Int("skipped", refStats.Skipped),
		zap.Int("duplicates", refStats.Duplicates))

	for i, t := range wb.Sheets {
		sr := &report.Sheets[i]
		if sr.Reference || sr.Excluded {
			continue
		}
		if err := ctx.Err(); err != nil {
			return NewProcessingError(StageApply, t.Name, err)
		}
		stats, err := mapping.ApplyMapping(t, m, p.opts.ApplyConfig())
		if err != nil {
			return NewProcessingError(StageApply, t.Name, err)
		}
		sr.Mapping = &stats
		if stats.Skipped {
			log.Warn("no formula column found, sheet skipped",
				zap.String("sheet", t.Name), zap.String("column", p.opts.FormulaColumn))
			continue
		}
		log.Info("names mapped",
			zap.String("sheet", t.Name),
			zap.Int("matched", stats.Matched),
			zap.Int("unmatched", stats.Unmatched),
			zap.Int("unmatched_formulas", len(stats.UnmatchedFormulas)))
		if stats.Total > 0 && stats.MatchRate() < p.opts.MinMappingRate {
			p.warn(report, log, fmt.Sprintf("sheet %q: mapping rate %.1f%% below %.1f%%",
				t.Name, stats.MatchRate(), p.opts.MinMappingRate))
		}
	}
	return nil
}

func (p *Processor) warn(report *models.Report, log *zap.Logger, msg string) {
	report.Warnings = append(report.Warnings, msg)
	log.Warn(msg)
}

// Run processes the workbook at input and saves the result to output, or to
// the path derived by OutputPathFor when output is empty. The backup copy of
// input is written right before the save, so a run that fails while
// processing leaves no files. A backup that cannot be written is a warning.
func (p *Processor) Run(ctx context.Context, input, outputPath string) (*models.Report, error) {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		return nil, NewProcessingError(StageLoad, "", err)
	}
	if !parser.IsSupported(input) {
		return nil, fmt.Errorf("%w: %s (supported: %v)", ErrInvalidFormat, input, parser.SupportedExtensions)
	}
	if outputPath == "" {
		outputPath = p.opts.OutputPathFor(input)
	}

	log := p.log.With(zap.String("input", input))
	wb, err := parser.LoadWorkbook(input)
	if err != nil {
		return nil, NewProcessingError(StageLoad, "", fmt.Errorf("%w: %w", ErrInvalidFormat, err))
	}
	log.Debug("workbook loaded", zap.Strings("sheets", wb.SheetNames()))

	issues := parser.ValidateFile(wb)
	for _, issue := range issues {
		log.Warn(issue)
	}

	report, err := p.Process(ctx, wb)
	if err != nil {
		return nil, err
	}
	report.Input = input
	report.Output = outputPath
	report.Warnings = append(issues, report.Warnings...)

	if p.opts.CreateBackup {
		backup := p.opts.BackupPathFor(input)
		if err := CreateBackup(input, backup); err != nil {
			p.warn(report, log, fmt.Sprintf("could not create backup %s: %v", backup, err))
		} else {
			report.Backup = backup
			log.Info("backup written", zap.String("path", backup))
		}
	}

	if err := output.SaveWorkbook(wb, outputPath); err != nil {
		return nil, NewProcessingError(StageSave, "", err)
	}
	report.Duration = p.now().Sub(report.StartedAt)

	rows, formulas, matched, unmatched := report.Totals()
	log.Info("run complete",
		zap.String("run_id", report.RunID),
		zap.String("output", outputPath),
		zap.Int("rows", rows),
		zap.Int("formulas", formulas),
		zap.Int("matched", matched),
		zap.Int("unmatched", unmatched),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// Run processes input with opts and the default deriver.
func Run(ctx context.Context, input, outputPath string, opts Options, options ...Option) (*models.Report, error) {
	p, err := NewProcessor(opts, options...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, input, outputPath)
}

// Inspect describes every sheet of the workbook at path without modifying it.
func Inspect(path string, opts Options) ([]models.SheetInfo, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !parser.IsSupported(path) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}
	return parser.Inspect(path, opts.InspectOptions())
}

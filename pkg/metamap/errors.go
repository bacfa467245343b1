package metamap

import (
	"errors"
	"fmt"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/mapping"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a readable workbook.
var ErrInvalidFormat = errors.New("invalid workbook format")

// ErrReferenceValidation is matched by every ReferenceValidationError.
var ErrReferenceValidation = mapping.ErrReferenceValidation

// ReferenceValidationError reports a missing reference sheet or missing reference columns.
type ReferenceValidationError = mapping.ReferenceValidationError

// Stage names the pipeline step a run failed in.
type Stage string

const (
	StageLoad     Stage = "load"
	StageAnnotate Stage = "annotate"
	StageMap      Stage = "map"
	StageApply    Stage = "apply"
	StageSave     Stage = "save"
)

// ProcessingError represents a fatal error during a run.
type ProcessingError struct {
	Stage     Stage
	SheetName string // empty for workbook-level failures
	Err       error
}

func (e *ProcessingError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed in sheet %q: %v", e.Stage, e.SheetName, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError.
func NewProcessingError(stage Stage, sheetName string, err error) *ProcessingError {
	return &ProcessingError{
		Stage:     stage,
		SheetName: sheetName,
		Err:       err,
	}
}

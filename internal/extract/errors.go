package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned before any I/O for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoSink is returned when extraction output has nowhere to go.
	ErrNoSink = errors.New("no output sink configured")
)

// Extraction stages reported by StageError.
const (
	StageOpen     = "open"
	StageRead     = "read"
	StageParse    = "parse"
	StageMetadata = "metadata"
	StageStore    = "store"
)

// StageError reports which extraction stage failed and why.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage, path string, err error) error {
	return &StageError{Stage: stage, Path: path, Err: err}
}

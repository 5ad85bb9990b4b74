// Package pipeline runs a document through extraction, narration and exports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/thywilljoshua/slide2script/internal/ai"
	"github.com/thywilljoshua/slide2script/internal/config"
	"github.com/thywilljoshua/slide2script/internal/export"
	"github.com/thywilljoshua/slide2script/internal/extract"
	"github.com/thywilljoshua/slide2script/internal/script"
	"github.com/thywilljoshua/slide2script/internal/store"
)

// Config describes one run.
type Config struct {
	// RunID names the run's artifacts. Empty derives one from the file name.
	RunID       string
	Store       store.Sink
	Generator   ai.Generator
	ExtractOnly bool
	Pace        time.Duration
	Detector    script.LanguageDetector
	DocxPath    string
	XLSXPath    string
	Logger      *zap.Logger
}

// Result summarizes a run.
type Result struct {
	RunID        string       `json:"run_id"`
	Source       string       `json:"source"`
	Kind         extract.Kind `json:"document_kind"`
	Pages        int          `json:"page_count"`
	Scripts      int          `json:"scripts"`
	Fallbacks    int          `json:"fallbacks"`
	TotalSeconds float64      `json:"total_seconds"`
	Exports      []string     `json:"exports,omitempty"`
}

// OpenStore builds the artifact backend selected by cfg.
func OpenStore(cfg config.StorageConfig) (store.Backend, error) {
	switch cfg.Driver {
	case "", "file":
		return store.NewFileSink(cfg.Dir, cfg.Format)
	case "sqlite":
		return store.NewSQLiteSink(cfg.DatabasePath)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Run extracts path and, unless cfg.ExtractOnly, generates its scripts and
// writes the requested exports.
func Run(ctx context.Context, path string, cfg Config) (Result, error) {
	cfg = withDefaults(cfg)
	if cfg.RunID == "" {
		cfg.RunID = store.NewRunID(path)
	}

	res, err := extract.Document(ctx, path, cfg.Store, cfg.RunID, extract.WithLogger(cfg.Logger))
	if err != nil {
		return Result{}, err
	}
	if cfg.ExtractOnly {
		return summarize(cfg.RunID, res, nil), nil
	}
	return Scripts(ctx, res, cfg)
}

// Scripts generates narration for an extraction that already exists, for
// example one loaded back from a previous run.
func Scripts(ctx context.Context, res *extract.Result, cfg Config) (Result, error) {
	if res == nil {
		return Result{}, errors.New("pipeline: nil extraction")
	}
	cfg = withDefaults(cfg)
	if cfg.RunID == "" {
		cfg.RunID = store.NewRunID(res.Source)
	}

	opts := []script.Option{
		script.WithPace(cfg.Pace),
		script.WithLogger(cfg.Logger),
		script.WithLanguageDetection(cfg.Detector),
	}
	if cfg.Store != nil {
		opts = append(opts, script.WithSink(cfg.Store, cfg.RunID))
	}
	records, err := script.New(cfg.Generator, opts...).Generate(ctx, res)
	if err != nil {
		return Result{}, err
	}

	out := summarize(cfg.RunID, res, records)
	if cfg.DocxPath != "" {
		if err := ensureDir(cfg.DocxPath); err != nil {
			return Result{}, err
		}
		if err := export.WriteDocx(cfg.DocxPath, res.Metadata, records); err != nil {
			return Result{}, err
		}
		out.Exports = append(out.Exports, cfg.DocxPath)
	}
	if cfg.XLSXPath != "" {
		if err := ensureDir(cfg.XLSXPath); err != nil {
			return Result{}, err
		}
		if err := export.WriteXLSX(cfg.XLSXPath, records); err != nil {
			return Result{}, err
		}
		out.Exports = append(out.Exports, cfg.XLSXPath)
	}

	cfg.Logger.Info("run complete",
		zap.String("run_id", out.RunID),
		zap.Int("scripts", out.Scripts),
		zap.Int("fallbacks", out.Fallbacks),
		zap.Float64("total_seconds", out.TotalSeconds))
	return out, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.RunID = store.CleanRunID(cfg.RunID)
	return cfg
}

func summarize(runID string, res *extract.Result, records []script.Record) Result {
	out := Result{
		RunID:        runID,
		Source:       res.Source,
		Kind:         res.Kind,
		Pages:        len(res.Pages),
		Scripts:      len(records),
		TotalSeconds: script.TotalSeconds(records),
	}
	for _, r := range records {
		if !r.GenerationSucceeded {
			out.Fallbacks++
		}
	}
	return out
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

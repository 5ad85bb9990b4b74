// Package extract turns slide decks and PDFs into ordered per-page text
// records plus document metadata.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/thywilljoshua/slide2script/internal/store"
)

// Extractor reads one document kind.
type Extractor interface {
	Kind() Kind
	Extract(ctx context.Context, path string) (*Result, error)
}

// SupportedExtensions lists the extensions For accepts.
func SupportedExtensions() []string {
	return []string{".pptx", ".ppt", ".pdf"}
}

// For selects the extractor for path by extension. It does not touch the file.
func For(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pptx":
		return pptxExtractor{}, nil
	case ".ppt":
		return pptExtractor{}, nil
	case ".pdf":
		return pdfExtractor{}, nil
	}
	if ext == "" {
		return nil, fmt.Errorf("%s: %w: no file extension", path, ErrUnsupportedFormat)
	}
	return nil, fmt.Errorf("%s: %w: %s", path, ErrUnsupportedFormat, ext)
}

// Container signatures.
var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	pdfMagic = []byte("%PDF")
)

func checkSignature(content []byte, magic []byte, want string) error {
	if !bytes.HasPrefix(content, magic) {
		return fmt.Errorf("not a %s container", want)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, stageErr(StageOpen, path, err)
	}
	return content, nil
}

type options struct {
	logger *zap.Logger
}

// Option configures Document.
type Option func(*options)

// WithLogger sets the logger used for progress output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Document extracts path and hands every page plus the aggregate result to
// sink under runID. Any failure, including a failed store, aborts the whole
// document and no result is returned.
func Document(ctx context.Context, path string, sink store.Sink, runID string, opts ...Option) (*Result, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	ex, err := For(path)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, stageErr(StageStore, path, ErrNoSink)
	}
	if runID == "" {
		return nil, stageErr(StageStore, path, fmt.Errorf("empty run id"))
	}

	res, err := ex.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	o.logger.Info("extracted document",
		zap.String("path", path),
		zap.String("kind", string(res.Kind)),
		zap.Int("pages", len(res.Pages)),
		zap.String("title", res.Metadata.Title))

	for _, p := range res.Pages {
		if err := sink.Store(ctx, store.PageKey(runID, store.KindExtracted, p.Index), p); err != nil {
			return nil, stageErr(StageStore, path, err)
		}
	}
	if err := sink.Store(ctx, store.AggregateKey(runID, store.KindExtraction), res); err != nil {
		return nil, stageErr(StageStore, path, err)
	}
	return res, nil
}

// Load reads an extraction aggregate back from a loader.
func Load(ctx context.Context, l store.Loader, runID string) (*Result, error) {
	var res Result
	if err := l.Load(ctx, store.AggregateKey(runID, store.KindExtraction), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Package script turns extracted pages into short, TTS-safe narration.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thywilljoshua/slide2script/internal/ai"
	"github.com/thywilljoshua/slide2script/internal/extract"
	"github.com/thywilljoshua/slide2script/internal/store"
)

// FallbackSeconds is the duration recorded for a page whose generation failed.
const FallbackSeconds = 2.0

// Record is the narration produced for one page.
type Record struct {
	Index               int     `json:"index" yaml:"index"`
	Title               string  `json:"title" yaml:"title"`
	OriginalBody        string  `json:"original_body" yaml:"original_body"`
	Script              string  `json:"script" yaml:"script"`
	EstimatedSeconds    float64 `json:"estimated_seconds" yaml:"estimated_seconds"`
	GenerationSucceeded bool    `json:"generation_succeeded" yaml:"generation_succeeded"`
}

// TotalSeconds sums the estimated duration of records.
func TotalSeconds(records []Record) float64 {
	var total float64
	for _, r := range records {
		total += r.EstimatedSeconds
	}
	return total
}

// Generator writes one narration per page, strictly in page order.
type Generator struct {
	llm      ai.Generator
	sink     store.Sink
	runID    string
	pace     time.Duration
	logger   *zap.Logger
	detector LanguageDetector
}

// Option configures a Generator.
type Option func(*Generator)

// WithSink stores every record, and the final sequence, under runID.
func WithSink(sink store.Sink, runID string) Option {
	return func(g *Generator) {
		g.sink = sink
		g.runID = runID
	}
}

// WithPace sets the delay between successive generation calls.
func WithPace(d time.Duration) Option {
	return func(g *Generator) { g.pace = d }
}

// WithLogger sets the logger for progress and fallback warnings.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithLanguageDetection adds the detected document language to the prompt
// context. A nil detector disables detection.
func WithLanguageDetection(d LanguageDetector) Option {
	return func(g *Generator) { g.detector = d }
}

// New returns a Generator over llm. A nil llm behaves like ai.Noop.
func New(llm ai.Generator, opts ...Option) *Generator {
	g := &Generator{llm: llm, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.llm == nil {
		g.llm = ai.Noop{}
	}
	return g
}

// Generate produces exactly one record per page. Generation failures are
// logged and replaced by a fallback record; only context cancellation and a
// failed store of the final sequence are returned as errors.
func (g *Generator) Generate(ctx context.Context, res *extract.Result) ([]Record, error) {
	if res == nil {
		return nil, errors.New("script: nil extraction result")
	}
	if g.sink != nil && g.runID == "" {
		return nil, errors.New("script: sink configured without run id")
	}

	language := ""
	if g.detector != nil {
		if lang, ok := g.detector.Detect(languageSample(res.Pages)); ok {
			language = lang
		}
	}
	docContext := BuildContext(res, language)
	total := len(res.Pages)

	records := make([]Record, 0, total)
	for i, page := range res.Pages {
		if i > 0 {
			if err := wait(ctx, g.pace); err != nil {
				return nil, err
			}
		}
		rec := g.Page(ctx, docContext, res.Kind, page, total)
		if rec.GenerationSucceeded {
			g.logger.Info("generated script",
				zap.Int("index", rec.Index),
				zap.Int("of", total),
				zap.Float64("seconds", rec.EstimatedSeconds))
		}
		if g.sink != nil {
			if err := g.sink.Store(ctx, store.PageKey(g.runID, store.KindScript, rec.Index), rec); err != nil {
				g.logger.Warn("failed to store script",
					zap.Int("index", rec.Index),
					zap.String("run_id", g.runID),
					zap.Error(err))
			}
		}
		records = append(records, rec)
	}

	if g.sink != nil {
		if err := g.sink.Store(ctx, store.AggregateKey(g.runID, store.KindScripts), records); err != nil {
			return nil, fmt.Errorf("store scripts: %w", err)
		}
	}
	return records, nil
}

// Page generates the record for a single page against a prepared context.
// It never fails: a failed or empty completion yields Fallback(page).
func (g *Generator) Page(ctx context.Context, docContext string, kind extract.Kind, page extract.PageContent, total int) Record {
	prompt := PagePrompt(docContext, kind, page, total)
	g.logger.Debug("generation prompt", zap.Int("index", page.Index), zap.String("prompt", prompt))

	out, err := g.llm.Generate(ctx, prompt)
	if err == nil {
		if text := Sanitize(out); text != "" {
			return Record{
				Index:               page.Index,
				Title:               page.Title,
				OriginalBody:        page.Body,
				Script:              text,
				EstimatedSeconds:    EstimateSeconds(text),
				GenerationSucceeded: true,
			}
		}
		err = ai.ErrEmptyResponse
	}
	g.logger.Warn("script generation failed, using fallback",
		zap.Int("index", page.Index),
		zap.String("run_id", g.runID),
		zap.Error(err))
	return Fallback(page)
}

// Fallback is the degraded record used when generation fails: the page body
// verbatim, or a placeholder for empty pages.
func Fallback(page extract.PageContent) Record {
	text := page.Body
	if text == "" {
		text = fmt.Sprintf("This is slide %d", page.Index)
	}
	return Record{
		Index:            page.Index,
		Title:            page.Title,
		OriginalBody:     page.Body,
		Script:           text,
		EstimatedSeconds: FallbackSeconds,
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

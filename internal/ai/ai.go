package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a model answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generator is a single-shot text completion capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Noop never produces text, so every page takes the fallback script.
type Noop struct{}

func (Noop) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrEmptyResponse
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

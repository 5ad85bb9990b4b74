// Package store persists the per-run hand-off artifacts produced by extraction
// and script generation.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Artifact kinds.
const (
	KindExtracted  = "extracted"
	KindExtraction = "extraction"
	KindScript     = "script"
	KindScripts    = "scripts"
)

// ErrNotFound is returned by Load when no artifact exists under a key.
var ErrNotFound = errors.New("artifact not found")

// Key addresses one artifact within a run. Position is the 1-based page index
// for per-page kinds and 0 for aggregates.
type Key struct {
	RunID    string
	Kind     string
	Position int
}

// PageKey returns the key of a per-page artifact.
func PageKey(runID, kind string, index int) Key {
	return Key{RunID: runID, Kind: kind, Position: index}
}

// AggregateKey returns the key of a run-level aggregate artifact.
func AggregateKey(runID, kind string) Key {
	return Key{RunID: runID, Kind: kind}
}

// Name is the artifact's leaf name, e.g. slide_003 or full_content.
func (k Key) Name() string {
	if k.Position > 0 {
		return fmt.Sprintf("slide_%03d", k.Position)
	}
	switch k.Kind {
	case KindExtraction:
		return "full_content"
	case KindScripts:
		return "all_scripts"
	}
	return k.Kind
}

func (k Key) String() string {
	return k.RunID + "/" + k.Kind + "/" + k.Name()
}

func (k Key) validate() error {
	if k.RunID == "" {
		return errors.New("store: key has no run id")
	}
	if k.Kind == "" {
		return errors.New("store: key has no kind")
	}
	return nil
}

// Sink stores flat, serializable artifacts.
type Sink interface {
	Store(ctx context.Context, key Key, value any) error
}

// Loader reads back an artifact previously written by a Sink.
type Loader interface {
	Load(ctx context.Context, key Key, into any) error
}

// Backend is a sink that can read its artifacts back and must be closed.
type Backend interface {
	Sink
	Loader
	Close() error
}

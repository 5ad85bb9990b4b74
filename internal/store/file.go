package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Serialization formats understood by FileSink.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FileSink writes each artifact to its own file under dir:
//
//	<dir>/<run>/extracted/slide_001.json
//	<dir>/<run>/extracted/full_content.json
//	<dir>/<run>/scripts/slide_001.json
//	<dir>/<run>/scripts/all_scripts.json
type FileSink struct {
	dir    string
	format string
}

// NewFileSink returns a FileSink rooted at dir. An empty format means json.
func NewFileSink(dir, format string) (*FileSink, error) {
	if dir == "" {
		return nil, errors.New("store: file sink needs a directory")
	}
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("store: unknown format %q", format)
	}
	return &FileSink{dir: dir, format: format}, nil
}

// Path returns the file an artifact key maps to.
func (s *FileSink) Path(key Key) string {
	sub := "extracted"
	if key.Kind == KindScript || key.Kind == KindScripts {
		sub = "scripts"
	}
	return filepath.Join(s.dir, key.RunID, sub, key.Name()+"."+s.format)
}

func (s *FileSink) Store(ctx context.Context, key Key, value any) error {
	if err := key.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := s.marshal(value)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *FileSink) Load(ctx context.Context, key Key, into any) error {
	if err := key.validate(); err != nil {
		return err
	}
	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if s.format == FormatYAML {
		return yaml.Unmarshal(b, into)
	}
	return json.Unmarshal(b, into)
}

func (s *FileSink) marshal(value any) ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(value)
	}
	return json.MarshalIndent(value, "", "  ")
}

// Close is a no-op; files are written synchronously.
func (s *FileSink) Close() error { return nil }

package store

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses every run of other characters to a
// single dash.
func slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

// NewRunID derives a run identifier from the source file name plus a short
// random suffix, e.g. "quarterly-review-3f2a9c1d".
func NewRunID(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	slug := slugify(base)
	if slug == "" {
		slug = "run"
	}
	return slug + "-" + uuid.NewString()[:8]
}

// CleanRunID normalizes a caller-supplied run id so it is safe as a directory
// name and database key.
func CleanRunID(id string) string {
	return slugify(id)
}

package extract

import (
	"fmt"
	"strings"
)

const maxTitleRunes = 100

// rawSlide is a slide as read from a deck container, before shaping.
type rawSlide struct {
	shapes []string
	notes  string
}

// slidePages keeps every slide, including empty ones, so slide numbers match
// the deck.
func slidePages(slides []rawSlide) []PageContent {
	pages := make([]PageContent, 0, len(slides))
	for i, s := range slides {
		lines := make([]string, 0, len(s.shapes))
		for _, t := range s.shapes {
			if t = strings.TrimSpace(t); t != "" {
				lines = append(lines, t)
			}
		}
		title := fmt.Sprintf("Slide %d", i+1)
		if len(lines) > 0 {
			title = lines[0]
		}
		pages = append(pages, PageContent{
			Index:    i + 1,
			Title:    title,
			Body:     strings.Join(lines, "\n"),
			Notes:    strings.TrimSpace(s.notes),
			RawLines: lines,
		})
	}
	return pages
}

// textPages drops pages without text; indices stay contiguous over the pages
// that are kept.
func textPages(texts []string) []PageContent {
	var pages []PageContent
	for _, raw := range texts {
		text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		body := text
		if len(lines) > 1 {
			body = strings.Join(lines[1:], "\n")
		}
		pages = append(pages, PageContent{
			Index:    len(pages) + 1,
			Title:    truncateTitle(strings.TrimSpace(lines[0])),
			Body:     body,
			RawLines: lines,
		})
	}
	if pages == nil {
		pages = []PageContent{}
	}
	return pages
}

func truncateTitle(s string) string {
	r := []rune(s)
	if len(r) <= maxTitleRunes {
		return s
	}
	return string(r[:maxTitleRunes]) + "..."
}

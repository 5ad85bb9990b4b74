// Package export renders generated narration into documents for review.
package export

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/thywilljoshua/slide2script/internal/extract"
	"github.com/thywilljoshua/slide2script/internal/script"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteDocx writes a narration booklet: the document title, then for every
// record its heading line, the script and the estimated duration.
func WriteDocx(path string, meta extract.Metadata, records []script.Record) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx: %w", err)
	}

	title := meta.Title
	if title == "" {
		title = extract.DefaultDeckTitle
	}
	addRun(doc.AddParagraph(""), title, 16).Bold(true)
	if meta.Author != "" && meta.Author != extract.DefaultAuthor {
		addRun(doc.AddParagraph(""), meta.Author, fontSize).Italic(true)
	}
	doc.AddParagraph("")

	for _, r := range records {
		addRun(doc.AddParagraph(""), fmt.Sprintf("Slide %d: %s", r.Index, r.Title), 14).Bold(true)
		addRun(doc.AddParagraph(""), r.Script, fontSize)
		note := fmt.Sprintf("About %.1f seconds", r.EstimatedSeconds)
		if !r.GenerationSucceeded {
			note += " (fallback)"
		}
		addRun(doc.AddParagraph(""), note, 11).Italic(true)
	}
	addRun(doc.AddParagraph(""), fmt.Sprintf("Total: %.1f seconds", script.TotalSeconds(records)), fontSize).Bold(true)

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, size uint64) *docx.Run {
	return p.AddText(text).Font(fontName).Size(size).Color("000000")
}

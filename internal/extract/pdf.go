package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"
)

type pdfExtractor struct{}

func (pdfExtractor) Kind() Kind { return KindContinuousText }

func (pdfExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	content, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(content, pdfMagic, "PDF"); err != nil {
		return nil, stageErr(StageParse, filePath, err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, stageErr(StageParse, filePath, fmt.Errorf("open PDF: %w", err))
	}
	texts, err := pageTexts(ctx, r)
	if err != nil {
		return nil, stageErr(StageRead, filePath, err)
	}
	meta := pdfMetadata(content, r)
	pages := textPages(texts)
	return &Result{
		Kind:      KindContinuousText,
		Source:    filepath.Base(filePath),
		PageCount: len(pages),
		Pages:     pages,
		Metadata:  withDefaults(meta, KindContinuousText),
	}, nil
}

func pageTexts(ctx context.Context, r *pdf.Reader) (texts []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed page content: %v", p)
		}
	}()
	n := r.NumPage()
	texts = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

type infoValue interface {
	Text() string
}

// pdfMetadata reads the Info dictionary. rsc.io/pdf is tried first; when it
// cannot open the file the text reader's trailer is used instead.
func pdfMetadata(content []byte, fallback *pdf.Reader) (meta Metadata) {
	defer func() {
		if recover() != nil {
			meta = Metadata{}
		}
	}()
	var field func(key string) string
	if doc, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content))); err == nil {
		info := doc.Trailer().Key("Info")
		field = func(key string) string { return textOf(info.Key(key)) }
	} else {
		info := fallback.Trailer().Key("Info")
		field = func(key string) string { return textOf(info.Key(key)) }
	}
	return Metadata{
		Title:   field("Title"),
		Author:  field("Author"),
		Subject: field("Subject"),
	}
}

func textOf(v infoValue) string {
	return strings.TrimSpace(v.Text())
}

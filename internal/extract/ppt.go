package extract

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// Legacy PowerPoint binary record types.
const (
	recSlideContainer   = 0x03EE
	recSlidePersistAtom = 0x03F3
	recTextCharsAtom    = 0x0FA0
	recTextBytesAtom    = 0x0FA8
	recSlideListWithTxt = 0x0FF0

	slideListSlides = 0
	containerVer    = 0xF

	pptDocumentStream  = "PowerPoint Document"
	summaryInfoStream  = "SummaryInformation"
	pptRecordHeaderLen = 8
)

type pptExtractor struct{}

func (pptExtractor) Kind() Kind { return KindSlideDeck }

func (pptExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	content, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(content, oleMagic, "PPT (OLE compound file)"); err != nil {
		return nil, stageErr(StageParse, filePath, err)
	}
	stream, meta, err := readPPTContainer(content)
	if err != nil {
		return nil, stageErr(StageRead, filePath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slides, err := parsePPTSlides(stream)
	if err != nil {
		return nil, stageErr(StageParse, filePath, err)
	}
	pages := slidePages(slides)
	return &Result{
		Kind:      KindSlideDeck,
		Source:    filepath.Base(filePath),
		PageCount: len(pages),
		Pages:     pages,
		Metadata:  withDefaults(meta, KindSlideDeck),
	}, nil
}

// readPPTContainer pulls the document stream and summary metadata out of the
// compound file.
func readPPTContainer(content []byte) ([]byte, Metadata, error) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("open compound file: %w", err)
	}
	return readPPTEntries(doc)
}

// compoundDir is the part of *mscfb.Reader the entry walk needs. Read
// yields the content of the entry last returned by Next.
type compoundDir interface {
	io.Reader
	Next() (*mscfb.File, error)
}

func readPPTEntries(doc compoundDir) ([]byte, Metadata, error) {
	var (
		stream []byte
		meta   Metadata
	)
	for {
		entry, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("read compound file directory: %w", err)
		}
		switch strings.TrimLeft(entry.Name, "\x05") {
		case pptDocumentStream:
			stream, err = io.ReadAll(doc)
			if err != nil {
				return nil, Metadata{}, fmt.Errorf("read %s: %w", pptDocumentStream, err)
			}
		case summaryInfoStream:
			props := msoleps.New()
			if err := props.Reset(doc); err != nil {
				// Metadata is optional; fall back to defaults.
				continue
			}
			for _, p := range props.Property {
				v := strings.TrimSpace(p.String())
				switch strings.ToLower(p.Name) {
				case "title":
					meta.Title = v
				case "author":
					meta.Author = v
				case "subject":
					meta.Subject = v
				}
			}
		}
	}
	if stream == nil {
		return nil, Metadata{}, fmt.Errorf("stream %q not found", pptDocumentStream)
	}
	return stream, meta, nil
}

type pptRecord struct {
	ver      uint16
	instance uint16
	typ      uint16
	body     []byte
}

func (r pptRecord) container() bool { return r.ver == containerVer }

var errTruncatedRecord = errors.New("truncated record")

// pptRecords splits one level of a record sequence.
func pptRecords(data []byte) ([]pptRecord, error) {
	var out []pptRecord
	for len(data) > 0 {
		if len(data) < pptRecordHeaderLen {
			return nil, errTruncatedRecord
		}
		verInst := binary.LittleEndian.Uint16(data[0:2])
		typ := binary.LittleEndian.Uint16(data[2:4])
		n := binary.LittleEndian.Uint32(data[4:8])
		data = data[pptRecordHeaderLen:]
		if uint64(n) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: type 0x%04X wants %d bytes, %d left", errTruncatedRecord, typ, n, len(data))
		}
		out = append(out, pptRecord{
			ver:      verInst & 0x000F,
			instance: verInst >> 4,
			typ:      typ,
			body:     data[:n],
		})
		data = data[n:]
	}
	return out, nil
}

// parsePPTSlides reads slide text from the slide SlideListWithText container.
// Decks that keep no text there are read slide container by slide container.
func parsePPTSlides(stream []byte) ([]rawSlide, error) {
	var (
		listed    []rawSlide
		sawList   bool
		byDrawing []rawSlide
	)
	var walk func(data []byte) error
	walk = func(data []byte) error {
		recs, err := pptRecords(data)
		if err != nil {
			return err
		}
		for _, r := range recs {
			switch {
			case r.typ == recSlideListWithTxt && r.instance == slideListSlides:
				sawList = true
				slides, err := slideList(r.body)
				if err != nil {
					return err
				}
				listed = append(listed, slides...)
			case r.typ == recSlideContainer:
				texts, err := pptTexts(r.body)
				if err != nil {
					return err
				}
				byDrawing = append(byDrawing, rawSlide{shapes: texts})
			case r.container():
				if err := walk(r.body); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(stream); err != nil {
		return nil, err
	}
	if sawList && hasText(listed) {
		return listed, nil
	}
	if len(byDrawing) > 0 {
		return byDrawing, nil
	}
	return listed, nil
}

func slideList(body []byte) ([]rawSlide, error) {
	recs, err := pptRecords(body)
	if err != nil {
		return nil, err
	}
	var slides []rawSlide
	for _, r := range recs {
		switch r.typ {
		case recSlidePersistAtom:
			slides = append(slides, rawSlide{})
		case recTextCharsAtom, recTextBytesAtom:
			if len(slides) == 0 {
				continue
			}
			last := &slides[len(slides)-1]
			last.shapes = append(last.shapes, decodePPTText(r))
		}
	}
	return slides, nil
}

// pptTexts collects every text atom below a container, in stream order.
func pptTexts(body []byte) ([]string, error) {
	recs, err := pptRecords(body)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range recs {
		switch {
		case r.typ == recTextCharsAtom || r.typ == recTextBytesAtom:
			out = append(out, decodePPTText(r))
		case r.container():
			sub, err := pptTexts(r.body)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}
	return out, nil
}

func decodePPTText(r pptRecord) string {
	var s string
	if r.typ == recTextCharsAtom {
		units := make([]uint16, len(r.body)/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(r.body[2*i:])
		}
		s = string(utf16.Decode(units))
	} else {
		runes := make([]rune, len(r.body))
		for i, b := range r.body {
			runes[i] = rune(b)
		}
		s = string(runes)
	}
	return strings.NewReplacer("\r", "\n", "\v", "\n").Replace(s)
}

func hasText(slides []rawSlide) bool {
	for _, s := range slides {
		for _, t := range s.shapes {
			if strings.TrimSpace(t) != "" {
				return true
			}
		}
	}
	return false
}

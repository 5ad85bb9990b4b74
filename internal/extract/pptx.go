package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	pptxPresentationPath = "ppt/presentation.xml"
	pptxCorePropsPath    = "docProps/core.xml"
	relsNamespace        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relTypeSlide         = relsNamespace + "/slide"
	relTypeNotesSlide    = relsNamespace + "/notesSlide"
)

var pptxSlideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type pptxExtractor struct{}

func (pptxExtractor) Kind() Kind { return KindSlideDeck }

func (pptxExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	content, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(content, zipMagic, "PPTX (zip)"); err != nil {
		return nil, stageErr(StageParse, filePath, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, stageErr(StageParse, filePath, fmt.Errorf("not a zip: %w", err))
	}
	pkg := newZipPackage(zr)

	slidePaths, err := pkg.slideOrder()
	if err != nil {
		return nil, stageErr(StageParse, filePath, err)
	}
	slides := make([]rawSlide, 0, len(slidePaths))
	for _, sp := range slidePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := pkg.readSlide(sp)
		if err != nil {
			return nil, stageErr(StageRead, filePath, err)
		}
		slides = append(slides, s)
	}

	meta, err := pkg.coreProperties()
	if err != nil {
		return nil, stageErr(StageMetadata, filePath, err)
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

type zipPackage struct {
	files map[string]*zip.File
}

func newZipPackage(zr *zip.Reader) *zipPackage {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &zipPackage{files: files}
}

// read returns the part's bytes, or nil when the part does not exist.
func (p *zipPackage) read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

func relsPathFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func resolveTarget(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(part), target))
}

func (p *zipPackage) rels(part string) ([]relationship, error) {
	b, err := p.read(relsPathFor(part))
	if err != nil || b == nil {
		return nil, err
	}
	var r relationships
	if err := xml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", relsPathFor(part), err)
	}
	return r.Rels, nil
}

type presentation struct {
	SlideIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// slideOrder lists slide part names in presentation order.
func (p *zipPackage) slideOrder() ([]string, error) {
	b, err := p.read(pptxPresentationPath)
	if err != nil {
		return nil, err
	}
	if b != nil {
		var pres presentation
		if err := xml.Unmarshal(b, &pres); err != nil {
			return nil, fmt.Errorf("parse %s: %w", pptxPresentationPath, err)
		}
		rels, err := p.rels(pptxPresentationPath)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]relationship, len(rels))
		for _, r := range rels {
			byID[r.ID] = r
		}
		var out []string
		for _, id := range pres.SlideIDs {
			r, ok := byID[id.RID]
			if !ok || r.Type != relTypeSlide {
				continue
			}
			name := resolveTarget(pptxPresentationPath, r.Target)
			if _, ok := p.files[name]; ok {
				out = append(out, name)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	// No usable presentation part: fall back to slideN.xml numbering.
	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for name := range p.files {
		if m := pptxSlideName.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			found = append(found, numbered{n, name})
		}
	}
	if len(found) == 0 && b == nil {
		return nil, fmt.Errorf("no slides and no %s", pptxPresentationPath)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.name
	}
	return out, nil
}

func (p *zipPackage) readSlide(part string) (rawSlide, error) {
	b, err := p.read(part)
	if err != nil {
		return rawSlide{}, err
	}
	shapes, err := parseShapes(b)
	if err != nil {
		return rawSlide{}, fmt.Errorf("parse %s: %w", part, err)
	}
	s := rawSlide{}
	for _, sh := range shapes {
		s.shapes = append(s.shapes, sh.text)
	}

	rels, err := p.rels(part)
	if err != nil {
		return rawSlide{}, err
	}
	for _, r := range rels {
		if r.Type != relTypeNotesSlide || r.TargetMode == "External" {
			continue
		}
		nb, err := p.read(resolveTarget(part, r.Target))
		if err != nil {
			return rawSlide{}, err
		}
		if nb == nil {
			break
		}
		notes, err := parseShapes(nb)
		if err != nil {
			return rawSlide{}, fmt.Errorf("parse notes for %s: %w", part, err)
		}
		for _, sh := range notes {
			if sh.placeholder == "body" {
				s.notes = sh.text
				break
			}
		}
		break
	}
	return s, nil
}

type shape struct {
	text        string
	placeholder string
}

// parseShapes returns the text of each p:sp shape in document order.
// Paragraphs inside a shape are joined with newlines.
func parseShapes(data []byte) ([]shape, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		shapes  []shape
		depth   int
		inText  bool
		cur     shape
		paras   []string
		para    strings.Builder
		hasPara bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				depth++
				if depth == 1 {
					cur, paras, hasPara = shape{}, nil, false
					para.Reset()
				}
			case "ph":
				if depth > 0 {
					cur.placeholder = "obj"
					for _, a := range t.Attr {
						if a.Name.Local == "type" {
							cur.placeholder = a.Value
						}
					}
				}
			case "t":
				inText = depth > 0
			case "br":
				if depth > 0 {
					para.WriteByte('\n')
				}
			case "p":
				if depth > 0 {
					hasPara = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth > 0 && hasPara {
					paras = append(paras, para.String())
					para.Reset()
					hasPara = false
				}
			case "sp":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					cur.text = strings.TrimSpace(strings.Join(paras, "\n"))
					shapes = append(shapes, cur)
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return shapes, nil
}

type coreProperties struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Subject string `xml:"subject"`
}

func (p *zipPackage) coreProperties() (Metadata, error) {
	b, err := p.read(pptxCorePropsPath)
	if err != nil || b == nil {
		return Metadata{}, err
	}
	var cp coreProperties
	if err := xml.Unmarshal(b, &cp); err != nil {
		return Metadata{}, fmt.Errorf("parse %s: %w", pptxCorePropsPath, err)
	}
	return Metadata{
		Title:   strings.TrimSpace(cp.Title),
		Author:  strings.TrimSpace(cp.Creator),
		Subject: strings.TrimSpace(cp.Subject),
	}, nil
}

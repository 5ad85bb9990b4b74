package extract

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"
	"github.com/richardlehane/mscfb"
)

func rec(ver, instance, typ uint16, body []byte) []byte {
	out := make([]byte, 8, 8+len(body))
	binary.LittleEndian.PutUint16(out[0:2], ver|instance<<4)
	binary.LittleEndian.PutUint16(out[2:4], typ)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	return append(out, body...)
}

func container(instance, typ uint16, children ...[]byte) []byte {
	var body []byte
	for _, c := range children {
		body = append(body, c...)
	}
	return rec(containerVer, instance, typ, body)
}

func charsAtom(s string) []byte {
	units := utf16.Encode([]rune(s))
	body := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(body[2*i:], u)
	}
	return rec(0, 0, recTextCharsAtom, body)
}

func bytesAtom(s string) []byte {
	return rec(0, 0, recTextBytesAtom, []byte(s))
}

func persistAtom() []byte {
	return rec(0, 0, recSlidePersistAtom, make([]byte, 20))
}

func textHeader(kind uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, kind)
	return rec(0, 0, 0x0F9F, b)
}

func slideTexts(slides []rawSlide) [][]string {
	out := make([][]string, len(slides))
	for i, s := range slides {
		out[i] = s.shapes
	}
	return out
}

func TestParsePPTSlides_slideList(t *testing.T) {
	stream := container(0, 0x03E8,
		rec(0, 0, 0x03E9, make([]byte, 40)), // DocumentAtom
		container(1, recSlideListWithTxt, persistAtom(), textHeader(0), charsAtom("Master title")),
		container(slideListSlides, recSlideListWithTxt,
			persistAtom(), textHeader(0), charsAtom("Welcome\rAgenda"), textHeader(1), bytesAtom("Caf\xe9 talk"),
			persistAtom(), textHeader(0), bytesAtom("Second"),
			persistAtom(),
		),
	)
	slides, err := parsePPTSlides(stream)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"Welcome\nAgenda", "Café talk"}, {"Second"}, nil}
	if diff := cmp.Diff(want, slideTexts(slides)); diff != "" {
		t.Errorf("slides mismatch (-want +got):\n%s", diff)
	}

	pages := slidePages(slides)
	if len(pages) != 3 || pages[2].Title != "Slide 3" || pages[1].Title != "Second" {
		t.Errorf("pages = %+v", pages)
	}
}

func TestParsePPTSlides_drawingFallback(t *testing.T) {
	stream := container(0, 0x03E8,
		container(slideListSlides, recSlideListWithTxt, persistAtom()),
	)
	stream = append(stream, container(0, recSlideContainer,
		rec(0, 0, 0x03EF, make([]byte, 24)), // SlideAtom
		container(0, 0xF002,
			container(0, 0xF003,
				container(0, 0xF004, container(0, 0xF00D, textHeader(0), charsAtom("From drawing"))),
			),
		),
	)...)
	stream = append(stream, container(0, recSlideContainer)...)

	slides, err := parsePPTSlides(stream)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"From drawing"}, nil}
	if diff := cmp.Diff(want, slideTexts(slides)); diff != "" {
		t.Errorf("slides mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePPTSlides_truncated(t *testing.T) {
	stream := rec(0, 0, recTextCharsAtom, []byte("abcd"))
	binary.LittleEndian.PutUint32(stream[4:8], 100)
	_, err := parsePPTSlides(stream)
	if !errors.Is(err, errTruncatedRecord) {
		t.Errorf("err = %v, want truncated record", err)
	}
	if _, err := parsePPTSlides([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short header")
	}
}

func TestPPT_notCompoundFile(t *testing.T) {
	path := writeTemp(t, "legacy.ppt", []byte("PK\x03\x04 zip pretending to be ppt"))
	_, err := pptExtractor{}.Extract(context.Background(), path)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageParse {
		t.Errorf("err = %v, want parse stage error", err)
	}
}

type fakeEntry struct {
	name string
	data []byte
	err  error
}

// fakeDir walks a fixed list of entries, then reports io.EOF.
type fakeDir struct {
	entries []fakeEntry
	cur     *bytes.Reader
}

func (d *fakeDir) Next() (*mscfb.File, error) {
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	e := d.entries[0]
	d.entries = d.entries[1:]
	if e.err != nil {
		return nil, e.err
	}
	d.cur = bytes.NewReader(e.data)
	return &mscfb.File{Name: e.name}, nil
}

func (d *fakeDir) Read(p []byte) (int, error) { return d.cur.Read(p) }

func TestReadPPTEntries(t *testing.T) {
	deck := container(0, recSlideListWithTxt, charsAtom("Hi"))
	stream, _, err := readPPTEntries(&fakeDir{entries: []fakeEntry{
		{name: "Current User", data: []byte("x")},
		{name: pptDocumentStream, data: deck},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stream, deck) {
		t.Errorf("stream = %x, want %x", stream, deck)
	}
}

func TestReadPPTEntries_directoryError(t *testing.T) {
	broken := errors.New("bad sector chain")
	_, _, err := readPPTEntries(&fakeDir{entries: []fakeEntry{
		{name: pptDocumentStream, data: []byte("partial")},
		{err: broken},
	}})
	if !errors.Is(err, broken) {
		t.Errorf("err = %v, want directory error", err)
	}

	_, _, err = readPPTEntries(&fakeDir{})
	if err == nil {
		t.Error("expected error for a directory without a document stream")
	}
}

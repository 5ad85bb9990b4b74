package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/thywilljoshua/slide2script/internal/store"
)

type memorySink struct {
	keys   []string
	values map[string]any
	failOn string
}

func (m *memorySink) Store(_ context.Context, key store.Key, value any) error {
	if m.failOn != "" && key.String() == m.failOn {
		return errors.New("disk full")
	}
	if m.values == nil {
		m.values = map[string]any{}
	}
	m.keys = append(m.keys, key.String())
	m.values[key.String()] = value
	return nil
}

func TestFor(t *testing.T) {
	tests := []struct {
		path string
		kind Kind
		err  bool
	}{
		{"deck.pptx", KindSlideDeck, false},
		{"DECK.PPTX", KindSlideDeck, false},
		{"old.ppt", KindSlideDeck, false},
		{"paper.pdf", KindContinuousText, false},
		{"notes.docx", "", true},
		{"README", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ex, err := For(tt.path)
			if tt.err {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("For(%q) err = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ex.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", ex.Kind(), tt.kind)
			}
		})
	}
}

func TestDocument_storesArtifacts(t *testing.T) {
	deck := buildPptx(t, []testSlide{
		{shapes: [][]string{{"Title"}}},
		{},
		{shapes: [][]string{{"Summary"}}},
	}, nil, "")
	path := writeTemp(t, "deck.pptx", deck)
	sink := &memorySink{}

	res, err := Document(context.Background(), path, sink, "run-1")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("got %d pages", len(res.Pages))
	}
	want := []string{
		"run-1/extracted/slide_001",
		"run-1/extracted/slide_002",
		"run-1/extracted/slide_003",
		"run-1/extraction/full_content",
	}
	if len(sink.keys) != len(want) {
		t.Fatalf("stored keys = %v", sink.keys)
	}
	for i := range want {
		if sink.keys[i] != want[i] {
			t.Errorf("key %d = %s, want %s", i, sink.keys[i], want[i])
		}
	}
	if p, ok := sink.values["run-1/extracted/slide_002"].(PageContent); !ok || p.Title != "Slide 2" {
		t.Errorf("stored slide 2 = %#v", sink.values["run-1/extracted/slide_002"])
	}
}

func TestDocument_failures(t *testing.T) {
	deck := writeTemp(t, "deck.pptx", buildPptx(t, []testSlide{{shapes: [][]string{{"Only"}}}}, nil, ""))
	ctx := context.Background()

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Document(ctx, "slides.key", &memorySink{}, "r")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("no sink", func(t *testing.T) {
		_, err := Document(ctx, deck, nil, "r")
		if !errors.Is(err, ErrNoSink) {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Document(ctx, "/nonexistent/deck.pptx", &memorySink{}, "r")
		var se *StageError
		if !errors.As(err, &se) || se.Stage != StageOpen {
			t.Errorf("err = %v, want open stage", err)
		}
	})
	t.Run("wrong container", func(t *testing.T) {
		path := writeTemp(t, "fake.pdf", []byte("hello, not a pdf"))
		_, err := Document(ctx, path, &memorySink{}, "r")
		var se *StageError
		if !errors.As(err, &se) || se.Stage != StageParse {
			t.Errorf("err = %v, want parse stage", err)
		}
	})
	t.Run("store failure aborts", func(t *testing.T) {
		sink := &memorySink{failOn: "r/extraction/full_content"}
		res, err := Document(ctx, deck, sink, "r")
		var se *StageError
		if !errors.As(err, &se) || se.Stage != StageStore {
			t.Errorf("err = %v, want store stage", err)
		}
		if res != nil {
			t.Error("expected no partial result")
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	sink, err := store.NewFileSink(dir, store.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	deck := writeTemp(t, "deck.pptx", buildPptx(t, []testSlide{{shapes: [][]string{{"Hello"}, {"World"}}}}, nil, testCore))
	ctx := context.Background()
	want, err := Document(ctx, deck, sink, "load-me")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(ctx, sink, "load-me")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != want.Kind || got.Metadata != want.Metadata || len(got.Pages) != 1 || got.Pages[0].Body != "Hello\nWorld" {
		t.Errorf("loaded %+v", got)
	}
}

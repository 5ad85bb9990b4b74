package extract

// Kind discriminates the two source families.
type Kind string

const (
	KindSlideDeck      Kind = "slide-deck"
	KindContinuousText Kind = "continuous-text"
)

// Placeholder metadata for sources that carry none.
const (
	DefaultDeckTitle     = "Untitled Presentation"
	DefaultDocumentTitle = "Untitled Document"
	DefaultAuthor        = "Unknown"
)

// PageContent is one extracted slide or PDF page.
type PageContent struct {
	Index    int      `json:"index" yaml:"index"`
	Title    string   `json:"title" yaml:"title"`
	Body     string   `json:"body" yaml:"body"`
	Notes    string   `json:"notes" yaml:"notes"`
	RawLines []string `json:"raw_lines" yaml:"raw_lines"`
}

type Metadata struct {
	Title   string `json:"title" yaml:"title"`
	Author  string `json:"author" yaml:"author"`
	Subject string `json:"subject" yaml:"subject"`
}

// Result is the immutable output of one extraction pass.
type Result struct {
	Kind      Kind          `json:"document_kind" yaml:"document_kind"`
	Source    string        `json:"source" yaml:"source"`
	PageCount int           `json:"page_count" yaml:"page_count"`
	Pages     []PageContent `json:"pages" yaml:"pages"`
	Metadata  Metadata      `json:"metadata" yaml:"metadata"`
}

func withDefaults(m Metadata, kind Kind) Metadata {
	if m.Title == "" {
		if kind == KindSlideDeck {
			m.Title = DefaultDeckTitle
		} else {
			m.Title = DefaultDocumentTitle
		}
	}
	if m.Author == "" {
		m.Author = DefaultAuthor
	}
	return m
}

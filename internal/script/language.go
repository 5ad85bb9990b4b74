package script

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/thywilljoshua/slide2script/internal/extract"
)

// LanguageDetector names the language a text is written in.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

var detectLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Vietnamese,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
}

type linguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLanguageDetector returns a detector over the common presentation
// languages. Models load on first use.
func NewLanguageDetector() LanguageDetector {
	return &linguaDetector{}
}

func (d *linguaDetector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}

const languageSampleRunes = 2000

// languageSample concatenates page text up to a fixed budget.
func languageSample(pages []extract.PageContent) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Body)
		b.WriteString("\n")
		if b.Len() >= languageSampleRunes {
			break
		}
	}
	r := []rune(b.String())
	if len(r) > languageSampleRunes {
		r = r[:languageSampleRunes]
	}
	return string(r)
}

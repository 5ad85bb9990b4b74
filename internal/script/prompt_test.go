package script

import (
	"strings"
	"testing"

	"github.com/thywilljoshua/slide2script/internal/extract"
)

func sampleResult() *extract.Result {
	return &extract.Result{
		Kind: extract.KindSlideDeck,
		Pages: []extract.PageContent{
			{Index: 1, Title: "Quarterly Review", Body: "Quarterly Review\nQ3 2026"},
			{Index: 2, Title: "Revenue", Body: "Revenue\n- up 12%\n- new markets", Notes: "Mention APAC"},
			{Index: 3, Title: "Outlook", Body: "Outlook\nSteady growth"},
		},
		Metadata: extract.Metadata{Title: "Q3 Review", Author: "Ada", Subject: ""},
	}
}

func TestBuildContext(t *testing.T) {
	ctx := BuildContext(sampleResult(), "English")
	for _, want := range []string{"Title: Q3 Review", "Author: Ada", "Total slides: 3", "Language: English", "text-to-speech", "conversational"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q:\n%s", want, ctx)
		}
	}
	if strings.Contains(ctx, "Subject:") {
		t.Error("empty subject should be omitted")
	}

	doc := sampleResult()
	doc.Kind = extract.KindContinuousText
	if ctx := BuildContext(doc, ""); !strings.Contains(ctx, "Total pages: 3") || strings.Contains(ctx, "Language:") {
		t.Errorf("unexpected context:\n%s", ctx)
	}
}

func TestPagePrompt(t *testing.T) {
	res := sampleResult()
	ctx := BuildContext(res, "")

	first := PagePrompt(ctx, res.Kind, res.Pages[0], 3)
	if !strings.HasPrefix(first, ctx) {
		t.Error("prompt should embed the document context")
	}
	if !strings.Contains(first, "first slide") || strings.Contains(first, "conclusion") {
		t.Errorf("first slide guidance wrong:\n%s", first)
	}
	for _, want := range []string{"20-25 words", "10-15 seconds", "{pause}", "bullet points", "Number: 1 of 3"} {
		if !strings.Contains(first, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	middle := PagePrompt(ctx, res.Kind, res.Pages[1], 3)
	if !strings.Contains(middle, "Speaker notes: Mention APAC") || !strings.Contains(middle, "- up 12%") {
		t.Errorf("page content missing:\n%s", middle)
	}
	if strings.Contains(middle, "first slide") || strings.Contains(middle, "conclusion") {
		t.Errorf("middle slide got special guidance:\n%s", middle)
	}

	last := PagePrompt(ctx, res.Kind, res.Pages[2], 3)
	if !strings.Contains(last, "conclusion") {
		t.Errorf("last slide missing summary guidance:\n%s", last)
	}
}

func TestContextFor(t *testing.T) {
	res := sampleResult()
	if got, want := ContextFor(res.Metadata, res.Kind, len(res.Pages), "English"), BuildContext(res, "English"); got != want {
		t.Errorf("ContextFor differs from BuildContext:\n%s\n---\n%s", got, want)
	}

	ctx := ContextFor(res.Metadata, res.Kind, 0, "")
	if strings.Contains(ctx, "Total slides") {
		t.Errorf("unknown total should be omitted:\n%s", ctx)
	}
	prompt := PagePrompt(ctx, res.Kind, res.Pages[1], 0)
	if !strings.Contains(prompt, "Number: 2\n") || strings.Contains(prompt, "Number: 2 of") {
		t.Errorf("unknown total leaked into prompt:\n%s", prompt)
	}
}

func TestIsClosing(t *testing.T) {
	tests := []struct {
		title string
		index int
		total int
		want  bool
	}{
		{"Thank you!", 4, 10, true},
		{"Key Takeaways", 5, 10, true},
		{"Q&A", 9, 10, true},
		{"Summary of results", 2, 10, true},
		{"Architecture", 3, 10, false},
		{"Architecture", 10, 10, true},
		{"Only slide", 1, 1, false},
	}
	for _, tt := range tests {
		p := extract.PageContent{Index: tt.index, Title: tt.title}
		if got := IsClosing(p, tt.total); got != tt.want {
			t.Errorf("IsClosing(%q, %d/%d) = %v, want %v", tt.title, tt.index, tt.total, got, tt.want)
		}
	}
}

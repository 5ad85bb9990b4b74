package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thywilljoshua/slide2script/internal/extract"
)

const styleDirective = `You are writing narration for a presentation that will be read aloud by a text-to-speech voice.
The narration must sound natural and conversational, and flow smoothly from one slide to the next.`

var closingTitle = regexp.MustCompile(`(?i)\b(conclusions?|summary|recap|wrap[- ]?up|thank you|thanks|questions|q\s*&\s*a|next steps|takeaways?)\b`)

// BuildContext renders the document-level context shared by every page prompt.
// language may be empty.
func BuildContext(res *extract.Result, language string) string {
	var b strings.Builder
	writeContext(&b, res.Metadata)
	fmt.Fprintf(&b, "Total %ss: %d\n", unitOf(res.Kind), len(res.Pages))
	return finishContext(&b, language)
}

// ContextFor renders the same context for a single page submitted on its own,
// where the page count may be unknown (total <= 0).
func ContextFor(meta extract.Metadata, kind extract.Kind, total int, language string) string {
	var b strings.Builder
	writeContext(&b, meta)
	if total > 0 {
		fmt.Fprintf(&b, "Total %ss: %d\n", unitOf(kind), total)
	}
	return finishContext(&b, language)
}

func writeContext(b *strings.Builder, meta extract.Metadata) {
	b.WriteString("Presentation context:\n")
	fmt.Fprintf(b, "Title: %s\n", meta.Title)
	fmt.Fprintf(b, "Author: %s\n", meta.Author)
	if meta.Subject != "" {
		fmt.Fprintf(b, "Subject: %s\n", meta.Subject)
	}
}

func finishContext(b *strings.Builder, language string) string {
	if language != "" {
		fmt.Fprintf(b, "Language: %s. Write the narration in %s.\n", language, language)
	}
	b.WriteString("\n")
	b.WriteString(styleDirective)
	return b.String()
}

// IsClosing reports whether page reads like the end of the talk.
func IsClosing(page extract.PageContent, total int) bool {
	return (total > 1 && page.Index == total) || closingTitle.MatchString(page.Title)
}

// PagePrompt renders the generation request for one page.
func PagePrompt(context string, kind extract.Kind, page extract.PageContent, total int) string {
	unit := unitOf(kind)
	var b strings.Builder
	b.WriteString(context)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Current %s:\n", unit)
	if total > 0 {
		fmt.Fprintf(&b, "Number: %d of %d\n", page.Index, total)
	} else {
		fmt.Fprintf(&b, "Number: %d\n", page.Index)
	}
	fmt.Fprintf(&b, "Title: %s\n", page.Title)
	fmt.Fprintf(&b, "Content: %s\n", page.Body)
	if page.Notes != "" {
		fmt.Fprintf(&b, "Speaker notes: %s\n", page.Notes)
	}

	rules := []string{
		"Output only the words to be spoken. No stage directions and no formatting markers.",
		"Do not include bracketed or braced cues such as {pause}, {slow down} or [emphasis].",
		"Do not use asterisks, hashes, underscores or dashes for formatting.",
		"Write complete sentences that flow naturally when read aloud, using commas and periods for natural pauses.",
		"Keep it to 20-25 words, about 10-15 seconds when spoken at a normal pace.",
		"Sound like a human presenter talking to an audience, conversational and engaging.",
		"Expand bullet points into connected sentences instead of reading them word for word.",
	}
	if page.Index == 1 {
		rules = append(rules, fmt.Sprintf("This is the first %s: open with a brief, natural introduction to the presentation.", unit))
	}
	if IsClosing(page, total) {
		rules = append(rules, fmt.Sprintf("This %s appears to be the conclusion: give a brief, natural summary of the presentation.", unit))
	}

	b.WriteString("\nRules for the narration:\n")
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	b.WriteString("\nReturn only the clean, speakable narration text.")
	return b.String()
}

func unitOf(kind extract.Kind) string {
	if kind == extract.KindContinuousText {
		return "page"
	}
	return "slide"
}

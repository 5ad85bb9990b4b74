package script

import (
	"regexp"
	"strings"
)

var (
	braceDirective   = regexp.MustCompile(`\{[^{}]*\}`)
	bracketDirective = regexp.MustCompile(`\[[^\[\]]*\]`)
	strayBrackets    = regexp.MustCompile(`[{}\[\]]`)
	pauseAside       = regexp.MustCompile(`(?i)\([^()]*pause[^()]*\)`)
	markupRuns       = regexp.MustCompile(`[*#_]+`)
	stageWords       = regexp.MustCompile(`(?i)dramatic pause|slow down|emphasize|pause`)
)

// Sanitize turns raw model output into text a TTS engine can read verbatim.
// It never fails; the result may be empty. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	// A removal can expose a new match (nested braces, "pa[x]use",
	// "pause_here"), so the cleaning passes run until the text stops changing.
	for {
		next := cleanPass(text)
		if next == text {
			break
		}
		text = next
	}
	if text != "" && !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}
	return text
}

func cleanPass(s string) string {
	s = stripDirectives(s)
	s = pauseAside.ReplaceAllString(s, "")
	s = markupRuns.ReplaceAllString(s, "")
	s = stageWords.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// stripDirectives removes {..} and [..] spans innermost first, then any
// bracket left unbalanced.
func stripDirectives(s string) string {
	for {
		next := bracketDirective.ReplaceAllString(braceDirective.ReplaceAllString(s, ""), "")
		if next == s {
			break
		}
		s = next
	}
	return strayBrackets.ReplaceAllString(s, "")
}

package manuscript

import (
	"regexp"
	"strings"
)

// SummarizeDefault is the cap used for chapter descriptions in the
// table of contents.
const SummarizeDefault = 160

// sentenceFloor is the minimum index at which a ". " boundary is taken
// as the end of a summary. Anything earlier would produce a uselessly
// short description.
const sentenceFloor = 40

var whitespaceRe = regexp.MustCompile(`\s+`)

// Summarize derives a bounded preview from chapter body text. Whitespace
// runs (including newlines) collapse to single spaces. An empty result
// means "no description". Text within the cap is returned verbatim;
// longer text is cut at the first sentence boundary falling inside the
// window, or hard-truncated with an ellipsis when no boundary exists.
//
// The floor collapses to zero when it is not below max, so short caps
// can still end on a sentence boundary.
func Summarize(body string, max int) string {
	if max <= 0 {
		max = SummarizeDefault
	}
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(body, " "))
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	floor := sentenceFloor
	if floor >= max {
		floor = 0
	}
	for i := floor + 1; i < max && i+1 < len(runes); i++ {
		if runes[i] == '.' && runes[i+1] == ' ' {
			return string(runes[:i+1])
		}
	}
	return string(runes[:max-1]) + "…"
}

package manuscript

import (
	"fmt"
	"regexp"
	"strings"
)

// HeadingKind identifies which convention matched a heading line.
type HeadingKind int

const (
	MarkdownHeading HeadingKind = iota
	NumberedChapter
	NamedSection
	AllCapsLine
)

// HeadingMatch is the result of recognizing one line as a chapter boundary.
type HeadingMatch struct {
	Title string
	Kind  HeadingKind
}

var (
	markdownRe = regexp.MustCompile(`^#{1,3}\s+(.+)$`)
	numberedRe = regexp.MustCompile(`(?i)^(chapter|ch\.)\s+([0-9ivxlcdm]+)\b[:.\-–—]?\s*(.*)$`)
	sectionRe  = regexp.MustCompile(`(?i)^(introduction|prologue|epilogue|preface|foreword|afterword)\b[:.\-–—]?\s*(.*)$`)
	allCapsRe  = regexp.MustCompile(`^[A-Z][A-Z0-9\s,'-]{3,}$`)
)

// Classify tests one physical line against the supported heading
// conventions, most specific first, and extracts a normalized title.
// Blank lines never match. Order matters: a line like "## CHAPTER ONE"
// must resolve as a Markdown heading, not an all-caps line.
func Classify(line string) (HeadingMatch, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return HeadingMatch{}, false
	}

	if m := markdownRe.FindStringSubmatch(trimmed); m != nil {
		return HeadingMatch{Title: strings.TrimSpace(m[1]), Kind: MarkdownHeading}, true
	}

	if m := numberedRe.FindStringSubmatch(trimmed); m != nil {
		num := m[2]
		rest := strings.TrimSpace(m[3])
		title := fmt.Sprintf("Chapter %s", num)
		if rest != "" {
			title = fmt.Sprintf("Chapter %s: %s", num, rest)
		}
		return HeadingMatch{Title: title, Kind: NumberedChapter}, true
	}

	if m := sectionRe.FindStringSubmatch(trimmed); m != nil {
		name := capitalize(m[1])
		rest := strings.TrimSpace(m[2])
		title := name
		if rest != "" {
			title = name + ": " + rest
		}
		return HeadingMatch{Title: title, Kind: NamedSection}, true
	}

	if allCapsRe.MatchString(trimmed) {
		return HeadingMatch{Title: trimmed, Kind: AllCapsLine}, true
	}

	return HeadingMatch{}, false
}

// capitalize normalizes a section keyword: first letter upper, rest lower.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

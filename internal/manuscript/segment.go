// Package manuscript implements the segmentation engine that splits a
// pasted block of raw text into an ordered sequence of titled chapters,
// each with a URL-safe slug and a short description for the table of
// contents.
package manuscript

import (
	"fmt"
	"strings"
)

// Chapter is one titled unit of body text produced by segmentation.
// Slugs are unique within a single Segment call; Description is empty
// when the body yields no usable summary.
type Chapter struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
}

// section is a draft chapter before slug/description assignment.
type section struct {
	title string
	body  string
}

// Segment splits a manuscript into chapters by driving Classify over the
// line sequence. Text between one heading and the next becomes that
// heading's body; bodies are trimmed, internal blank-line runs kept as
// paragraph separators. Chapters with empty bodies are dropped. A
// manuscript with no recognizable headings at all becomes a single
// chapter titled "Introduction".
func Segment(text string) []Chapter {
	secs := split(text)
	used := make(map[string]struct{}, len(secs))
	out := make([]Chapter, 0, len(secs))
	for _, s := range secs {
		if s.body == "" {
			continue
		}
		base := Slugify(s.title)
		if base == "" {
			base = fmt.Sprintf("chapter-%d", len(out)+1)
		}
		slug := base
		for k := 2; ; k++ {
			if _, dup := used[slug]; !dup {
				break
			}
			slug = fmt.Sprintf("%s-%d", base, k)
		}
		used[slug] = struct{}{}
		out = append(out, Chapter{
			Slug:        slug,
			Title:       strings.TrimSpace(s.title),
			Description: Summarize(s.body, SummarizeDefault),
			Content:     s.body,
		})
	}
	return out
}

// split accumulates raw lines into draft sections, opening a new section
// at every recognized heading. Lines before the first heading belong to
// no chapter and are discarded; if the whole text contains no heading it
// is returned as one "Introduction" section.
func split(text string) []section {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var (
		secs    []section
		current string
		open    bool
		buf     []string
	)
	flush := func() {
		if open {
			secs = append(secs, section{
				title: current,
				body:  strings.TrimSpace(strings.Join(buf, "\n")),
			})
		}
		buf = buf[:0]
	}

	for _, raw := range lines {
		if m, ok := Classify(raw); ok {
			flush()
			current = m.Title
			open = true
			continue
		}
		buf = append(buf, raw)
	}
	flush()

	if len(secs) == 0 {
		if whole := strings.TrimSpace(text); whole != "" {
			secs = append(secs, section{title: "Introduction", body: whole})
		}
	}
	return secs
}

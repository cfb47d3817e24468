package manuscript

import (
	"regexp"
	"strings"
)

var (
	slugStripRe  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify converts a chapter or book title into a URL-safe identifier:
// lower-cased, non-alphanumerics stripped, whitespace and hyphen runs
// collapsed to single hyphens. The result may be empty (e.g. for titles
// made entirely of punctuation); callers must supply a fallback then.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

package manuscript

import (
	"strings"
	"testing"
)

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize("", SummarizeDefault); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
	if got := Summarize("  \n\t  ", SummarizeDefault); got != "" {
		t.Errorf("whitespace-only input should summarize to empty, got %q", got)
	}
}

func TestSummarize_ShortTextVerbatim(t *testing.T) {
	in := "One line.\nAnother   line."
	want := "One line. Another line."
	if got := Summarize(in, SummarizeDefault); got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_SentenceBoundary(t *testing.T) {
	first := strings.Repeat("a", 60) + "."
	in := first + " " + strings.Repeat("b", 200)
	got := Summarize(in, SummarizeDefault)
	if got != first {
		t.Errorf("expected cut at sentence boundary, got %q", got)
	}
}

func TestSummarize_SentenceBoundarySmallCap(t *testing.T) {
	in := "A short sentence. And another one that goes on for a while past the limit."
	if got := Summarize(in, 40); got != "A short sentence." {
		t.Errorf("Summarize = %q, want %q", got, "A short sentence.")
	}
}

func TestSummarize_HardTruncate(t *testing.T) {
	in := strings.Repeat("x", 500)
	got := Summarize(in, SummarizeDefault)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if n := len([]rune(got)); n != SummarizeDefault {
		t.Errorf("truncated length = %d runes, want %d", n, SummarizeDefault)
	}
}

func TestSummarize_EarlyPeriodIgnoredAtDefaultCap(t *testing.T) {
	// A boundary below the floor must not produce a tiny summary.
	in := "Short. " + strings.Repeat("y", 300)
	got := Summarize(in, SummarizeDefault)
	if got == "Short." {
		t.Fatalf("boundary below floor should be skipped")
	}
	if n := len([]rune(got)); n > SummarizeDefault {
		t.Errorf("summary too long: %d runes", n)
	}
}

func TestSummarize_NeverExceedsCap(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 100),
		strings.Repeat("a", 80) + ". " + strings.Repeat("b", 300),
		"no periods at all " + strings.Repeat("z", 400),
	}
	for _, in := range inputs {
		got := Summarize(in, SummarizeDefault)
		if n := len([]rune(got)); n > SummarizeDefault {
			t.Errorf("len(Summarize(...)) = %d runes, want <= %d (%q)", n, SummarizeDefault, got[:40])
		}
	}
}

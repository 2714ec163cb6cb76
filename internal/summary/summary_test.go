package summary

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSummarizeCollapsesWhitespace(t *testing.T) {
	got := Summarize("  First line\nsecond   line\n\nthird  ", nil, "en")
	want := "First line second line third"
	if got != want {
		t.Fatalf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeAppendsHints(t *testing.T) {
	got := Summarize("Museum opens a new wing.", []string{"Culture", "news"}, "en")
	want := "Museum opens a new wing. Culture news"
	if got != want {
		t.Fatalf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize("", nil, "en"); got != "" {
		t.Fatalf("Summarize(empty) = %q, want empty", got)
	}
	if got := Summarize(" \n ", nil, "de"); got != "" {
		t.Fatalf("Summarize(blank) = %q, want empty", got)
	}
}

func TestSummarizeFrenchTag(t *testing.T) {
	got := Summarize("Le musée ouvre ses portes.", nil, "fr")
	want := "[FR] Le musée ouvre ses portes."
	if got != want {
		t.Fatalf("Summarize() = %q, want %q", got, want)
	}

	if got := Summarize("The museum opens.", nil, "en"); strings.HasPrefix(got, "[FR]") {
		t.Fatalf("english summary tagged as french: %q", got)
	}
}

func TestSummarizeTruncatesOnWordBoundary(t *testing.T) {
	words := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		words = append(words, "gallery")
	}
	body := strings.Join(words, " ")

	got := Summarize(body, nil, "en")

	if n := utf8.RuneCountInString(got); n > MaxLength {
		t.Fatalf("summary has %d characters, want at most %d", n, MaxLength)
	}
	if !strings.HasSuffix(got, Placeholder) {
		t.Fatalf("truncated summary %q does not end with placeholder", got)
	}
	if strings.Count(got, Placeholder) != 1 {
		t.Fatalf("expected exactly one placeholder in %q", got)
	}

	for _, w := range strings.Fields(strings.TrimSuffix(got, Placeholder)) {
		if w != "gallery" {
			t.Fatalf("word %q was cut in the middle", w)
		}
	}

	// 35 слов по 7 символов + 34 пробела = 279, плюс маркер ровно 280
	if want := strings.Join(words[:35], " ") + Placeholder; got != want {
		t.Fatalf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeExactlyAtLimit(t *testing.T) {
	body := strings.Repeat("a", MaxLength)
	if got := Summarize(body, nil, "en"); got != body {
		t.Fatalf("text of exactly %d characters must be kept as is", MaxLength)
	}
}

func TestSummarizeSingleLongWord(t *testing.T) {
	body := strings.Repeat("x", MaxLength+10)
	if got := Summarize(body, nil, "en"); got != Placeholder {
		t.Fatalf("Summarize(long word) = %q, want only placeholder", got)
	}
}

func TestSummarizeCountsRunesNotBytes(t *testing.T) {
	// 70 слов "éééé" дают 349 символов, но почти вдвое больше байт
	words := make([]string, 70)
	for i := range words {
		words[i] = "éééé"
	}

	got := Summarize(strings.Join(words, " "), nil, "en")
	if n := utf8.RuneCountInString(got); n > MaxLength || n < MaxLength-5 {
		t.Fatalf("summary has %d characters, want close to %d", n, MaxLength)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	body := strings.Repeat("Exhibition of modern art in Montreal. ", 20)
	hints := []string{"museum"}

	first := Summarize(body, hints, "fr")
	for i := 0; i < 5; i++ {
		if got := Summarize(body, hints, "fr"); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

package scoring

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		summary string
		topics  []string
		want    float64
	}{
		{"empty", "", "", nil, 0.0},
		{"title only", "Title", "", nil, 0.4},
		{"summary only", "", "Summary", nil, 0.3},
		{"title and summary", "x", "x", nil, 0.7},
		{"one topic", "x", "x", []string{"art"}, 0.75},
		{"two topics", "x", "x", []string{"art", "museum"}, 0.8},
		{"six topics cap", "x", "x", []string{"a", "b", "c", "d", "e", "f"}, 1.0},
		{"ten topics cap", "x", "x", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, 1.0},
		{"topics without text", "", "", []string{"a", "b", "c", "d", "e", "f", "g"}, 0.3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Score(c.title, c.summary, c.topics)
			if math.Abs(got-c.want) > eps {
				t.Fatalf("Score(%q, %q, %v) = %v, want %v", c.title, c.summary, c.topics, got, c.want)
			}
		})
	}
}

func TestScoreMonotonicInTopics(t *testing.T) {
	all := []string{"art", "museum", "history", "science", "culture", "heritage", "music", "film"}

	for _, title := range []string{"", "Title"} {
		for _, summary := range []string{"", "Summary"} {
			prev := -1.0
			for n := 0; n <= len(all); n++ {
				got := Score(title, summary, all[:n])
				if got < 0 || got > 1 {
					t.Fatalf("Score out of range: %v", got)
				}
				if got+eps < prev {
					t.Fatalf("Score decreased when adding topic %d: %v < %v", n, got, prev)
				}
				prev = got
			}
		}
	}
}

func TestScoreIncreasesWithTopics(t *testing.T) {
	base := Score("Title", "Summary", nil)
	withTopics := Score("Title", "Summary", []string{"art", "museum"})

	if withTopics <= base {
		t.Fatalf("expected topics to increase the score: %v <= %v", withTopics, base)
	}
	if withTopics > 1.0 {
		t.Fatalf("score above 1.0: %v", withTopics)
	}
}

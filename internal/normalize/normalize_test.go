package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
	"github.com/kovalyov-valentin/museum-news-feed/internal/summary"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 30, 45, 999, time.UTC)

func newNormalizer() *Normalizer {
	return New(summary.Summarize, WithClock(func() time.Time { return fixedNow }))
}

func testFeed() model.FeedSource {
	return model.FeedSource{
		Name:     "Canadian Museums",
		URL:      "https://example.org/feed.xml",
		Region:   "canada",
		Topics:   []string{"museum", "art"},
		Language: "en",
	}
}

func sha(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func TestContentIDPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		entry model.RawEntry
		base  string
	}{
		{"id wins", model.RawEntry{ID: "guid-1", Link: "https://x/1", Title: "T"}, "guid-1"},
		{"link when no id", model.RawEntry{Link: "https://x/1", Title: "T"}, "https://x/1"},
		{"title when no id and link", model.RawEntry{Title: "T"}, "T"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ContentID(c.entry); got != sha(c.base) {
				t.Fatalf("ContentID() = %s, want sha256(%q)", got, c.base)
			}
		})
	}
}

func TestContentIDFallsBackToWholeEntry(t *testing.T) {
	entry := model.RawEntry{Summary: "only a summary"}

	got := ContentID(entry)
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(got))
	}
	if got != sha(entry.String()) {
		t.Fatalf("ContentID() must hash the entry representation")
	}
	if got == sha("") {
		t.Fatalf("empty entry must not hash the empty string")
	}
}

func TestContentIDStable(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := model.RawEntry{Summary: "s", Published: &published}
	copyPublished := published
	same := model.RawEntry{Summary: "s", Published: &copyPublished}

	if ContentID(entry) != ContentID(same) {
		t.Fatalf("equal entries must have equal ids")
	}

	n := newNormalizer()
	first := n.Normalize(testFeed(), model.RawEntry{Link: "https://x/a", Title: "A"})
	second := n.Normalize(testFeed(), model.RawEntry{Link: "https://x/a", Title: "A"})
	if first.ID != second.ID {
		t.Fatalf("repeated normalization changed id: %s vs %s", first.ID, second.ID)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got := newNormalizer().Normalize(testFeed(), model.RawEntry{})

	if got.Title != UntitledTitle {
		t.Fatalf("Title = %q, want %q", got.Title, UntitledTitle)
	}
	if got.Body != "" || got.Summary != "" {
		t.Fatalf("expected empty body and summary, got %q / %q", got.Body, got.Summary)
	}
	if got.Language != "en" {
		t.Fatalf("Language = %q, want feed language", got.Language)
	}
	if got.ImageURL != "" || got.CanonicalURL != "" {
		t.Fatalf("unexpected urls: %q %q", got.ImageURL, got.CanonicalURL)
	}
	if want := fixedNow.Truncate(time.Second); !got.PublishedAt.Equal(want) {
		t.Fatalf("PublishedAt = %v, want fallback %v", got.PublishedAt, want)
	}
}

func TestNormalizeFields(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	published := time.Date(2024, 2, 1, 9, 15, 30, 123456789, loc)

	entry := model.RawEntry{
		ID:        "urn:1",
		Link:      "https://example.org/news/1",
		Title:     "New wing opens",
		Summary:   "Short\ndescription",
		Content:   "Full body of the article",
		Published: &published,
		Language:  "fr",
		Links:     []string{"https://example.org/news/1", "https://cdn.example.org/photo.JPG?w=600"},
	}

	feed := testFeed()
	feed.SummaryHint = "Culture"

	got := newNormalizer().Normalize(feed, entry)

	want := model.Article{
		ID:           sha("urn:1"),
		Title:        "New wing opens",
		Body:         "Full body of the article",
		Summary:      "[FR] Short description Culture",
		Source:       "Canadian Museums",
		PublishedAt:  time.Date(2024, 2, 1, 14, 15, 30, 0, time.UTC),
		Region:       "canada",
		Topics:       []string{"museum", "art"},
		ImageURL:     "https://cdn.example.org/photo.JPG?w=600",
		Language:     "fr",
		CanonicalURL: "https://example.org/news/1",
	}

	if !got.PublishedAt.Equal(want.PublishedAt) || got.PublishedAt.Location() != time.UTC {
		t.Fatalf("PublishedAt = %v, want %v in UTC", got.PublishedAt, want.PublishedAt)
	}
	got.PublishedAt = want.PublishedAt

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestNormalizeBodyFallsBackToSummary(t *testing.T) {
	got := newNormalizer().Normalize(testFeed(), model.RawEntry{Title: "t", Summary: "only summary"})
	if got.Body != "only summary" {
		t.Fatalf("Body = %q, want summary text", got.Body)
	}
	if got.Summary != "only summary" {
		t.Fatalf("Summary = %q", got.Summary)
	}
}

func TestNormalizeSummaryUsesBodyWithoutSummaryField(t *testing.T) {
	body := strings.Repeat("word ", 100)
	got := newNormalizer().Normalize(testFeed(), model.RawEntry{Title: "t", Content: body})

	if got.Summary == "" || !strings.HasSuffix(got.Summary, summary.Placeholder) {
		t.Fatalf("expected shortened body as summary, got %q", got.Summary)
	}
}

func TestNormalizeImagePrefersMedia(t *testing.T) {
	entry := model.RawEntry{
		Media: []string{"https://cdn/video.mp4", "https://cdn/media.png"},
		Links: []string{"https://cdn/link.jpg"},
	}
	if got := newNormalizer().Normalize(testFeed(), entry); got.ImageURL != "https://cdn/media.png" {
		t.Fatalf("ImageURL = %q, want media image", got.ImageURL)
	}

	// media есть, но картинок среди них нет: в links уже не смотрим
	entry.Media = []string{"https://cdn/video.mp4"}
	if got := newNormalizer().Normalize(testFeed(), entry); got.ImageURL != "" {
		t.Fatalf("ImageURL = %q, want none", got.ImageURL)
	}

	entry.Media = nil
	if got := newNormalizer().Normalize(testFeed(), entry); got.ImageURL != "https://cdn/link.jpg" {
		t.Fatalf("ImageURL = %q, want link image", got.ImageURL)
	}
}

func TestNormalizeTopicsAreFreshPerArticle(t *testing.T) {
	feed := testFeed()
	n := newNormalizer()

	first := n.Normalize(feed, model.RawEntry{Title: "a"})
	second := n.Normalize(feed, model.RawEntry{Title: "b"})

	first.Topics[0] = "changed"

	if second.Topics[0] != "museum" || feed.Topics[0] != "museum" {
		t.Fatalf("topics slice is shared between articles")
	}
}

func TestNormalizeNoTopics(t *testing.T) {
	feed := testFeed()
	feed.Topics = nil

	got := newNormalizer().Normalize(feed, model.RawEntry{Title: "a"})
	if got.Topics == nil || len(got.Topics) != 0 {
		t.Fatalf("Topics = %#v, want empty non-nil slice", got.Topics)
	}
}

func TestNormalizeKeepsDuplicateTopics(t *testing.T) {
	feed := testFeed()
	feed.Topics = []string{"art", "art", "art", "art"}

	got := newNormalizer().Normalize(feed, model.RawEntry{Title: "a"})
	if len(got.Topics) != 4 {
		t.Fatalf("Topics = %v, want all four copies", got.Topics)
	}
}

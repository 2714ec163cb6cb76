package dedup

import (
	"reflect"
	"testing"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

func article(id, title string) model.Article {
	return model.Article{ID: id, Title: title}
}

func titles(articles []model.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Title)
	}
	return out
}

func TestFilterFirstOccurrenceWins(t *testing.T) {
	got := Filter(nil, []model.Article{
		article("1", "A"),
		article("1", "B"),
		article("2", "C"),
	})

	if want := []string{"A", "C"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("Filter() = %v, want %v", titles(got), want)
	}
}

func TestFilterSkipsKnown(t *testing.T) {
	got := Filter([]string{"2", "9"}, []model.Article{
		article("1", "A"),
		article("2", "B"),
		article("3", "C"),
		article("9", "D"),
	})

	if want := []string{"A", "C"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("Filter() = %v, want %v", titles(got), want)
	}
}

func TestFilterIdempotent(t *testing.T) {
	known := []string{"x"}
	batch := []model.Article{
		article("x", "known"),
		article("a", "A"),
		article("b", "B"),
		article("a", "A again"),
	}

	once := Filter(known, batch)
	twice := Filter(known, once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Filter is not idempotent: %v vs %v", titles(once), titles(twice))
	}
}

func TestFilterDoesNotMutateInputs(t *testing.T) {
	known := []string{"1"}
	batch := []model.Article{article("1", "A"), article("2", "B")}

	knownCopy := append([]string(nil), known...)
	batchCopy := append([]model.Article(nil), batch...)

	_ = Filter(known, batch)

	if !reflect.DeepEqual(known, knownCopy) {
		t.Fatalf("known ids were mutated: %v", known)
	}
	if !reflect.DeepEqual(batch, batchCopy) {
		t.Fatalf("articles were mutated: %v", titles(batch))
	}

	// повторный вызов с тем же known не должен видеть id из прошлой пачки
	if got := Filter(known, []model.Article{article("2", "B")}); len(got) != 1 {
		t.Fatalf("state leaked between calls, got %v", titles(got))
	}
}

func TestFilterEmpty(t *testing.T) {
	if got := Filter([]string{"1"}, nil); len(got) != 0 {
		t.Fatalf("Filter(nil) = %v, want empty", got)
	}
}

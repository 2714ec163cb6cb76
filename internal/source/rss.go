package source

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"log/slog"

	"github.com/SlyMarbo/rss"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// RSS клиент на SlyMarbo/rss. Запасной вариант, если gofeed не справляется с лентой.
// SlyMarbo/rss молча выбрасывает элементы без guid и link, такие потери пишем в лог.
type RSSSource struct {
	loader *Loader
	logger *slog.Logger
}

func NewRSSSource(loader *Loader, logger *slog.Logger) *RSSSource {
	return &RSSSource{loader: loader, logger: logger}
}

// Fetch загружает ленту и мапит ее элементы в сырые записи
func (s *RSSSource) Fetch(ctx context.Context, url string) ([]model.RawEntry, error) {
	data, err := s.loader.Load(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	feed, err := rss.Parse(data)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if dropped := countFeedItems(data) - len(feed.Items); dropped > 0 {
		s.logger.Warn("rss parser dropped items without guid and link", "url", url, "dropped", dropped)
	}

	return lo.Map(feed.Items, func(item *rss.Item, _ int) model.RawEntry {
		return entryFromRSS(item)
	}), nil
}

// countFeedItems считает элементы item и entry прямо в XML.
// Ошибка разбора просто останавливает подсчет.
func countFeedItems(data []byte) int {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false
	// Имена тегов в ASCII, перекодировать тело для подсчета не нужно
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var count int
	for {
		token, err := decoder.Token()
		if err != nil {
			return count
		}

		if start, ok := token.(xml.StartElement); ok && (start.Name.Local == "item" || start.Name.Local == "entry") {
			count++
		}
	}
}

func entryFromRSS(item *rss.Item) model.RawEntry {
	entry := model.RawEntry{
		ID:      item.ID,
		Link:    item.Link,
		Title:   item.Title,
		Summary: item.Summary,
		Content: item.Content,
	}

	if !item.Date.IsZero() {
		published := item.Date
		entry.Published = &published
	}

	if item.Link != "" {
		entry.Links = append(entry.Links, item.Link)
	}
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			entry.Links = append(entry.Links, enclosure.URL)
		}
	}

	return entry
}

package source

import (
	"bytes"
	"context"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// Источник на gofeed, понимает RSS, Atom и JSON Feed
type GoFeedSource struct {
	loader *Loader
	parser *gofeed.Parser
}

func NewGoFeedSource(loader *Loader) *GoFeedSource {
	return &GoFeedSource{
		loader: loader,
		parser: gofeed.NewParser(),
	}
}

func (s *GoFeedSource) Fetch(ctx context.Context, url string) ([]model.RawEntry, error) {
	data, err := s.loader.Load(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	return lo.Map(feed.Items, func(item *gofeed.Item, _ int) model.RawEntry {
		return entryFromGoFeed(item)
	}), nil
}

func entryFromGoFeed(item *gofeed.Item) model.RawEntry {
	entry := model.RawEntry{
		ID:      item.GUID,
		Link:    item.Link,
		Title:   item.Title,
		Summary: item.Description,
		Content: item.Content,
	}

	switch {
	case item.PublishedParsed != nil:
		entry.Published = item.PublishedParsed
	case item.UpdatedParsed != nil:
		entry.Published = item.UpdatedParsed
	}

	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Language) > 0 {
		entry.Language = item.DublinCoreExt.Language[0]
	}

	// media:content gofeed оставляет в расширениях
	for _, media := range item.Extensions["media"]["content"] {
		if url := media.Attrs["url"]; url != "" {
			entry.Media = append(entry.Media, url)
		}
	}

	entry.Links = append(entry.Links, item.Links...)
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			entry.Links = append(entry.Links, enclosure.URL)
		}
	}

	return entry
}

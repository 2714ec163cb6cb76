package source

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	readability "github.com/go-shiori/go-readability"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

const defaultExtractWorkers = 4

// Extractor дополняет пустые записи текстом страницы, на которую они ссылаются.
// Трогает только записи без content и summary, но со ссылкой.
type Extractor struct {
	next    Source
	loader  *Loader
	workers int
	logger  *slog.Logger
}

func NewExtractor(next Source, loader *Loader, workers int, logger *slog.Logger) *Extractor {
	if workers <= 0 {
		workers = defaultExtractWorkers
	}

	return &Extractor{
		next:    next,
		loader:  loader,
		workers: workers,
		logger:  logger,
	}
}

func (e *Extractor) Fetch(ctx context.Context, feedURL string) ([]model.RawEntry, error) {
	entries, err := e.next.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var (
		wg   sync.WaitGroup
		jobs = make(chan int)
	)

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Каждый воркер пишет только в свой индекс слайса
			for idx := range jobs {
				content, err := e.extract(ctx, entries[idx].Link)
				if err != nil {
					e.logger.Warn("content extraction failed", "url", entries[idx].Link, "err", err)
					continue
				}
				entries[idx].Content = content
			}
		}()
	}

	for idx, entry := range entries {
		if !needsExtraction(entry) {
			continue
		}

		select {
		case jobs <- idx:
		case <-ctx.Done():
		}
	}
	close(jobs)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func needsExtraction(entry model.RawEntry) bool {
	return entry.Content == "" && entry.Summary == "" && entry.Link != ""
}

func (e *Extractor) extract(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	data, err := e.loader.Load(ctx, link)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(article.TextContent), nil
}

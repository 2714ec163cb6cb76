package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// Поддерживаемые парсеры лент
const (
	KindGoFeed = "gofeed"
	KindRSS    = "rss"
)

// Source забирает ленту по урлу и отдает ее записи
type Source interface {
	Fetch(ctx context.Context, url string) ([]model.RawEntry, error)
}

// New выбирает парсер по имени из конфига. Пустое имя значит gofeed.
func New(kind string, loader *Loader, logger *slog.Logger) (Source, error) {
	switch kind {
	case "", KindGoFeed:
		return NewGoFeedSource(loader), nil
	case KindRSS:
		return NewRSSSource(loader, logger), nil
	default:
		return nil, fmt.Errorf("unknown feed parser %q", kind)
	}
}

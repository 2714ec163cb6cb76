// Package normalize превращает сырую запись ленты в каноническую статью.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// Заголовок для записей без title
const UntitledTitle = "Untitled"

var imageExtensions = []string{".jpg", ".png", ".jpeg"}

// Функция, которая строит summary. На вход текст, подсказки и язык статьи
type SummarizeFunc func(body string, hints []string, language string) string

type Option func(n *Normalizer)

// WithClock подменяет часы, которые используются когда у записи нет даты публикации.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

type Normalizer struct {
	summarize SummarizeFunc
	// Источник текущего времени для записей без даты
	now func() time.Time
}

func New(summarize SummarizeFunc, opts ...Option) *Normalizer {
	n := &Normalizer{
		summarize: summarize,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize собирает статью из записи ленты. Никогда не падает:
// отсутствующие поля заменяются значениями по умолчанию.
func (n *Normalizer) Normalize(feed model.FeedSource, entry model.RawEntry) model.Article {
	var (
		body     = firstNonEmpty(entry.Content, entry.Summary)
		language = firstNonEmpty(entry.Language, feed.Language)
		hints    []string
	)

	if feed.SummaryHint != "" {
		hints = []string{feed.SummaryHint}
	}

	// Для summary предпочитаем краткое описание, полный текст только если его нет
	summary := ""
	if n.summarize != nil {
		summary = n.summarize(firstNonEmpty(entry.Summary, body), hints, language)
	}

	return model.Article{
		ID:          ContentID(entry),
		Title:       firstNonEmpty(entry.Title, UntitledTitle),
		Body:        body,
		Summary:     summary,
		Source:      feed.Name,
		PublishedAt: n.publishedAt(entry),
		Region:      feed.Region,
		// Темы копируются как есть, повторы тоже: от их числа зависит score
		Topics:       append(make([]string, 0, len(feed.Topics)), feed.Topics...),
		ImageURL:     imageURL(entry),
		Language:     language,
		CanonicalURL: entry.Link,
	}
}

// ContentID считает стабильный идентификатор записи.
// Берется первое непустое из id, link, title, а если пусто все - текстовое представление записи.
func ContentID(entry model.RawEntry) string {
	base := firstNonEmpty(entry.ID, entry.Link, entry.Title)
	if base == "" {
		base = entry.String()
	}

	hash := sha256.Sum256([]byte(base))
	return hex.EncodeToString(hash[:])
}

// Дата публикации в UTC с точностью до секунды. Если в записи ее нет, берем текущее время.
func (n *Normalizer) publishedAt(entry model.RawEntry) time.Time {
	if entry.Published != nil && !entry.Published.IsZero() {
		return entry.Published.UTC().Truncate(time.Second)
	}

	return n.now().UTC().Truncate(time.Second)
}

// Ищем первую ссылку на картинку. Сначала в media:content, если их нет - в обычных ссылках
func imageURL(entry model.RawEntry) string {
	candidates := entry.Media
	if len(candidates) == 0 {
		candidates = entry.Links
	}

	for _, href := range candidates {
		if href != "" && isImage(href) {
			return href
		}
	}

	return ""
}

func isImage(href string) bool {
	path := href
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		path = u.Path
	}

	path = strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const userAgent = "museum-news-feed/1.0 (+https://github.com/kovalyov-valentin/museum-news-feed)"

// Ошибка при загрузке или разборе ленты
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Loader скачивает документы по http. Все запросы проходят через общий лимитер.
type Loader struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewLoader создает загрузчик. rps <= 0 отключает ограничение частоты запросов.
func NewLoader(timeout time.Duration, rps float64) *Loader {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Loader{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (l *Loader) Load(ctx context.Context, url string) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/kovalyov-valentin/museum-news-feed/internal/dedup"
	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
	"github.com/kovalyov-valentin/museum-news-feed/internal/scoring"
	"github.com/kovalyov-valentin/museum-news-feed/internal/storage"
)

// Нет ни переданных, ни настроенных лент
var ErrNoFeedConfiguration = errors.New("no feed configurations available")

const defaultFetchConcurrency = 4

// Ошибка одной ленты. Остальные ленты прогона она не затрагивает
type FeedError struct {
	Feed string
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Feed, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// Хранилище статей. Все записи одной ленты идут в одной транзакции
type ArticleStorage interface {
	InTx(ctx context.Context, fn func(storage.Batch) error) error
}

// Откуда брать ленты, если их не передали явно
type FeedProvider interface {
	Feeds(ctx context.Context) ([]model.FeedSource, error)
}

// Интерфейс источника. Реализован в пакете source
type EntrySource interface {
	Fetch(ctx context.Context, url string) ([]model.RawEntry, error)
}

type Normalizer interface {
	Normalize(feed model.FeedSource, entry model.RawEntry) model.Article
}

// Получает статьи, которые закоммичены для ленты
type Announcer interface {
	Announce(ctx context.Context, feed model.FeedSource, articles []model.StoredArticle) error
}

type Options struct {
	// Статьи со score ниже порога не сохраняются
	MinScore float64
	// Сколько лент качаем параллельно
	FetchConcurrency int
	Logger           *slog.Logger
	Clock            func() time.Time
	// Опционально
	Announcer Announcer
}

// Структура сборщика
type Fetcher struct {
	articles   ArticleStorage
	feeds      FeedProvider
	source     EntrySource
	normalizer Normalizer

	minScore    float64
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
	announcer   Announcer
}

func NewFetcher(articles ArticleStorage, feeds FeedProvider, src EntrySource, normalizer Normalizer, opts Options) *Fetcher {
	f := &Fetcher{
		articles:    articles,
		feeds:       feeds,
		source:      src,
		normalizer:  normalizer,
		minScore:    opts.MinScore,
		concurrency: opts.FetchConcurrency,
		logger:      opts.Logger,
		now:         opts.Clock,
		announcer:   opts.Announcer,
	}

	if f.concurrency <= 0 {
		f.concurrency = defaultFetchConcurrency
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.now == nil {
		f.now = time.Now
	}

	return f
}

// PartialFailure сообщает, что все ошибки прогона относятся к отдельным лентам,
// то есть сам прогон состоялся.
func PartialFailure(err error) bool {
	if err == nil {
		return false
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		var feedErr *FeedError
		return errors.As(err, &feedErr)
	}

	for _, e := range joined.Unwrap() {
		var feedErr *FeedError
		if !errors.As(e, &feedErr) {
			return false
		}
	}

	return true
}

type runIDKey struct{}

// WithRunID кладет идентификатор прогона в контекст, он попадет во все логи прогона
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func runID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Start запускает прогон сразу и потом по расписанию cron, пока жив ctx.
func (f *Fetcher) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(schedule, func() { f.scheduledRun(ctx) }); err != nil {
		return fmt.Errorf("parse ingest schedule %q: %w", schedule, err)
	}

	f.scheduledRun(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	return ctx.Err()
}

func (f *Fetcher) scheduledRun(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ctx = WithRunID(ctx, uuid.NewString())

	if _, err := f.Ingest(ctx, nil); err != nil {
		f.logger.Error("scheduled ingestion finished with errors", "run_id", runID(ctx), "err", err)
	}
}

// Ingest прогоняет переданные ленты, а если их нет, то ленты из конфигурации.
func (f *Fetcher) Ingest(ctx context.Context, feeds []model.FeedSource) (int, error) {
	if len(feeds) == 0 {
		configured, err := f.feeds.Feeds(ctx)
		if err != nil {
			return 0, fmt.Errorf("load feed configuration: %w", err)
		}
		feeds = configured
	}

	if len(feeds) == 0 {
		return 0, ErrNoFeedConfiguration
	}

	return f.Run(ctx, feeds)
}

// Run возвращает число новых статей. Ошибки отдельных лент не прерывают прогон,
// они собираются в *FeedError через errors.Join и возвращаются вместе со счетчиком.
func (f *Fetcher) Run(ctx context.Context, feeds []model.FeedSource) (int, error) {
	var (
		id      = runID(ctx)
		logger  = f.logger.With("run_id", id)
		fetched = f.fetchAll(ctx, feeds)
		total   int
		errs    []error
	)

	logger.Info("ingestion started", "feeds", len(feeds))

	for i, feed := range feeds {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		result := fetched[i]
		if result.err != nil {
			logger.Error("feed fetch failed", "feed", feed.Name, "url", feed.URL, "err", result.err)
			errs = append(errs, &FeedError{Feed: feed.Name, Err: result.err})
			continue
		}

		stored, err := f.processFeed(ctx, feed, result.entries)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return total, ctxErr
			}

			logger.Error("feed rolled back", "feed", feed.Name, "err", err)
			errs = append(errs, &FeedError{Feed: feed.Name, Err: err})
			continue
		}

		total += len(stored)
		logger.Info("feed processed", "feed", feed.Name, "entries", len(result.entries), "stored", len(stored))

		if f.announcer != nil && len(stored) > 0 {
			if err := f.announcer.Announce(ctx, feed, stored); err != nil {
				logger.Warn("announce failed", "feed", feed.Name, "err", err)
			}
		}
	}

	logger.Info("ingestion finished", "stored", total, "failed_feeds", len(errs))

	return total, errors.Join(errs...)
}

type fetchResult struct {
	entries []model.RawEntry
	err     error
}

// Ленты качаем параллельно, а обрабатываем потом строго по порядку
func (f *Fetcher) fetchAll(ctx context.Context, feeds []model.FeedSource) []fetchResult {
	results := make([]fetchResult, len(feeds))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			entries, err := f.source.Fetch(ctx, feed.URL)
			results[i] = fetchResult{entries: entries, err: err}
			// Ошибка одной ленты не должна отменять остальные
			return nil
		})
	}

	_ = g.Wait()

	return results
}

func (f *Fetcher) processFeed(ctx context.Context, feed model.FeedSource, entries []model.RawEntry) ([]model.StoredArticle, error) {
	articles := lo.Map(entries, func(entry model.RawEntry, _ int) model.Article {
		return f.normalizer.Normalize(feed, entry)
	})

	now := f.now()

	var stored []model.StoredArticle

	err := f.articles.InTx(ctx, func(batch storage.Batch) error {
		stored = nil

		known, err := batch.KnownIDs(ctx)
		if err != nil {
			return err
		}

		for _, article := range dedup.Filter(known, articles) {
			score := scoring.Score(article.Title, article.Summary, article.Topics)
			if score < f.minScore {
				continue
			}

			row := model.NewStoredArticle(article, score, now)
			if err := batch.Insert(ctx, row); err != nil {
				// Кто-то успел вставить такую же статью, это не ошибка
				if errors.Is(err, storage.ErrDuplicateArticle) {
					f.logger.Debug("duplicate article skipped", "feed", feed.Name, "id", article.ID)
					continue
				}
				return err
			}

			stored = append(stored, row)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

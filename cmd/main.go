package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/kovalyov-valentin/museum-news-feed/internal/api"
	"github.com/kovalyov-valentin/museum-news-feed/internal/bot"
	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit"
	"github.com/kovalyov-valentin/museum-news-feed/internal/config"
	"github.com/kovalyov-valentin/museum-news-feed/internal/fetcher"
	"github.com/kovalyov-valentin/museum-news-feed/internal/logging"
	"github.com/kovalyov-valentin/museum-news-feed/internal/normalize"
	"github.com/kovalyov-valentin/museum-news-feed/internal/notifier"
	"github.com/kovalyov-valentin/museum-news-feed/internal/source"
	"github.com/kovalyov-valentin/museum-news-feed/internal/storage"
	"github.com/kovalyov-valentin/museum-news-feed/internal/summary"
)

func main() {
	if err := run(); err != nil {
		slog.Error("museum news feed stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// .env необязательный, переменные окружения могут прийти и снаружи
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	//Graceful Shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dialect, err := storage.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return err
	}

	if dialect == storage.SQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabaseDSN), 0o755); err != nil {
			return err
		}
	}

	db, err := storage.Open(ctx, dialect, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db, dialect); err != nil {
		return err
	}

	loader := source.NewLoader(cfg.FetchTimeout, cfg.FetchRPS)

	entrySource, err := source.New(cfg.FeedParser, loader, logger.With("component", "source"))
	if err != nil {
		return err
	}
	if cfg.ExtractContent {
		entrySource = source.NewExtractor(entrySource, loader, cfg.FetchConcurrency, logger.With("component", "extractor"))
	}

	// Инициализируем наши зависимости
	var (
		articleStorage = storage.NewArticleStorage(db, dialect)
		feeds          = config.FeedFile{Path: cfg.FeedsFile}
		announcer      fetcher.Announcer
		newsNotifier   *notifier.Notifier
		botAPI         *tgbotapi.BotAPI
	)

	if cfg.TelegramBotToken != "" {
		// Создаем бота, используя токен из конфига
		botAPI, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return err
		}

		if cfg.TelegramChannelID != 0 {
			newsNotifier = notifier.New(botAPI, cfg.TelegramChannelID, logger.With("component", "notifier"))
			announcer = newsNotifier
		}
	}

	ingester := fetcher.NewFetcher(
		articleStorage,
		feeds,
		entrySource,
		normalize.New(summary.Summarize),
		fetcher.Options{
			MinScore:         cfg.MinRelevanceScore,
			FetchConcurrency: cfg.FetchConcurrency,
			Logger:           logger.With("component", "fetcher"),
			Announcer:        announcer,
		},
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(ingester, articleStorage, cfg.MinRelevanceScore, logger.With("component", "api")).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server started", "addr", cfg.HTTPAddr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		return server.Shutdown(shutdownCtx)
	})

	// Воркер fetcher
	if cfg.IngestSchedule != "" {
		g.Go(func() error {
			if err := ingester.Start(ctx, cfg.IngestSchedule); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.Info("fetcher stopped")
			return nil
		})
	}

	// Воркер публикации в канал
	if newsNotifier != nil {
		g.Go(func() error {
			if err := newsNotifier.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.Info("notifier stopped")
			return nil
		})
	}

	// Инициализируем нашего бота
	if botAPI != nil {
		newsBot := botkit.New(botAPI, logger.With("component", "bot")).WithUpdateTimeout(2 * time.Minute)
		newsBot.RegisterCmdView("start", bot.ViewCmdStart())
		newsBot.RegisterCmdView("feeds", bot.ViewCmdFeeds(feeds))
		newsBot.RegisterCmdView("articles", bot.ViewCmdArticles(articleStorage, cfg.MinRelevanceScore))
		newsBot.RegisterCmdView("ingest", bot.IngestView(cfg.TelegramChannelID, ingester))

		g.Go(func() error {
			if err := newsBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.Info("bot stopped")
			return nil
		})
	}

	return g.Wait()
}

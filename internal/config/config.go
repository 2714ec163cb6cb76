package config

import (
	"fmt"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Хранить в файле мы будем в формате hcl.
// Также указываем ключ для переменных окружения
type Config struct {
	DatabaseDriver    string        `hcl:"database_driver" env:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseDSN       string        `hcl:"database_dsn" env:"DATABASE_DSN" default:"./data/museum_feed.db"`
	FeedsFile         string        `hcl:"feeds_file" env:"FEEDS_FILE" default:"config/feeds.canada.json"`
	FeedParser        string        `hcl:"feed_parser" env:"FEED_PARSER" default:"gofeed"`
	MinRelevanceScore float64       `hcl:"min_relevance_score" env:"MIN_RELEVANCE_SCORE" default:"0.6"`
	HTTPAddr          string        `hcl:"http_addr" env:"HTTP_ADDR" default:":8000"`
	FetchTimeout      time.Duration `hcl:"fetch_timeout" env:"FETCH_TIMEOUT" default:"20s"`
	FetchConcurrency  int           `hcl:"fetch_concurrency" env:"FETCH_CONCURRENCY" default:"4"`
	FetchRPS          float64       `hcl:"fetch_rps" env:"FETCH_RPS" default:"5"`
	ExtractContent    bool          `hcl:"extract_content" env:"EXTRACT_CONTENT" default:"false"`
	// Пустое расписание отключает фоновые прогоны, например "@every 30m"
	IngestSchedule    string `hcl:"ingest_schedule" env:"INGEST_SCHEDULE"`
	TelegramBotToken  string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID int64  `hcl:"telegram_channel_id" env:"TELEGRAM_CHANNEL_ID"`
	LogLevel          string `hcl:"log_level" env:"LOG_LEVEL" default:"info"`
}

// Где по умолчанию ищем конфиги
var DefaultFiles = []string{"./config.hcl", "./config.local.hcl"}

// Load читает конфиг из файлов и переменных окружения с префиксом MNF_.
// Окружение перекрывает файлы, отсутствующие файлы пропускаются.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = DefaultFiles
	}

	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		// Префикс для переменных окружения, чтобы они случайно не пересеклись с переменными других программ
		EnvPrefix: "MNF",
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.FeedParser {
	case "gofeed", "rss":
	default:
		return fmt.Errorf("invalid feed_parser %q: want gofeed or rss", c.FeedParser)
	}

	if c.MinRelevanceScore < 0 || c.MinRelevanceScore > 1 {
		return fmt.Errorf("invalid min_relevance_score %v: want value in [0, 1]", c.MinRelevanceScore)
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("invalid fetch_concurrency %d", c.FetchConcurrency)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("invalid fetch_timeout %s", c.FetchTimeout)
	}

	return nil
}

package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit/markup"
	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// Телеграм разрешает примерно 20 сообщений в минуту в один канал
var defaultSendLimit = rate.Limit(20.0 / 60.0)

const defaultQueueSize = 256

var ErrQueueFull = errors.New("announcement queue is full")

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type announcement struct {
	feed    string
	article model.StoredArticle
}

// Notifier публикует в канал статьи, которые только что сохранил прогон.
// Announce только ставит статьи в очередь, отправляет их Start.
type Notifier struct {
	bot Sender
	// id канала куда мы будем постить статьи
	channelID int64
	limiter   *rate.Limiter
	queue     chan announcement
	logger    *slog.Logger
}

func New(bot Sender, channelID int64, logger *slog.Logger) *Notifier {
	return &Notifier{
		bot:       bot,
		channelID: channelID,
		limiter:   rate.NewLimiter(defaultSendLimit, 3),
		queue:     make(chan announcement, defaultQueueSize),
		logger:    logger,
	}
}

// Announce ставит статьи в очередь и сразу возвращается.
// Если очередь заполнена, лишние статьи не публикуются и возвращается ErrQueueFull.
func (n *Notifier) Announce(ctx context.Context, feed model.FeedSource, articles []model.StoredArticle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var dropped int

	for _, article := range articles {
		select {
		case n.queue <- announcement{feed: feed.Name, article: article}:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		return fmt.Errorf("%w: %d of %d articles from %s were not queued", ErrQueueFull, dropped, len(articles), feed.Name)
	}

	return nil
}

// Start отправляет статьи из очереди с учетом лимита телеграма, пока жив ctx.
// Неудачная отправка одной статьи не мешает остальным.
func (n *Notifier) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next := <-n.queue:
			if err := n.limiter.Wait(ctx); err != nil {
				return err
			}

			if err := n.sendArticle(next.article); err != nil {
				n.logger.Error("failed to send article", "feed", next.feed, "id", next.article.ID, "err", err)
			}
		}
	}
}

func (n *Notifier) sendArticle(article model.StoredArticle) error {
	msg := tgbotapi.NewMessage(n.channelID, formatArticle(article))
	// Даем понять телеграм, чтобы это сообщение парсилось как markdown сообщение
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	_, err := n.bot.Send(msg)
	return err
}

// Сначала жирным заголовок, потом summary, потом ссылка и score
func formatArticle(article model.StoredArticle) string {
	parts := []string{markup.Bold(article.Title)}

	if article.Summary != "" {
		parts = append(parts, markup.EscapeForMarkdown(article.Summary))
	}

	footer := markup.EscapeForMarkdown(fmt.Sprintf("%s · score %.2f", article.Source, article.Score))
	if article.CanonicalURL != "" {
		footer = markup.Link(article.Source, article.CanonicalURL) +
			markup.EscapeForMarkdown(fmt.Sprintf(" · score %.2f", article.Score))
	}
	parts = append(parts, footer)

	return strings.Join(parts, "\n\n")
}

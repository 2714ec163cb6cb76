package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit"
	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit/markup"
	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

type FeedLister interface {
	Feeds(ctx context.Context) ([]model.FeedSource, error)
}

func ViewCmdFeeds(lister FeedLister) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.Client, update tgbotapi.Update) error {
		feeds, err := lister.Feeds(ctx)
		if err != nil {
			return err
		}

		var (
			// Складываем в нее сформатированные тексты с информацией о лентах
			feedInfos = lo.Map(feeds, func(feed model.FeedSource, _ int) string {
				return formatFeed(feed)
			})
			msgText = fmt.Sprintf(
				"Список лент \\(всего %d\\):\n\n%s",
				len(feeds),
				strings.Join(feedInfos, "\n\n"),
			)
		)

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, msgText)
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}

// Вывод форматированной информации о ленте
func formatFeed(feed model.FeedSource) string {
	topics := "нет"
	if len(feed.Topics) > 0 {
		topics = strings.Join(feed.Topics, ", ")
	}

	return fmt.Sprintf(
		"🌐 %s\nРегион: %s, язык: %s\nТемы: %s\nURL фида: %s",
		markup.Bold(feed.Name),
		markup.EscapeForMarkdown(feed.Region),
		markup.EscapeForMarkdown(feed.Language),
		markup.EscapeForMarkdown(topics),
		markup.EscapeForMarkdown(feed.URL),
	)
}

package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit"
)

const startText = `Бот ленты новостей музеев.

/feeds - список настроенных лент
/articles {"region": "canada", "topics": ["museums"], "count": 5} - последние статьи
/ingest - запустить сбор по всем лентам (только для админов)
/ingest {"name": "...", "url": "...", "region": "..."} - собрать одну ленту`

func ViewCmdStart() botkit.ViewFunc {
	return func(_ context.Context, bot botkit.Client, update tgbotapi.Update) error {
		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, startText)); err != nil {
			return err
		}
		return nil
	}
}

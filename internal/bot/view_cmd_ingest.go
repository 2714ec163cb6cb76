package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/kovalyov-valentin/museum-news-feed/internal/bot/middleware"
	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit"
	"github.com/kovalyov-valentin/museum-news-feed/internal/fetcher"
	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

type Ingester interface {
	Ingest(ctx context.Context, feeds []model.FeedSource) (int, error)
}

// ViewCmdIngest без аргументов собирает все настроенные ленты,
// с JSON аргументами собирает одну переданную ленту.
func ViewCmdIngest(ingester Ingester) botkit.ViewFunc {
	type ingestArgs struct {
		Name        string   `json:"name"`
		URL         string   `json:"url"`
		Region      string   `json:"region"`
		Topics      []string `json:"topics"`
		Language    string   `json:"language"`
		SummaryHint string   `json:"summary_hint"`
	}

	return func(ctx context.Context, bot botkit.Client, update tgbotapi.Update) error {
		chatID := update.Message.Chat.ID

		rawArgs := update.Message.CommandArguments()

		args, err := botkit.ParseJSON[ingestArgs](rawArgs)
		if err != nil {
			return reply(bot, chatID, "Не удалось разобрать аргументы: ожидается JSON с name, url и region")
		}

		var feeds []model.FeedSource
		if strings.TrimSpace(rawArgs) != "" {
			if args.Name == "" || args.URL == "" || args.Region == "" {
				return reply(bot, chatID, "Для ленты обязательны name, url и region")
			}

			feeds = append(feeds, model.FeedSource{
				Name:        args.Name,
				URL:         args.URL,
				Region:      args.Region,
				Topics:      args.Topics,
				Language:    args.Language,
				SummaryHint: args.SummaryHint,
			}.WithDefaults())
		}

		runID := uuid.NewString()

		n, err := ingester.Ingest(fetcher.WithRunID(ctx, runID), feeds)
		switch {
		case errors.Is(err, fetcher.ErrNoFeedConfiguration):
			return reply(bot, chatID, "Нет ни одной настроенной ленты")
		case err != nil && !fetcher.PartialFailure(err):
			return err
		}

		return reply(bot, chatID, fmt.Sprintf("Сохранено новых статей: %d (прогон %s)", n, runID))
	}
}

// IngestView пускает к /ingest только администраторов канала.
// Без канала права проверить негде, и команда отвечает, что не настроена.
func IngestView(channelID int64, ingester Ingester) botkit.ViewFunc {
	if channelID == 0 {
		return func(_ context.Context, bot botkit.Client, update tgbotapi.Update) error {
			return reply(bot, update.Message.Chat.ID, "Команда /ingest недоступна: не задан telegram_channel_id")
		}
	}

	return middleware.AdminOnly(channelID, ViewCmdIngest(ingester))
}

func reply(bot botkit.Client, chatID int64, text string) error {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return err
	}
	return nil
}

package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/botkit"
)

// AdminOnly пропускает к view только администраторов канала
func AdminOnly(channelID int64, next botkit.ViewFunc) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.Client, update tgbotapi.Update) error {
		admins, err := bot.GetChatAdministrators(
			tgbotapi.ChatAdministratorsConfig{
				ChatConfig: tgbotapi.ChatConfig{
					ChatID: channelID,
				},
			},
		)
		if err != nil {
			return err
		}

		isAdmin := update.Message.From != nil && lo.ContainsBy(admins, func(admin tgbotapi.ChatMember) bool {
			return admin.User != nil && admin.User.ID == update.Message.From.ID
		})
		if isAdmin {
			return next(ctx, bot, update)
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "У вас нет прав для выполнения этой команды")); err != nil {
			return err
		}
		return nil
	}
}

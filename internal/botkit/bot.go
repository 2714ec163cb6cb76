package botkit

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Часть API телеграма, которая нужна боту и view. *tgbotapi.BotAPI ее реализует
type Client interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChatAdministrators(config tgbotapi.ChatAdministratorsConfig) ([]tgbotapi.ChatMember, error)
}

// Функция, которая реагирует на определенную команду
type ViewFunc func(ctx context.Context, bot Client, update tgbotapi.Update) error

type Bot struct {
	api Client
	// Команда -> view
	cmdViews map[string]ViewFunc
	logger   *slog.Logger
	// Сколько времени дается одной view
	updateTimeout time.Duration
}

func New(api Client, logger *slog.Logger) *Bot {
	return &Bot{
		api:           api,
		cmdViews:      make(map[string]ViewFunc),
		logger:        logger,
		updateTimeout: 5 * time.Second,
	}
}

// Метод для регистрации View для команды
func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	b.cmdViews[cmd] = view
}

// WithUpdateTimeout меняет время на обработку одного апдейта. /ingest может идти долго
func (b *Bot) WithUpdateTimeout(timeout time.Duration) *Bot {
	b.updateTimeout = timeout
	return b
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			updateCtx, updateCancel := context.WithTimeout(ctx, b.updateTimeout)
			b.handleUpdate(updateCtx, update)
			updateCancel()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Роутит команды на соответствующие view
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// В какой-нибудь view может случиться паника, бот от этого падать не должен
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("panic recovered", "panic", p, "stack", string(debug.Stack()))
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	cmd := update.Message.Command()

	view, ok := b.cmdViews[cmd]
	if !ok {
		return
	}

	if err := view(ctx, b.api, update); err != nil {
		b.logger.Error("failed to handle update", "cmd", cmd, "err", err)

		if _, err := b.api.Send(
			tgbotapi.NewMessage(update.Message.Chat.ID, "internal error"),
		); err != nil {
			b.logger.Error("failed to send message", "err", err)
		}
	}
}

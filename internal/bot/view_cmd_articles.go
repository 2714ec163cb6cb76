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

const (
	defaultArticlesCount = 5
	maxArticlesCount     = 20
)

type ArticleLister interface {
	Articles(ctx context.Context, query model.ArticleQuery) ([]model.StoredArticle, error)
}

func ViewCmdArticles(lister ArticleLister, minScore float64) botkit.ViewFunc {
	type articlesArgs struct {
		Region   string   `json:"region"`
		Language string   `json:"language"`
		Topics   []string `json:"topics"`
		Count    int      `json:"count"`
	}

	return func(ctx context.Context, bot botkit.Client, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[articlesArgs](update.Message.CommandArguments())
		if err != nil {
			return reply(bot, update.Message.Chat.ID, "Не удалось разобрать аргументы: ожидается JSON")
		}

		count := args.Count
		if count <= 0 {
			count = defaultArticlesCount
		}
		count = min(count, maxArticlesCount)

		articles, err := lister.Articles(ctx, model.ArticleQuery{
			Region:   args.Region,
			Language: args.Language,
			MinScore: minScore,
			Topics:   args.Topics,
			Limit:    count,
		})
		if err != nil {
			return err
		}

		if len(articles) == 0 {
			return reply(bot, update.Message.Chat.ID, "Статей не найдено")
		}

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, strings.Join(
			lo.Map(articles, func(article model.StoredArticle, _ int) string {
				return formatArticle(article)
			}),
			"\n\n",
		))
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.DisableWebPagePreview = true

		if _, err := bot.Send(msg); err != nil {
			return err
		}
		return nil
	}
}

func formatArticle(article model.StoredArticle) string {
	text := fmt.Sprintf(
		"%s\n%s · %s",
		markup.Bold(article.Title),
		markup.EscapeForMarkdown(article.Source),
		markup.EscapeForMarkdown(article.PublishedAt.Format("2006-01-02")),
	)

	if article.CanonicalURL != "" {
		text += "\n" + markup.Link("Читать", article.CanonicalURL)
	}

	return text
}

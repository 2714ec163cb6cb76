package model

import (
	"fmt"
	"strings"
	"time"
)

// Описание одной ленты. Грузится один раз на прогон и дальше не меняется.
type FeedSource struct {
	// Имя источника, попадает в статью как source
	Name string `json:"name" yaml:"name"`
	// Урл откуда забираем ленту
	URL string `json:"url" yaml:"url"`
	// Регион, например canada
	Region string `json:"region" yaml:"region"`
	// Темы, которые получит каждая статья из этой ленты
	Topics []string `json:"topics" yaml:"topics"`
	// ISO код языка
	Language string `json:"language" yaml:"language"`
	// Подсказка, которая дописывается в конец summary
	SummaryHint string `json:"summary_hint,omitempty" yaml:"summary_hint"`
}

// Язык по умолчанию для лент, у которых он не указан
const DefaultLanguage = "en"

// WithDefaults возвращает копию источника с заполненными значениями по умолчанию.
func (f FeedSource) WithDefaults() FeedSource {
	if f.Language == "" {
		f.Language = DefaultLanguage
	}

	topics := make([]string, len(f.Topics))
	copy(topics, f.Topics)
	f.Topics = topics

	return f
}

// Элемент ленты в том виде, в котором его отдал парсер.
// Все поля опциональные, пустая строка или nil значит что поля нет.
type RawEntry struct {
	// Нативный id записи (guid в RSS, id в Atom)
	ID    string
	Link  string
	Title string
	// Краткое описание (description / summary)
	Summary string
	// Полный текст (content:encoded / content)
	Content   string
	Published *time.Time
	Language  string
	// Ссылки из media:content
	Media []string
	// Все остальные ссылки записи, включая enclosure
	Links []string
}

// String дает детерминированное текстовое представление записи.
func (e RawEntry) String() string {
	published := ""
	if e.Published != nil {
		published = e.Published.UTC().Format(time.RFC3339Nano)
	}

	return fmt.Sprintf(
		"RawEntry{id=%q link=%q title=%q summary=%q content=%q published=%q language=%q media=[%s] links=[%s]}",
		e.ID, e.Link, e.Title, e.Summary, e.Content, published, e.Language,
		strings.Join(e.Media, " "), strings.Join(e.Links, " "),
	)
}

// Нормализованная статья, с которой работает весь пайплайн
type Article struct {
	// Стабильный идентификатор контента (sha256 в hex)
	ID      string `json:"external_id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Summary string `json:"summary"`
	// Имя источника
	Source string `json:"source"`
	// Время публикации в источнике, всегда в UTC
	PublishedAt time.Time `json:"published_at"`
	Region      string    `json:"region"`
	Topics      []string  `json:"topics"`
	// Пустая строка - картинки нет
	ImageURL     string `json:"image_url"`
	Language     string `json:"language"`
	CanonicalURL string `json:"canonical_url"`
}

// Статья которая уже лежит в хранилище
type StoredArticle struct {
	// Суррогатный ключ строки в БД
	RowID int64
	Article
	Score            float64
	AIGeneratedImage bool
	// Время создания
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStoredArticle собирает строку для вставки из нормализованной статьи.
func NewStoredArticle(article Article, score float64, now time.Time) StoredArticle {
	now = now.UTC()

	return StoredArticle{
		Article:   article,
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Параметры выборки статей. Пустые поля не фильтруют.
type ArticleQuery struct {
	Region   string
	Language string
	MinScore float64
	// Пересечение тем без учета регистра
	Topics []string
	Limit  int
}

package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// Статья с таким external_id уже есть в базе
var ErrDuplicateArticle = errors.New("article with this content id already stored")

// Код ошибки unique_violation в postgres
const pqUniqueViolation = "23505"

var articleColumns = []string{
	"id",
	"external_id",
	"title",
	"body",
	"summary",
	"source",
	"published_at",
	"region",
	"topics",
	"image_url",
	"score",
	"language",
	"canonical_url",
	"ai_generated_image",
	"created_at",
	"updated_at",
}

// Операции, доступные внутри одной транзакции
type Batch interface {
	KnownIDs(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, article model.StoredArticle) error
}

type ArticleStorage struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func NewArticleStorage(db *sqlx.DB, dialect Dialect) *ArticleStorage {
	return &ArticleStorage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.placeholders()),
	}
}

// InTx выполняет fn в транзакции. Коммит если fn вернула nil, иначе откат.
func (s *ArticleStorage) InTx(ctx context.Context, fn func(Batch) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&articleBatch{tx: tx, builder: s.builder}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Articles возвращает статьи по фильтру, самые свежие первыми
func (s *ArticleStorage) Articles(ctx context.Context, query model.ArticleQuery) ([]model.StoredArticle, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stmt := s.builder.
		Select(articleColumns...).
		From("articles").
		Where(sq.GtOrEq{"score": query.MinScore}).
		OrderBy("published_at DESC", "id DESC")

	if query.Region != "" {
		stmt = stmt.Where(sq.Eq{"region": query.Region})
	}
	if query.Language != "" {
		stmt = stmt.Where(sq.Eq{"language": query.Language})
	}
	// С фильтром по темам лимит применяем после фильтрации в памяти
	if len(query.Topics) == 0 && query.Limit > 0 {
		stmt = stmt.Limit(uint64(query.Limit))
	}

	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles query: %w", err)
	}

	var rows []dbArticle
	if err := conn.SelectContext(ctx, &rows, sqlText, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	articles := lo.Map(rows, func(row dbArticle, _ int) model.StoredArticle {
		return row.model()
	})

	if len(query.Topics) > 0 {
		wanted := lo.Map(query.Topics, func(topic string, _ int) string {
			return strings.ToLower(topic)
		})

		articles = lo.Filter(articles, func(article model.StoredArticle, _ int) bool {
			return lo.SomeBy(article.Topics, func(topic string) bool {
				return lo.Contains(wanted, strings.ToLower(topic))
			})
		})
	}

	if query.Limit > 0 && len(articles) > query.Limit {
		articles = articles[:query.Limit]
	}

	return articles, nil
}

type articleBatch struct {
	tx      *sqlx.Tx
	builder sq.StatementBuilderType
}

func (b *articleBatch) KnownIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := b.tx.SelectContext(ctx, &ids, `SELECT external_id FROM articles`); err != nil {
		return nil, fmt.Errorf("select known ids: %w", err)
	}

	return ids, nil
}

func (b *articleBatch) Insert(ctx context.Context, article model.StoredArticle) error {
	row := newDBArticle(article)

	sqlText, args, err := b.builder.
		Insert("articles").
		Columns(articleColumns[1:]...).
		Values(
			row.ExternalID,
			row.Title,
			row.Body,
			row.Summary,
			row.Source,
			row.PublishedAt,
			row.Region,
			row.Topics,
			row.ImageURL,
			row.Score,
			row.Language,
			row.CanonicalURL,
			row.AIGeneratedImage,
			row.CreatedAt,
			row.UpdatedAt,
		).
		Suffix("ON CONFLICT (external_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	res, err := b.tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateArticle
		}
		return fmt.Errorf("insert article %s: %w", article.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert article %s: %w", article.ID, err)
	}
	if affected == 0 {
		return ErrDuplicateArticle
	}

	return nil
}

// Список тем хранится в одной текстовой колонке как JSON массив
type topicList []string

func (t topicList) Value() (driver.Value, error) {
	if t == nil {
		t = topicList{}
	}

	data, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}

	return string(data), nil
}

func (t *topicList) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*t = topicList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported topics type %T", src)
	}

	var topics []string
	if err := json.Unmarshal(data, &topics); err != nil {
		return fmt.Errorf("decode topics: %w", err)
	}
	if topics == nil {
		topics = []string{}
	}

	*t = topics
	return nil
}

type dbArticle struct {
	ID               int64          `db:"id"`
	ExternalID       string         `db:"external_id"`
	Title            string         `db:"title"`
	Body             string         `db:"body"`
	Summary          string         `db:"summary"`
	Source           string         `db:"source"`
	PublishedAt      time.Time      `db:"published_at"`
	Region           string         `db:"region"`
	Topics           topicList      `db:"topics"`
	ImageURL         sql.NullString `db:"image_url"`
	Score            float64        `db:"score"`
	Language         string         `db:"language"`
	CanonicalURL     sql.NullString `db:"canonical_url"`
	AIGeneratedImage bool           `db:"ai_generated_image"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func newDBArticle(a model.StoredArticle) dbArticle {
	return dbArticle{
		ID:               a.RowID,
		ExternalID:       a.ID,
		Title:            a.Title,
		Body:             a.Body,
		Summary:          a.Summary,
		Source:           a.Source,
		PublishedAt:      a.PublishedAt.UTC(),
		Region:           a.Region,
		Topics:           topicList(a.Topics),
		ImageURL:         nullString(a.ImageURL),
		Score:            a.Score,
		Language:         a.Language,
		CanonicalURL:     nullString(a.CanonicalURL),
		AIGeneratedImage: a.AIGeneratedImage,
		CreatedAt:        a.CreatedAt.UTC(),
		UpdatedAt:        a.UpdatedAt.UTC(),
	}
}

func (a dbArticle) model() model.StoredArticle {
	return model.StoredArticle{
		RowID: a.ID,
		Article: model.Article{
			ID:           a.ExternalID,
			Title:        a.Title,
			Body:         a.Body,
			Summary:      a.Summary,
			Source:       a.Source,
			PublishedAt:  a.PublishedAt.UTC(),
			Region:       a.Region,
			Topics:       []string(a.Topics),
			ImageURL:     a.ImageURL.String,
			Language:     a.Language,
			CanonicalURL: a.CanonicalURL.String,
		},
		Score:            a.Score,
		AIGeneratedImage: a.AIGeneratedImage,
		CreatedAt:        a.CreatedAt.UTC(),
		UpdatedAt:        a.UpdatedAt.UTC(),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

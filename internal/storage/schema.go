package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS articles (
	id BIGSERIAL PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	summary TEXT NOT NULL,
	source TEXT NOT NULL,
	published_at TIMESTAMPTZ NOT NULL,
	region TEXT NOT NULL,
	topics TEXT NOT NULL DEFAULT '[]',
	image_url TEXT,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	language TEXT NOT NULL DEFAULT 'en',
	canonical_url TEXT,
	ai_generated_image BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_region ON articles(region);
CREATE INDEX IF NOT EXISTS idx_articles_score ON articles(score);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	summary TEXT NOT NULL,
	source TEXT NOT NULL,
	published_at DATETIME NOT NULL,
	region TEXT NOT NULL,
	topics TEXT NOT NULL DEFAULT '[]',
	image_url TEXT,
	score REAL NOT NULL DEFAULT 0,
	language TEXT NOT NULL DEFAULT 'en',
	canonical_url TEXT,
	ai_generated_image BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_region ON articles(region);
CREATE INDEX IF NOT EXISTS idx_articles_score ON articles(score);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
`

// Migrate создает таблицы и индексы, если их еще нет.
func Migrate(ctx context.Context, db *sqlx.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == Postgres {
		schema = postgresSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}

	return nil
}

package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Диалект БД. Имя совпадает с именем database/sql драйвера
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Для sqlite это специальный dsn базы в памяти
const memoryDSN = ":memory:"

func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(driver); d {
	case Postgres, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) placeholders() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}

	return sq.Question
}

// Open открывает пул соединений и проверяет, что база отвечает.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	// Каждое новое соединение к :memory: это отдельная пустая база, поэтому держим ровно одно
	if dialect == SQLite && dsn == memoryDSN {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	return db, nil
}

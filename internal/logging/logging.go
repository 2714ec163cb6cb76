package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New создает логгер в stderr с указанным уровнем
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter создает slog логгер поверх charmbracelet/log.
// Неизвестный уровень считается info.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(level),
	})

	return slog.New(handler)
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *slog.Logger {
	return NewWithWriter(io.Discard, "error")
}

func parseLevel(value string) log.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("hidden message")
	logger.Warn("visible message", "feed", "museum")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "museum") {
		t.Errorf("expected warn line with attrs, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "nonsense")

	logger.Debug("debug line")
	logger.Info("info line")

	if strings.Contains(buf.String(), "debug line") {
		t.Errorf("unknown level should fall back to info")
	}
	if !strings.Contains(buf.String(), "info line") {
		t.Errorf("expected info line, got %q", buf.String())
	}
}

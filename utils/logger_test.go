package utils

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type recordingPoster struct {
	mu    sync.Mutex
	tags  []string
	posts []map[string]interface{}
}

func (p *recordingPoster) Post(tag string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tags = append(p.tags, tag)
	p.posts = append(p.posts, message.(map[string]interface{}))
	return nil
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOptions(LoggerOptions{Writer: &buf, Level: slog.LevelWarn, NoColor: true})

	logger.Info("[test] hidden %d", 1)
	logger.Warn("[test] shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[test] shown 2") {
		t.Errorf("warn record missing, got %q", out)
	}
}

func TestLoggerWithAddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOptions(LoggerOptions{Writer: &buf, NoColor: true}).With("component", "fetcher")

	logger.Info("hello")

	if !strings.Contains(buf.String(), "component=fetcher") {
		t.Errorf("expected component attr in %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestFluentHandlerShipsRecords(t *testing.T) {
	poster := &recordingPoster{}
	var buf bytes.Buffer
	handler := newMultiHandler(
		slog.NewTextHandler(&buf, nil),
		newFluentHandler(poster, slog.LevelInfo),
	)
	logger := slog.New(handler).With("service", "market-scout")

	logger.Debug("dropped")
	logger.Error("page failed", "page", 2)

	if len(poster.posts) != 1 {
		t.Fatalf("posts: got %d, want 1", len(poster.posts))
	}
	if poster.tags[0] != "error" {
		t.Errorf("tag: got %q, want %q", poster.tags[0], "error")
	}
	got := poster.posts[0]
	if got["message"] != "page failed" {
		t.Errorf("message: got %v", got["message"])
	}
	if got["service"] != "market-scout" {
		t.Errorf("service attr: got %v", got["service"])
	}
	if got["page"] != int64(2) {
		t.Errorf("page attr: got %v (%T)", got["page"], got["page"])
	}
	if !strings.Contains(buf.String(), "page failed") {
		t.Error("text handler should also receive the record")
	}
}

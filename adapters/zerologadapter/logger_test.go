package zerologadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	out := map[string]any{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return out
}

func TestLoggerWritesPairsAsFields(t *testing.T) {
	var buf bytes.Buffer
	lgr, err := New(Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lgr.Debug("resolved", "component", "button", "error", errors.New("boom"), "dangling")
	entry := decodeLine(t, &buf)
	if entry["message"] != "resolved" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry["component"] != "button" || entry["error"] != "boom" || entry["dangling"] != true {
		t.Fatalf("unexpected fields: %+v", entry)
	}
}

func TestLoggerFieldsAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lgr, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withFields := lgr.WithFields(map[string]any{"tenant_id": "acme"})

	withFields.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	withFields.Fatal("kept")
	entry := decodeLine(t, &buf)
	if entry["tenant_id"] != "acme" || entry["level"] != "fatal" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWithContextPrefersStoredLogger(t *testing.T) {
	var fallback, stored bytes.Buffer
	lgr := Wrap(zerolog.New(&fallback))
	ctx := zerolog.New(&stored).WithContext(context.Background())

	lgr.WithContext(ctx).Info("from context")
	if stored.Len() == 0 || fallback.Len() != 0 {
		t.Fatalf("expected context logger to be used")
	}
	lgr.WithContext(context.Background()).Info("fallback")
	if fallback.Len() == 0 {
		t.Fatalf("expected fallback logger to be used")
	}
}

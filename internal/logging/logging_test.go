package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Info("reminder sent", "appointment_id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "reminder sent" {
		t.Errorf("msg = %v, want %q", rec["msg"], "reminder sent")
	}
	if rec["appointment_id"] != float64(7) {
		t.Errorf("appointment_id = %v, want 7", rec["appointment_id"])
	}
}

func TestNewTextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered, got %q", out)
	}
	if !strings.Contains(out, "msg=shown") {
		t.Errorf("warn line missing, got %q", out)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "text").With("component", "http")

	logger.InfoContext(context.Background(), "no id")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id in %q", buf.String())
	}

	buf.Reset()
	ctx := WithRequestID(context.Background(), "req-42")
	logger.ErrorContext(ctx, "list medications", "user_id", 3)
	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") {
		t.Errorf("log %q missing request_id", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("log %q lost attrs from With", out)
	}
}

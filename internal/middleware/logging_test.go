package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rohit-1301/Health/internal/logging"
)

func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		req := httptest.NewRequest("GET", "/api/users/1/calendar", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		if !strings.Contains(out, tt.wantLevel) {
			t.Errorf("status %d: log %q missing %s", tt.status, out, tt.wantLevel)
		}
		if !strings.Contains(out, "path=/api/users/1/calendar") {
			t.Errorf("status %d: log %q missing path", tt.status, out)
		}
	}
}

func TestRequestLoggerDefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("log %q missing status=200", buf.String())
	}
}

func TestRequestLoggerRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "info", "text")

	var seen string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		id := rec.Header().Get(RequestIDHeader)
		if id == "" {
			t.Fatal("expected a generated request id header")
		}
		if seen != id {
			t.Errorf("context id = %q, header id = %q", seen, id)
		}
		if !strings.Contains(buf.String(), "request_id="+id) {
			t.Errorf("log %q missing request_id", buf.String())
		}
	})

	t.Run("propagated", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("header = %q, want abc-123", got)
		}
		if seen != "abc-123" {
			t.Errorf("context id = %q, want abc-123", seen)
		}
	})
}

func TestRequestLoggerFirstStatusWins(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !strings.Contains(buf.String(), "status=418") {
		t.Errorf("log %q missing status=418", buf.String())
	}
}

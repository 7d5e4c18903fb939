package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/minledger/internal/storage/memory"
)

// captureLogs returns a debug-level JSON logger writing into buf.
func captureLogs(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("decode log line %q: %v", ln, err)
		}
		out = append(out, m)
	}
	return out
}

func completeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	for _, m := range logLines(t, buf) {
		if m["msg"] == "request complete" {
			return m
		}
	}
	t.Fatalf("no request complete line in %s", buf.String())
	return nil
}

func TestRequestLogger_LevelsAndFields(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		level  string
		route  string
		status float64
	}{
		{"created event", http.MethodPost, "/event", `{"type":"deposit","destination":"1","amount":1}`, "INFO", "/event", 201},
		{"validation failure", http.MethodPost, "/event", `{"type":"nope"}`, "WARN", "/event", 400},
		{"account view uses pattern", http.MethodGet, "/v1/accounts/secret-id", "", "WARN", "/v1/accounts/{id}", 404},
		{"health probe", http.MethodGet, "/healthz", "", "DEBUG", "/healthz", 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := New(memory.New(), "USD", captureLogs(&buf)).Handler()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			line := completeLine(t, &buf)
			if line["level"] != tc.level || line["route"] != tc.route || line["status"] != tc.status {
				t.Fatalf("unexpected log line: %v", line)
			}
			if id, _ := line["req_id"].(string); id == "" {
				t.Fatalf("missing req_id: %v", line)
			}
			if strings.Contains(buf.String(), "secret-id") {
				t.Fatalf("raw path leaked into request log: %s", buf.String())
			}
		})
	}
}

func TestRequestLogger_EventID(t *testing.T) {
	var buf bytes.Buffer
	h := New(memory.New(), "USD", captureLogs(&buf)).Handler()
	rec := postEvent(t, h, map[string]any{"type": "deposit", "destination": "1", "amount": 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := completeLine(t, &buf)["event_id"]; got != rec.Header().Get("X-Event-ID") {
		t.Fatalf("expected event_id %q in request log, got %v", rec.Header().Get("X-Event-ID"), got)
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogs(&buf)
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if er := decodeErr(t, rec); er.Code != "internal" {
		t.Fatalf("unexpected error body: %+v", er)
	}
	var sawPanic bool
	for _, m := range logLines(t, &buf) {
		if m["msg"] == "panic" && m["err"] == "boom" && m["stack"] != "" {
			sawPanic = true
		}
	}
	if !sawPanic {
		t.Fatalf("expected panic log line, got %s", buf.String())
	}
	if line := completeLine(t, &buf); line["level"] != "ERROR" {
		t.Fatalf("expected 500 logged at ERROR, got %v", line)
	}
}

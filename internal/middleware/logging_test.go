package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/sera/internal/logger"
)

func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Setup(&buf)

	handler := NewLoggingMiddleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry["msg"] != "http_request" {
		t.Errorf("msg = %v, want %q", entry["msg"], "http_request")
	}
	if entry["method"] != "GET" {
		t.Errorf("method = %v, want GET", entry["method"])
	}
	if entry["path"] != "/api/health" {
		t.Errorf("path = %v, want /api/health", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected duration_ms in log entry")
	}
}

func TestLoggingMiddleware_ServerErrorLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Setup(&buf)

	handler := NewLoggingMiddleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/capture/text", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
}

func TestStatusRecorder_DefaultsTo200OnWrite(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Setup(&buf)

	handler := NewLoggingMiddleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WriteHeaderを呼ばずにWriteのみ
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
}

// hijackableRecorder はHijackをサポートするResponseRecorder。
type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	server, client := net.Pipe()
	client.Close()
	return server, bufio.NewReadWriter(bufio.NewReader(server), bufio.NewWriter(server)), nil
}

func TestLoggingMiddleware_PreservesHijacker(t *testing.T) {
	// WebSocketアップグレードはラップ後のResponseWriterが
	// http.Hijackerを実装していることを要求する。
	var buf bytes.Buffer
	l := logger.Setup(&buf)

	handler := NewLoggingMiddleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("wrapped response writer does not implement http.Hijacker")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("Hijack() error = %v", err)
		}
		conn.Close()
	}))

	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	req := httptest.NewRequest(http.MethodGet, "/ws/user-123", nil)
	handler.ServeHTTP(rec, req)

	if !rec.hijacked {
		t.Error("expected Hijack to be delegated to the underlying writer")
	}

	// ハイジャックされたリクエストは101として記録される
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["status"] != float64(101) {
		t.Errorf("status = %v, want 101", entry["status"])
	}
}

func TestLoggingMiddleware_HijackWithoutSupport_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Setup(&buf)

	handler := NewLoggingMiddleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("wrapped response writer does not implement http.Hijacker")
		}
		if _, _, err := hj.Hijack(); err == nil {
			t.Error("expected error when underlying writer does not support hijacking")
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	// httptest.ResponseRecorderはHijackerを実装しない
	req := httptest.NewRequest(http.MethodGet, "/ws/user-123", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

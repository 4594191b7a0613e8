// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/config"
)

var fixedNow = time.UnixMilli(1700000000000)

func newTestServer(t *testing.T, store history.Store) *Server {
	t.Helper()
	if store == nil {
		store = history.NewMemStore(0)
	}
	s := New(store, qr.DefaultOptions(), zerolog.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("error body %q: %v", w.Body.String(), err)
	}
	return e
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantType string
		magic    string
	}{
		{"png", "GET", "/api/qr?text=HELLO+WORLD", "", "image/png", "\x89PNG"},
		{"jpeg", "GET", "/api/qr?text=hello&format=jpeg&quality=80", "", "image/jpeg", "\xff\xd8"},
		{"jpg ext", "GET", "/api/qr?text=hello&format=jpg", "", "image/jpeg", "\xff\xd8"},
		{"pbm", "GET", "/api/qr?text=hello&format=pbm&margin=0", "", "image/x-portable-bitmap", "P4\n"},
		{"options", "GET", "/api/qr?text=12345&level=h&width=100&dark=%23000&light=white&latin1=1", "", "image/png", "\x89PNG"},
		{"post", "POST", "/api/qr", `{"text":"HELLO","format":"jpeg","width":200}`, "image/jpeg", "\xff\xd8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			s := newTestServer(t, nil)
			w := do(t, s, tt.method, tt.target, body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
			}
			if got := w.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if got := w.Header().Get("Content-Disposition"); got != "" {
				t.Errorf("Content-Disposition = %q, want none", got)
			}
			if !bytes.HasPrefix(w.Body.Bytes(), []byte(tt.magic)) {
				t.Errorf("body starts with %q, want %q", w.Body.Bytes()[:min(4, w.Body.Len())], tt.magic)
			}
			rec, err := s.store.List(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(rec) != 1 || !bytes.Equal(rec[0].Image, w.Body.Bytes()) {
				t.Errorf("history has %d records, want the generated image", len(rec))
			}
		})
	}
}

func TestGenerateDownload(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, "GET", "/api/qr?text=hi&download=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	want := "attachment; filename=qrcode-1700000000000.png"
	if got := w.Header().Get("Content-Disposition"); got != want {
		t.Errorf("Content-Disposition = %q, want %q", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	long := strings.Repeat("a", 1300)
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"no text", "GET", "/api/qr", "", 400, ErrCodeInvalidInput},
		{"bad level", "GET", "/api/qr?text=a&level=X", "", 400, ErrCodeInvalidInput},
		{"bad width", "GET", "/api/qr?text=a&width=wide", "", 400, ErrCodeInvalidInput},
		{"zero width", "GET", "/api/qr?text=a&width=0", "", 400, ErrCodeInvalidInput},
		{"negative margin", "GET", "/api/qr?text=a&margin=-1", "", 400, ErrCodeInvalidInput},
		{"huge width", "GET", "/api/qr?text=A&width=1099511627776", "", 400, ErrCodeInvalidInput},
		{"wide", "GET", "/api/qr?text=A&width=16385", "", 400, ErrCodeInvalidInput},
		{"huge margin", "GET", "/api/qr?text=A&margin=100000", "", 400, ErrCodeInvalidInput},
		{"huge width pbm", "GET", "/api/qr?text=A&format=pbm&width=1099511627776", "", 400, ErrCodeInvalidInput},
		{"huge width post", "POST", "/api/qr", `{"text":"A","width":1099511627776}`, 400, ErrCodeInvalidInput},
		{"bad colour", "GET", "/api/qr?text=a&dark=purple", "", 400, ErrCodeInvalidInput},
		{"bad format", "GET", "/api/qr?text=a&format=gif", "", 400, ErrCodeInvalidInput},
		{"bad quality", "GET", "/api/qr?text=a&format=jpeg&quality=101", "", 400, ErrCodeInvalidInput},
		{"bad download", "GET", "/api/qr?text=a&download=maybe", "", 400, ErrCodeInvalidInput},
		{"too long", "GET", "/api/qr?level=H&text=" + long, "", 413, ErrCodeDataTooLong},
		{"bad json", "POST", "/api/qr", `{"text":`, 400, ErrCodeInvalidInput},
		{"unknown field", "POST", "/api/qr", `{"txt":"a"}`, 400, ErrCodeInvalidInput},
		{"unknown route", "GET", "/api/nope", "", 404, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			s := newTestServer(t, nil)
			w := do(t, s, tt.method, tt.target, body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %q", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := w.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			e := decodeError(t, w)
			if e.Code != tt.wantCode || e.Error != http.StatusText(tt.wantStatus) || e.Message == "" {
				t.Errorf("error body = %+v", e)
			}
			rec, _ := s.store.List(context.Background())
			if len(rec) != 0 {
				t.Errorf("history has %d records after failure", len(rec))
			}
		})
	}
}

func listHistory(t *testing.T, s *Server) []historyItem {
	t.Helper()
	w := do(t, s, "GET", "/api/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var items []historyItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("list body %q: %v", w.Body.String(), err)
	}
	return items
}

func TestHistory(t *testing.T) {
	s := newTestServer(t, nil)
	if w := do(t, s, "GET", "/api/history", nil); strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty history = %q, want []", w.Body.String())
	}

	for _, target := range []string{
		"/api/qr?text=one",
		"/api/qr?text=two&format=jpeg",
		"/api/qr?text=one&format=pbm",
	} {
		if w := do(t, s, "GET", target, nil); w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", target, w.Code)
		}
	}

	items := listHistory(t, s)
	var texts, formats []string
	for _, it := range items {
		texts = append(texts, it.Text)
		formats = append(formats, it.Format)
		if it.ID == "" || it.Timestamp == 0 {
			t.Errorf("item %+v lacks id or timestamp", it)
		}
	}
	if diff := cmp.Diff([]string{"one", "two"}, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pbm", "jpeg"}, formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(items[0].DataURL, "data:image/x-portable-bitmap;base64,") ||
		!strings.HasPrefix(items[1].DataURL, "data:image/jpeg;base64,") {
		t.Errorf("data URLs %.40q, %.40q", items[0].DataURL, items[1].DataURL)
	}

	if w := do(t, s, "DELETE", "/api/history/"+items[1].ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("remove status = %d", w.Code)
	}
	w := do(t, s, "DELETE", "/api/history/"+items[1].ID, nil)
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != ErrCodeNotFound {
		t.Errorf("second remove: status %d, body %q", w.Code, w.Body.String())
	}
	if got := listHistory(t, s); len(got) != 1 || got[0].Text != "one" {
		t.Errorf("after remove: %+v", got)
	}

	if w := do(t, s, "DELETE", "/api/history", nil); w.Code != http.StatusNoContent {
		t.Errorf("clear status = %d", w.Code)
	}
	if got := listHistory(t, s); len(got) != 0 {
		t.Errorf("after clear: %+v", got)
	}
}

// brokenStore fails every operation.
type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) Add(context.Context, string, []byte, string) (history.Record, error) {
	return history.Record{}, errBroken
}
func (brokenStore) List(context.Context) ([]history.Record, error) { return nil, errBroken }
func (brokenStore) Remove(context.Context, string) error           { return errBroken }
func (brokenStore) Clear(context.Context) error                    { return errBroken }
func (brokenStore) Close() error                                   { return nil }

func TestStoreFailure(t *testing.T) {
	s := newTestServer(t, brokenStore{})

	// Generation succeeds without history.
	if w := do(t, s, "GET", "/api/qr?text=a", nil); w.Code != http.StatusOK {
		t.Errorf("generate status = %d", w.Code)
	}
	for _, tt := range []struct{ method, target string }{
		{"GET", "/api/history"},
		{"DELETE", "/api/history"},
		{"DELETE", "/api/history/x"},
	} {
		w := do(t, s, tt.method, tt.target, nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: status %d", tt.method, tt.target, w.Code)
			continue
		}
		e := decodeError(t, w)
		if e.Code != ErrCodeInternal || strings.Contains(e.Message, "fire") {
			t.Errorf("%s %s: body %+v", tt.method, tt.target, e)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, "GET", "/healthz", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Errorf("healthz: %d %q", w.Code, w.Body.String())
	}

	do(t, s, "GET", "/api/qr?text=a&level=Q", nil)
	do(t, s, "GET", "/api/qr?text=", nil)
	w = do(t, s, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`qr_generated_total{format="png",level="Q"} 1`,
		`qr_generate_failures_total{code="INVALID_INPUT"} 1`,
		`qr_http_request_duration_seconds_count{method="GET",route="/api/qr",status_code="200"} 1`,
		`qr_http_request_duration_seconds_count{method="GET",route="/api/qr",status_code="400"} 1`,
		`qr_http_request_duration_seconds_count{method="GET",route="/healthz",status_code="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics lack %q", want)
		}
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(ctx, ln, config.ServerConfig{ShutdownTimeout: time.Second})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(endpoint, "test-key", "gpt-4o-mini", "2024-02-01", 50000)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	if _, err := NewClient("", "key", "dep", "v", 0); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
	if _, err := NewClient("https://x", "", "dep", "v", 0); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("https://x", "key", "", "v", 0); err == nil {
		t.Fatal("expected error for missing deployment")
	}
}

func TestStructuredJSONEmptyTextSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty text")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.StructuredJSON(context.Background(), "   ")
	if err != nil {
		t.Fatalf("StructuredJSON: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestStructuredJSONParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "test-key" {
			t.Errorf("missing api-key header")
		}
		if !strings.Contains(r.URL.String(), "/openai/deployments/gpt-4o-mini/chat/completions?api-version=2024-02-01") {
			t.Errorf("unexpected url: %s", r.URL.String())
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		msgs, _ := req["messages"].([]any)
		if len(msgs) != 2 {
			t.Errorf("expected 2 messages, got %d", len(msgs))
		}
		user, _ := msgs[1].(map[string]any)
		content, _ := user["content"].(string)
		if !strings.Contains(content, "----RESUME----") || !strings.Contains(content, "total_years_experience") {
			t.Errorf("instruction missing schema or delimiters: %s", content)
		}

		resp := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{
					"role":    "assistant",
					"content": "Sure! Here you go: {\"name\":\"Jane\"} hope that helps",
				}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.StructuredJSON(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("StructuredJSON: %v", err)
	}
	if got != `{"name":"Jane"}` {
		t.Fatalf("got %q", got)
	}
}

func TestStructuredJSONChoiceTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"text":"{\"name\":\"Ray\"}"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.StructuredJSON(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("StructuredJSON: %v", err)
	}
	if got != `{"name":"Ray"}` {
		t.Fatalf("got %q", got)
	}
}

func TestStructuredJSONRawBodyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`proxied reply {"name":"Kim","skills":["sql"]} end`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.StructuredJSON(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("StructuredJSON: %v", err)
	}
	if got != `{"name":"Kim","skills":["sql"]}` {
		t.Fatalf("got %q", got)
	}
}

func TestStructuredJSONNoJSONIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"I could not parse that resume."}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.StructuredJSON(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("StructuredJSON: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestStructuredJSONRetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"name\":\"Lee\"}"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.StructuredJSON(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("StructuredJSON: %v", err)
	}
	if got != `{"name":"Lee"}` {
		t.Fatalf("got %q", got)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestStructuredJSONThrottlingExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.StructuredJSON(context.Background(), "resume text")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "busy") {
		t.Fatalf("error should name status and body: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestStructuredJSONTerminalStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad payload"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.StructuredJSON(context.Background(), "resume text")
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Fatalf("error should include status: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("terminal status must not retry, got %d calls", n)
	}
}

func TestStructuredJSONCancellationWinsOverRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	c := newTestClient(t, srv.URL)
	go func() {
		_, err := c.StructuredJSON(ctx, "resume text")
		done <- err
	}()

	// Give the first attempt time to hit the server, then cancel mid-backoff.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation did not interrupt the retry wait")
	}
}

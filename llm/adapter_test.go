package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/httpclient"
)

const testKey = "sk-test-secret"

type mockDialect struct{}

func (mockDialect) Name() string                           { return "mock" }
func (mockDialect) ChatPath() string                       { return "/chat" }
func (mockDialect) Auth(key string) *httpclient.AuthConfig { return httpclient.BearerAuth(key) }
func (mockDialect) Headers() map[string]string             { return map[string]string{"X-Vendor": "1"} }
func (mockDialect) ErrorMessage(body []byte) string        { return ErrorMessageFromJSON(body) }
func (mockDialect) BuildRequest(req CompletionRequest) (any, error) {
	return map[string]any{"model": req.Model, "messages": ChatMessages(req), "max_tokens": req.MaxTokens}, nil
}

func (mockDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	var raw struct {
		Content string `json:"content"`
		Model   string `json:"model"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &CompletionResponse{Content: raw.Content, Model: raw.Model}, nil
}

func newTestAdapter(t *testing.T, url, key string) *Adapter {
	t.Helper()
	a, err := NewAdapter(mockDialect{}, Config{BaseURL: url, APIKey: key, Model: "m-1", MaxTokens: 100})
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	return a
}

func TestAdapter_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testKey {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Vendor") != "1" {
			t.Error("vendor header missing")
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "focusgroup/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		if req["model"] != "m-1" || req["max_tokens"] != float64(100) {
			t.Errorf("defaults not applied: %v", req)
		}
		_, _ = w.Write([]byte(`{"content":"Moderator: hello","model":"m-1"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, testKey)
	resp, err := a.Execute(context.Background(), UserPrompt("hi", "", 0, 0.5))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Content != "Moderator: hello" {
		t.Errorf("Content = %q", resp.Content)
	}
	if !a.IsAvailable(context.Background()) || a.Name() != "mock" {
		t.Error("unexpected identity")
	}
}

func TestAdapter_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.ErrorCode
	}{
		{"unauthorized", 401, `{"error":{"message":"Incorrect API key provided: sk-test-secret"}}`, errors.ErrCodeUnauthorized},
		{"forbidden", 403, `{"message":"forbidden"}`, errors.ErrCodeUnauthorized},
		{"rate limited", 429, `{"error":{"message":"slow down"}}`, errors.ErrCodeRateLimited},
		{"server error", 500, `{"error":"overloaded"}`, errors.ErrCodeExternalService},
		{"bad request", 400, `not json`, errors.ErrCodeExternalService},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL, testKey).Execute(context.Background(), UserPrompt("hi", "", 0, 0))
			if !errors.IsCode(err, tc.code) {
				t.Fatalf("got %v, want %s", err, tc.code)
			}
			if hits.Load() != 1 {
				t.Errorf("expected exactly one request, got %d", hits.Load())
			}
			appErr, _ := errors.AsAppError(err)
			for k, v := range appErr.Details {
				if s, ok := v.(string); ok && strings.Contains(s, testKey) {
					t.Errorf("detail %s leaks the credential: %q", k, s)
				}
			}
			if strings.Contains(err.Error(), testKey) {
				t.Errorf("error leaks the credential: %v", err)
			}
		})
	}
}

func TestAdapter_UpstreamCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL, testKey).Execute(context.Background(), UserPrompt("hi", "", 0, 0))
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Details["status"] != 503 || appErr.Details["message"] != "model overloaded" {
		t.Fatalf("unexpected error: %v (%v)", err, appErr)
	}
}

func TestAdapter_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestAdapter(t, srv.URL, testKey).Execute(ctx, UserPrompt("hi", "", 0, 0))
	if !errors.IsCode(err, errors.ErrCodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestAdapter_MissingCredentialMakesNoCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "")
	_, err := a.Execute(context.Background(), UserPrompt("hi", "", 0, 0))
	if !errors.IsCode(err, errors.ErrCodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if hits.Load() != 0 || a.IsAvailable(context.Background()) {
		t.Error("no request expected without a credential")
	}
}

func TestAdapter_ConnectionFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAdapter(t, url, testKey).Execute(context.Background(), UserPrompt("hi", "", 0, 0))
	if !errors.IsCode(err, errors.ErrCodeConnectionFailed) {
		t.Fatalf("expected CONNECTION_FAILED, got %v", err)
	}
}

func TestAdapter_UnreadableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["not","an","object"]`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL, testKey).Execute(context.Background(), UserPrompt("hi", "", 0, 0))
	if !errors.IsCode(err, errors.ErrCodeExternalService) {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
	}
}

func TestErrorMessageFromJSON(t *testing.T) {
	tests := map[string]string{
		`{"error":{"message":"nested"}}`: "nested",
		`{"error":"flat"}`:               "flat",
		`{"message":"top"}`:              "top",
		`{"type":"error"}`:               "",
		`<html>`:                         "",
	}
	for body, want := range tests {
		if got := ErrorMessageFromJSON([]byte(body)); got != want {
			t.Errorf("ErrorMessageFromJSON(%s) = %q, want %q", body, got, want)
		}
	}
}

func TestChatMessages(t *testing.T) {
	msgs := ChatMessages(CompletionRequest{SystemPrompt: "sys", Messages: []Message{{Role: "user", Content: "u"}}})
	if len(msgs) != 2 || msgs[0].Role != "system" || msgs[1].Content != "u" {
		t.Errorf("unexpected messages: %v", msgs)
	}
	if got := ChatMessages(UserPrompt("p", "", 0, 0)); len(got) != 1 {
		t.Errorf("unexpected messages without system prompt: %v", got)
	}
}

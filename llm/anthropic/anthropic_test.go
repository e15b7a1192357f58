package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/llm"
)

func TestDialect_BuildRequest(t *testing.T) {
	body, err := Dialect{}.BuildRequest(llm.CompletionRequest{
		Model:        "claude-3-5-sonnet-latest",
		SystemPrompt: "sys",
		Messages:     []llm.Message{{Role: "user", Content: "hi"}},
		Temperature:  1.4,
	})
	if err != nil {
		t.Fatal(err)
	}
	req := body.(messagesRequest)
	if req.MaxTokens != defaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", req.MaxTokens, defaultMaxTokens)
	}
	if req.Temperature != 1.0 {
		t.Errorf("Temperature = %v, want clamp to 1.0", req.Temperature)
	}
	if req.System != "sys" || len(req.Messages) != 1 {
		t.Errorf("system prompt must be top-level: %+v", req)
	}
}

func TestDialect_ParseResponse(t *testing.T) {
	resp, err := Dialect{}.ParseResponse([]byte(`{"model":"claude","content":[{"type":"text","text":"Moderator: "},{"type":"text","text":"hello"}],"usage":{"input_tokens":5,"output_tokens":6}}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "Moderator: hello" || resp.Usage.TotalTokens != 11 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if _, err := (Dialect{}).ParseResponse([]byte(`{"content":[]}`)); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestNew_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "ak-1" || r.Header.Get("anthropic-version") != APIVersion {
			t.Errorf("missing vendor headers: %v", r.Header)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("bearer auth must not be sent")
		}
		raw, _ := io.ReadAll(r.Body)
		var req messagesRequest
		_ = json.Unmarshal(raw, &req)
		if req.MaxTokens != 300 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		_, _ = w.Write([]byte(`{"model":"claude","content":[{"type":"text","text":"ok"}]}`))
	}))
	defer srv.Close()

	a, err := New(llm.Config{BaseURL: srv.URL, APIKey: "ak-1", Model: "claude-3-5-sonnet-latest"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := a.Execute(context.Background(), llm.UserPrompt("hi", "", 300, 0.8))
	if err != nil || resp.Content != "ok" {
		t.Fatalf("Execute = %+v, %v", resp, err)
	}
}

func TestNew_Overloaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer srv.Close()

	a, _ := New(llm.Config{BaseURL: srv.URL, APIKey: "ak-1", Model: "claude"})
	_, err := a.Execute(context.Background(), llm.UserPrompt("hi", "", 0, 0))
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeExternalService || appErr.Details["message"] != "Overloaded" {
		t.Fatalf("unexpected error: %v", err)
	}
}

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/focusgroup/httpclient"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func TestPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var m message
		_ = json.NewDecoder(r.Body).Decode(&m)
		m.Role = "assistant"
		_ = json.NewEncoder(w).Encode(m)
	}))
	defer srv.Close()

	c, err := New(httpclient.Config{BaseURL: srv.URL, Auth: httpclient.BearerAuth("sk-test")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := Post[message](context.Background(), c, "/chat", message{Role: "user", Content: "hi"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Data.Role != "assistant" || resp.Data.Content != "hi" {
		t.Errorf("unexpected data %+v", resp.Data)
	}
}

func TestPost_ErrorBodyDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"role":"error","content":"invalid x-api-key"}`))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	resp, err := Post[message](context.Background(), c, "/", nil)
	if !httpclient.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if resp == nil || resp.Data.Content != "invalid x-api-key" || resp.StatusCode != 401 {
		t.Errorf("error body not decoded: %+v", resp)
	}
	if httpclient.IsRateLimit(err) || httpclient.IsTimeout(err) {
		t.Error("wrong classification")
	}
}

func TestPost_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL, Name: "vendor"})
	if c.Name() != "vendor" || c.HTTP() == nil {
		t.Errorf("accessors: %q", c.Name())
	}
	if _, err := Post[message](context.Background(), c, "/", nil); err == nil {
		t.Error("expected decode error")
	}
}

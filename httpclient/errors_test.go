package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status  int
		wantNil bool
		code    ErrorCode
		retry   bool
	}{
		{200, true, 0, false},
		{204, true, 0, false},
		{400, false, ErrCodeValidation, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{529, false, ErrCodeServer, true},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			err := ClassifyStatusCode(tc.status, []byte("body"))
			if tc.wantNil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != tc.code || err.Retryable != tc.retry || err.StatusCode != tc.status {
				t.Errorf("got code=%s retry=%v status=%d", err.Code, err.Retryable, err.StatusCode)
			}
			if string(err.Body) != "body" {
				t.Errorf("body not kept: %q", err.Body)
			}
		})
	}
}

type fakeNetErr struct{ timeout bool }

func (e fakeNetErr) Error() string   { return "net" }
func (e fakeNetErr) Timeout() bool   { return e.timeout }
func (e fakeNetErr) Temporary() bool { return false }

func TestClassifyTransportError(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want ErrorCode
	}{
		{"deadline", context.Background(), fmt.Errorf("do: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"net timeout", context.Background(), fakeNetErr{timeout: true}, ErrCodeTimeout},
		{"canceled", canceled, context.Canceled, ErrCodeCanceled},
		{"refused", context.Background(), errors.New("connection refused"), ErrCodeConnection},
		{"net non-timeout", context.Background(), fakeNetErr{}, ErrCodeConnection},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyTransportError(tc.ctx, tc.err); got.Code != tc.want {
				t.Errorf("code = %s, want %s", got.Code, tc.want)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	wrapped := fmt.Errorf("call: %w", ClassifyStatusCode(401, nil))
	if !IsAuth(wrapped) || IsRateLimit(wrapped) || IsTimeout(wrapped) {
		t.Error("predicates should see through wrapping")
	}
	if e, ok := AsError(wrapped); !ok || e.StatusCode != 401 {
		t.Errorf("AsError = %v, %v", e, ok)
	}
	if IsConnection(errors.New("plain")) {
		t.Error("plain error is not a connection error")
	}
	if got := (&Error{Code: ErrCodeConnection, Message: "refused"}).Error(); got != "httpclient: connection: refused" {
		t.Errorf("Error() = %q", got)
	}
	if ErrorCode(99).String() != "unknown" {
		t.Error("unknown code string")
	}
}

package llm

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/httpclient"
	"github.com/kbukum/focusgroup/util"
)

// classify maps a transport or status error to the shared AppError kinds.
// Only the redacted vendor message is kept; the raw cause is dropped since
// transport errors may echo request URLs and headers.
func classify(ctx context.Context, name string, err error, extract func([]byte) string, apiKey string) error {
	herr, ok := httpclient.AsError(err)
	if !ok {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Timeout(name)
		}
		return errors.ConnectionFailed(name).WithDetail("reason", redact(err.Error(), apiKey))
	}

	var vendorMessage string
	if len(herr.Body) > 0 {
		vendorMessage = redact(extract(herr.Body), apiKey)
	}

	switch herr.Code {
	case httpclient.ErrCodeTimeout:
		return errors.Timeout(name)
	case httpclient.ErrCodeCanceled:
		return errors.Internal(ctx.Err())
	case httpclient.ErrCodeConnection:
		return errors.ConnectionFailed(name).WithDetail("reason", redact(herr.Message, apiKey))
	case httpclient.ErrCodeAuth:
		return Unauthorized(name, herr.StatusCode, vendorMessage)
	case httpclient.ErrCodeRateLimit:
		return RateLimited(name, vendorMessage)
	default:
		if vendorMessage == "" {
			vendorMessage = herr.Message
		}
		return errors.Upstream(name, herr.StatusCode, vendorMessage)
	}
}

// Unauthorized reports a rejected credential with the vendor status.
func Unauthorized(name string, status int, vendorMessage string) *errors.AppError {
	e := errors.Unauthorized(name, "credential rejected").WithDetail("status", status)
	if vendorMessage != "" {
		e.WithDetail("message", vendorMessage)
	}
	return e
}

// RateLimited reports vendor throttling.
func RateLimited(name, vendorMessage string) *errors.AppError {
	e := errors.RateLimited(name)
	if vendorMessage != "" {
		e.WithDetail("message", vendorMessage)
	}
	return e
}

func redact(s, apiKey string) string {
	return util.RedactSecrets(s, apiKey)
}

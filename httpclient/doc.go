// Package httpclient provides the HTTP client used by provider adapters:
// base URL resolution, auth, default headers, per-attempt timeouts, request
// pacing and reconnect-only retry. Failures come back as *Error values
// classified by transport condition or status code.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:        "openai",
//	    BaseURL:     "https://api.openai.com",
//	    Auth:        httpclient.BearerAuth(key),
//	    Retry:       httpclient.ReconnectRetry(),
//	    RateLimiter: &limiterCfg,
//	})
//
// The rest subpackage adds typed JSON helpers on top.
package httpclient

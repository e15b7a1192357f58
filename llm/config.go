package llm

import (
	"time"

	"github.com/kbukum/focusgroup/httpclient"
	"github.com/kbukum/focusgroup/resilience"
	"github.com/kbukum/focusgroup/version"
)

const defaultTimeout = 120 * time.Second

// Config holds configuration for one completion backend.
type Config struct {
	// Name identifies the backend. Defaults to the dialect name.
	Name string

	// BaseURL is the vendor API base URL. Empty uses the catalog default.
	BaseURL string

	// APIKey is the vendor credential. It is never logged or echoed in errors.
	APIKey string

	// Model is the default model.
	Model string

	// Temperature is the default sampling temperature.
	Temperature float64

	// MaxTokens is the default output cap. 0 means vendor default.
	MaxTokens int

	// Timeout bounds a single HTTP attempt. Defaults to 120s; callers
	// normally bound each call with a shorter context deadline.
	Timeout time.Duration

	// RequestsPerMinute sizes the client-side limiter. 0 disables pacing.
	RequestsPerMinute int
}

func (c *Config) applyDefaults(name string) {
	if c.Name == "" {
		c.Name = name
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.BaseURL == "" {
		if entry, ok := Lookup(name); ok {
			c.BaseURL = entry.BaseURL
		}
	}
}

// httpConfig builds the transport config: only connection failures are
// retried, and requests are paced to the vendor's published rate.
func (c *Config) httpConfig(d Dialect) httpclient.Config {
	headers := map[string]string{"User-Agent": version.UserAgent("focusgroup")}
	for k, v := range d.Headers() {
		headers[k] = v
	}
	cfg := httpclient.Config{
		Name:    c.Name,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
		Headers: headers,
		Retry:   httpclient.ReconnectRetry(),
	}
	if c.APIKey != "" {
		cfg.Auth = d.Auth(c.APIKey)
	}
	if c.RequestsPerMinute > 0 {
		rl := resilience.PerMinute(c.Name, c.RequestsPerMinute)
		cfg.RateLimiter = &rl
	}
	return cfg
}

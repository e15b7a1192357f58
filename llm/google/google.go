// Package google provides the Gemini backend over the google.golang.org/genai SDK.
package google

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/llm"
	"github.com/kbukum/focusgroup/resilience"
	"github.com/kbukum/focusgroup/util"
	"github.com/kbukum/focusgroup/version"
)

// ProviderName is the provider identifier.
const ProviderName = "google"

// Client is a Gemini completion backend.
type Client struct {
	client  *genai.Client
	apiKey  string
	model   string
	limiter *resilience.RateLimiter
}

var _ llm.Backend = (*Client)(nil)

// New creates a Gemini backend. With an empty API key no SDK client is
// built and every call fails with UNAUTHORIZED.
func New(ctx context.Context, cfg llm.Config) (*Client, error) {
	c := &Client{apiKey: cfg.APIKey, model: cfg.Model}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = resilience.NewRateLimiter(resilience.PerMinute(ProviderName, cfg.RequestsPerMinute))
	}
	if cfg.APIKey == "" {
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Headers: http.Header{"User-Agent": []string{version.UserAgent("focusgroup")}},
		},
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.Unauthorized(ProviderName, util.RedactSecrets(err.Error(), cfg.APIKey))
	}
	c.client = client
	return c, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return ProviderName }

// IsAvailable reports whether a credential is present.
func (c *Client) IsAvailable(context.Context) bool { return c.client != nil }

// Execute calls Models.GenerateContent and concatenates the text parts of
// the first candidate.
func (c *Client) Execute(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	if c.client == nil {
		return llm.CompletionResponse{}, errors.Unauthorized(ProviderName, "")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return llm.CompletionResponse{}, c.classify(ctx, err)
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	result, err := c.client.Models.GenerateContent(ctx, model, contents(req.Messages), generateConfig(req))
	if err != nil {
		return llm.CompletionResponse{}, c.classify(ctx, err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return llm.CompletionResponse{}, errors.Upstream(ProviderName, http.StatusOK, "empty response")
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	resp := llm.CompletionResponse{Content: text.String(), Model: model}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

func contents(msgs []llm.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	return out
}

func generateConfig(req llm.CompletionRequest) *genai.GenerateContentConfig {
	temp := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}
	return cfg
}

// classify maps SDK errors onto the shared kinds. Gemini reports an invalid
// key as 400 INVALID_ARGUMENT and quota exhaustion as RESOURCE_EXHAUSTED.
func (c *Client) classify(ctx context.Context, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Timeout(ProviderName)
	}
	if stderrors.Is(err, context.Canceled) {
		return errors.Internal(ctx.Err())
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return errors.ConnectionFailed(ProviderName).WithDetail("reason", util.RedactSecrets(err.Error(), c.apiKey))
	}
	msg := util.RedactSecrets(apiErr.Message, c.apiKey)
	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden || isInvalidKey(apiErr):
		return llm.Unauthorized(ProviderName, apiErr.Code, msg)
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		return llm.RateLimited(ProviderName, msg)
	default:
		return errors.Upstream(ProviderName, apiErr.Code, msg)
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if stderrors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if stderrors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}

func isInvalidKey(e genai.APIError) bool {
	if e.Code != http.StatusBadRequest {
		return false
	}
	return strings.Contains(e.Message, "API_KEY_INVALID") || strings.Contains(strings.ToLower(e.Message), "api key not valid")
}

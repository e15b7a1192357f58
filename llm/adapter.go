package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/httpclient/rest"
	"github.com/kbukum/focusgroup/provider"
)

// Backend is a completion backend: an HTTP Adapter, the Gemini client, or a
// middleware chain around either.
type Backend = provider.RequestResponse[CompletionRequest, CompletionResponse]

var _ Backend = (*Adapter)(nil)

// Adapter is a config-driven completion client that speaks one vendor's
// HTTP API through a Dialect over the shared REST client.
type Adapter struct {
	rest      *rest.Client
	dialect   Dialect
	apiKey    string
	model     string
	temp      float64
	maxTokens int
}

// NewAdapter creates an adapter for dialect.
func NewAdapter(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, fmt.Errorf("llm: dialect is required")
	}
	cfg.applyDefaults(dialect.Name())

	client, err := rest.New(cfg.httpConfig(dialect))
	if err != nil {
		return nil, fmt.Errorf("llm: create rest client: %w", err)
	}
	return &Adapter{
		rest:      client,
		dialect:   dialect,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return a.dialect.Name() }

// IsAvailable reports whether a credential is present. It does not call the vendor.
func (a *Adapter) IsAvailable(context.Context) bool { return a.apiKey != "" }

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// Execute sends a completion request and returns the full response. Errors
// are AppErrors with the credential scrubbed from every message.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if a.apiKey == "" {
		return CompletionResponse{}, errors.Unauthorized(a.Name(), "")
	}
	a.applyDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, errors.InvalidInput("request", err.Error())
	}

	resp, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.ChatPath(), body)
	if err != nil {
		return CompletionResponse{}, classify(ctx, a.Name(), err, a.dialect.ErrorMessage, a.apiKey)
	}

	result, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return CompletionResponse{}, errors.Upstream(a.Name(), resp.StatusCode, "unreadable response: "+redact(err.Error(), a.apiKey))
	}
	return *result, nil
}

func (a *Adapter) applyDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}

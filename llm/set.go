package llm

import (
	"context"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/observability"
	"github.com/kbukum/focusgroup/provider"
)

// TextGenerator is the uniform generation contract every provider meets.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, model string, maxOutputTokens int, temperature float64) (string, error)
	IsConfigured() bool
}

// ProviderAdapter binds a provider ID to its credential state, default model
// and completion backend. It is immutable once built.
type ProviderAdapter struct {
	id           string
	defaultModel string
	configured   bool
	backend      Backend
}

var _ TextGenerator = (*ProviderAdapter)(nil)

// AdapterOption configures a ProviderAdapter.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	log         *logger.Logger
	serviceName string
	metrics     *observability.Metrics
}

// WithLogger logs every backend call.
func WithLogger(log *logger.Logger) AdapterOption {
	return func(o *adapterOptions) { o.log = log }
}

// WithTracing opens a span per backend call.
func WithTracing(serviceName string) AdapterOption {
	return func(o *adapterOptions) { o.serviceName = serviceName }
}

// WithMetrics records call counts, durations and error codes.
func WithMetrics(m *observability.Metrics) AdapterOption {
	return func(o *adapterOptions) { o.metrics = m }
}

// NewProviderAdapter wraps backend for provider id. configured must be true
// only when a credential is present.
func NewProviderAdapter(id, defaultModel string, configured bool, backend Backend, opts ...AdapterOption) *ProviderAdapter {
	var o adapterOptions
	for _, opt := range opts {
		opt(&o)
	}

	type mw = provider.Middleware[CompletionRequest, CompletionResponse]
	var logging, tracing, metrics mw
	if o.log != nil {
		logging = provider.WithLogging[CompletionRequest, CompletionResponse](o.log.WithComponent("llm." + id))
	}
	if o.serviceName != "" {
		tracing = provider.WithTracing[CompletionRequest, CompletionResponse](o.serviceName)
	}
	if o.metrics != nil {
		metrics = provider.WithMetrics[CompletionRequest, CompletionResponse](o.metrics)
	}

	if defaultModel == "" {
		if entry, ok := Lookup(id); ok {
			defaultModel = entry.DefaultModel
		}
	}
	return &ProviderAdapter{
		id:           id,
		defaultModel: defaultModel,
		configured:   configured,
		backend:      provider.Chain(logging, tracing, metrics)(backend),
	}
}

// Name returns the provider ID.
func (p *ProviderAdapter) Name() string { return p.id }

// IsAvailable reports whether the provider can serve requests.
func (p *ProviderAdapter) IsAvailable(context.Context) bool { return p.configured }

// IsConfigured reports whether a credential is present.
func (p *ProviderAdapter) IsConfigured() bool { return p.configured }

// DefaultModel returns the model used when a call names none.
func (p *ProviderAdapter) DefaultModel() string { return p.defaultModel }

// Generate sends prompt as a single user turn and returns the generated text.
// A missing credential fails with UNAUTHORIZED before any network call.
func (p *ProviderAdapter) Generate(ctx context.Context, prompt, model string, maxOutputTokens int, temperature float64) (string, error) {
	if !p.configured {
		return "", errors.Unauthorized(p.id, "")
	}
	if model == "" {
		model = p.defaultModel
	}
	resp, err := p.backend.Execute(ctx, UserPrompt(prompt, model, maxOutputTokens, temperature))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Set is the read-only collection of provider adapters built at startup.
type Set struct {
	registry *provider.Registry[*ProviderAdapter]
}

// NewSet builds a Set from adapters. Later duplicates replace earlier ones.
func NewSet(adapters ...*ProviderAdapter) *Set {
	r := provider.NewRegistry[*ProviderAdapter]()
	for _, a := range adapters {
		r.Set(a.Name(), a)
	}
	return &Set{registry: r}
}

// Lookup returns the adapter registered for id.
func (s *Set) Lookup(id string) (*ProviderAdapter, error) {
	a, ok := s.registry.Get(id)
	if !ok {
		return nil, errors.NotFound("provider", id)
	}
	return a, nil
}

// IDs returns registered provider IDs in sorted order.
func (s *Set) IDs() []string { return s.registry.List() }

// Configured returns the IDs of providers with a credential present.
func (s *Set) Configured() []string {
	var out []string
	for _, id := range s.registry.List() {
		if a, _ := s.registry.Get(id); a.configured {
			out = append(out, id)
		}
	}
	return out
}

package app

import (
	"context"
	"slices"

	"github.com/kbukum/focusgroup/config"
	"github.com/kbukum/focusgroup/llm"
	"github.com/kbukum/focusgroup/llm/anthropic"
	"github.com/kbukum/focusgroup/llm/cohere"
	"github.com/kbukum/focusgroup/llm/google"
	"github.com/kbukum/focusgroup/llm/mistral"
	"github.com/kbukum/focusgroup/llm/openai"
	"github.com/kbukum/focusgroup/util"
)

type backendFactory func(ctx context.Context, cfg llm.Config) (llm.Backend, error)

// backends maps provider IDs to their backend constructors.
var backends = map[string]backendFactory{
	config.ProviderOpenAI: func(_ context.Context, c llm.Config) (llm.Backend, error) {
		return openai.New(c)
	},
	config.ProviderAnthropic: func(_ context.Context, c llm.Config) (llm.Backend, error) {
		return anthropic.New(c)
	},
	config.ProviderGoogle: func(ctx context.Context, c llm.Config) (llm.Backend, error) {
		return google.New(ctx, c)
	},
	config.ProviderCohere: func(_ context.Context, c llm.Config) (llm.Backend, error) {
		return cohere.New(c)
	},
	config.ProviderMistral: func(_ context.Context, c llm.Config) (llm.Backend, error) {
		return mistral.New(c)
	},
}

// backendConfig merges the configured overrides of provider id with its
// catalog defaults.
func backendConfig(id string, pc config.ProviderConfig) llm.Config {
	entry, _ := llm.Lookup(id)
	return llm.Config{
		Name:              id,
		BaseURL:           util.Coalesce(pc.BaseURL, entry.BaseURL),
		APIKey:            pc.APIKey,
		Model:             util.Coalesce(pc.Model, entry.DefaultModel),
		Timeout:           pc.Timeout,
		RequestsPerMinute: util.Coalesce(pc.RequestsPerMinute, entry.RequestsPerMinute),
	}
}

// buildAdapters creates one adapter per known provider, configured or not.
func buildAdapters(ctx context.Context, cfg *config.Config, opts ...llm.AdapterOption) ([]*llm.ProviderAdapter, error) {
	adapters := make([]*llm.ProviderAdapter, 0, len(config.ProviderIDs))
	for _, id := range config.ProviderIDs {
		pc := cfg.Providers[id]
		bc := backendConfig(id, pc)
		backend, err := backends[id](ctx, bc)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, llm.NewProviderAdapter(id, bc.Model, pc.APIKey != "", backend, opts...))
	}
	return adapters, nil
}

// ProviderStatus describes one provider as the application sees it.
type ProviderStatus struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"display_name"`
	DefaultModel      string   `json:"default_model"`
	Models            []string `json:"models"`
	Languages         []string `json:"languages"`
	Configured        bool     `json:"configured"`
	RequestsPerMinute int      `json:"requests_per_minute"`
}

// Providers reports every catalog provider with its configured state,
// ordered by ID.
func (a *App) Providers() []ProviderStatus {
	catalog := llm.Catalog()
	out := make([]ProviderStatus, 0, len(catalog))
	for _, entry := range catalog {
		s := ProviderStatus{
			ID:                entry.ID,
			DisplayName:       entry.DisplayName,
			DefaultModel:      entry.DefaultModel,
			Models:            slices.Clone(entry.Models),
			Languages:         slices.Clone(entry.Languages),
			RequestsPerMinute: entry.RequestsPerMinute,
		}
		if adapter, err := a.Adapters.Lookup(entry.ID); err == nil {
			s.Configured = adapter.IsConfigured()
			s.DefaultModel = adapter.DefaultModel()
		}
		if pc, ok := a.Cfg.Providers[entry.ID]; ok && pc.RequestsPerMinute > 0 {
			s.RequestsPerMinute = pc.RequestsPerMinute
		}
		out = append(out, s)
	}
	return out
}

// Package llm provides the provider adapter set: one completion backend per
// vendor behind a uniform Generate contract.
//
// # Architecture
//
//   - Universal types: [CompletionRequest], [CompletionResponse], [Message], [Usage]
//   - [Dialect]: maps the universal types to one vendor's HTTP format
//   - [Adapter]: the shared REST client plus a Dialect, with connection-only
//     retry and client-side pacing
//   - [ProviderAdapter]: a Backend wrapped in logging, tracing and metrics
//     middleware, exposing Generate and IsConfigured
//   - [Set]: the read-only adapter lookup built at startup
//   - [Catalog]: display names, models and rate limits per vendor
//
// Vendor packages live under llm/: openai, anthropic, cohere and mistral are
// Dialects; google wraps the genai SDK.
//
// # Usage
//
//	backend, err := openai.New(llm.Config{APIKey: key, Model: "gpt-4o", RequestsPerMinute: 3500})
//	set := llm.NewSet(llm.NewProviderAdapter("openai", "gpt-4o", key != "", backend,
//	    llm.WithLogger(log), llm.WithTracing("focusgroup")))
//
//	adapter, err := set.Lookup("openai")
//	text, err := adapter.Generate(ctx, prompt, "", 8192, 0.8)
//
// Every failure is an *errors.AppError: UNAUTHORIZED, RATE_LIMITED, TIMEOUT,
// CONNECTION_FAILED or EXTERNAL_SERVICE_ERROR. Credentials are scrubbed from
// all messages and details.
package llm

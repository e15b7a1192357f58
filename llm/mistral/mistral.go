// Package mistral provides the Mistral AI adapter. Mistral serves the
// chat-completions wire format, so the OpenAI dialect is reused under the
// mistral name.
package mistral

import (
	"github.com/kbukum/focusgroup/llm"
	"github.com/kbukum/focusgroup/llm/openai"
)

// ProviderName is the provider identifier.
const ProviderName = "mistral"

// New creates a Mistral adapter.
func New(cfg llm.Config) (*llm.Adapter, error) {
	return llm.NewAdapter(openai.NewDialect(ProviderName), cfg)
}

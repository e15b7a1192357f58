package llm

import "sort"

// CatalogEntry describes a supported vendor.
type CatalogEntry struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"display_name"`
	Models            []string `json:"models"`
	DefaultModel      string   `json:"default_model"`
	Languages         []string `json:"languages"`
	Strengths         []string `json:"strengths"`
	CredentialEnv     []string `json:"credential_env"`
	RequestsPerMinute int      `json:"requests_per_minute"`
	BaseURL           string   `json:"base_url,omitempty"`
	DocsURL           string   `json:"docs_url"`
}

var catalog = map[string]CatalogEntry{
	"openai": {
		ID:                "openai",
		DisplayName:       "OpenAI",
		Models:            []string{"gpt-4o", "gpt-4-turbo", "gpt-4", "gpt-3.5-turbo"},
		DefaultModel:      "gpt-4o",
		Languages:         []string{"English", "Hindi", "Hinglish", "French", "Spanish", "Mandarin", "Arabic"},
		Strengths:         []string{"Best overall performance", "Superior English & Hinglish", "Realistic character development"},
		CredentialEnv:     []string{"OPENAI_API_KEY"},
		RequestsPerMinute: 3500,
		BaseURL:           "https://api.openai.com",
		DocsURL:           "https://platform.openai.com/docs",
	},
	"anthropic": {
		ID:                "anthropic",
		DisplayName:       "Anthropic Claude",
		Models:            []string{"claude-3-5-sonnet-latest", "claude-3-opus-20240229", "claude-3-sonnet-20240229", "claude-3-haiku-20240307"},
		DefaultModel:      "claude-3-5-sonnet-latest",
		Languages:         []string{"English", "French", "Spanish", "Portuguese"},
		Strengths:         []string{"Best at following complex prompts", "Superior consistency", "Excellent character traits"},
		CredentialEnv:     []string{"ANTHROPIC_API_KEY"},
		RequestsPerMinute: 5000,
		BaseURL:           "https://api.anthropic.com",
		DocsURL:           "https://docs.anthropic.com",
	},
	"google": {
		ID:                "google",
		DisplayName:       "Google AI (Gemini)",
		Models:            []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.0-flash"},
		DefaultModel:      "gemini-2.5-flash",
		Languages:         []string{"English", "Hindi", "Hinglish", "French", "Spanish", "Mandarin", "Arabic", "Portuguese"},
		Strengths:         []string{"Best for Hindi & Indian languages", "Strong cultural context", "Excellent regional dialects"},
		CredentialEnv:     []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"},
		RequestsPerMinute: 60,
		DocsURL:           "https://ai.google.dev/docs",
	},
	"cohere": {
		ID:                "cohere",
		DisplayName:       "Cohere",
		Models:            []string{"command-r-plus", "command-r", "command"},
		DefaultModel:      "command-r-plus",
		Languages:         []string{"English", "French", "Spanish"},
		Strengths:         []string{"Best conversation coherence", "Excellent for business scenarios", "Strong logical flow"},
		CredentialEnv:     []string{"COHERE_API_KEY"},
		RequestsPerMinute: 1000,
		BaseURL:           "https://api.cohere.com",
		DocsURL:           "https://docs.cohere.com",
	},
	"mistral": {
		ID:                "mistral",
		DisplayName:       "Mistral AI",
		Models:            []string{"mistral-large-latest", "mistral-medium-latest", "mistral-small-latest"},
		DefaultModel:      "mistral-large-latest",
		Languages:         []string{"English", "French", "Spanish", "Portuguese"},
		Strengths:         []string{"Best for French language", "Superior European cultural nuances", "French-speaking regions"},
		CredentialEnv:     []string{"MISTRAL_API_KEY"},
		RequestsPerMinute: 1000,
		BaseURL:           "https://api.mistral.ai",
		DocsURL:           "https://docs.mistral.ai",
	},
}

// Lookup returns the catalog entry for a provider ID.
func Lookup(id string) (CatalogEntry, bool) {
	e, ok := catalog[id]
	return e, ok
}

// Catalog returns every entry ordered by ID.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kbukum/focusgroup/util"
)

// Provider identifiers understood by the generator.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderCohere    = "cohere"
	ProviderMistral   = "mistral"
)

// ProviderIDs lists every provider in catalog order.
var ProviderIDs = []string{ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderCohere, ProviderMistral}

// CredentialEnv maps provider IDs to the environment variables holding their
// API keys, in lookup order.
var CredentialEnv = map[string][]string{
	ProviderOpenAI:    {"OPENAI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	ProviderGoogle:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	ProviderCohere:    {"COHERE_API_KEY"},
	ProviderMistral:   {"MISTRAL_API_KEY"},
}

// EnvPrefix is the prefix for environment overrides of config keys,
// e.g. FOCUSGROUP_GENERATION_TIMEOUT=45s.
const EnvPrefix = "FOCUSGROUP"

// Config is the full configuration of the transcript generator.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Providers     map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Generation    GenerationConfig          `yaml:"generation" mapstructure:"generation"`
	Ingest        IngestConfig              `yaml:"ingest" mapstructure:"ingest"`
	Export        ExportConfig              `yaml:"export" mapstructure:"export"`
	Profiles      ProfilesConfig            `yaml:"profiles" mapstructure:"profiles"`
	Observability ObservabilityConfig       `yaml:"observability" mapstructure:"observability"`
}

// ProviderConfig configures one text-generation vendor.
type ProviderConfig struct {
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Model             string        `yaml:"model" mapstructure:"model"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GenerationConfig holds the transcript sizing and sampling parameters.
type GenerationConfig struct {
	WordsPerMinuteDefault int               `yaml:"words_per_minute_default" mapstructure:"words_per_minute_default"`
	ParticipantFactorBase float64           `yaml:"participant_factor_base" mapstructure:"participant_factor_base"`
	ParticipantFactorStep float64           `yaml:"participant_factor_step" mapstructure:"participant_factor_step"`
	ParticipantFactorMax  float64           `yaml:"participant_factor_max" mapstructure:"participant_factor_max"`
	MaxTargetWords        int               `yaml:"max_target_words" mapstructure:"max_target_words"`
	TokensPerWord         float64           `yaml:"tokens_per_word" mapstructure:"tokens_per_word"`
	MaxOutputTokens       int               `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
	Temperature           float64           `yaml:"temperature" mapstructure:"temperature"`
	MaxObjectiveChars     int               `yaml:"max_objective_chars" mapstructure:"max_objective_chars"`
	Timeout               time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	FallbackProviders     map[string]string `yaml:"fallback_providers" mapstructure:"fallback_providers"` // language -> provider
}

// IngestConfig bounds document ingestion.
type IngestConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
	// MaxExtractedBytes caps inflated archive parts and extracted text.
	// Defaults to eight times MaxBytes.
	MaxExtractedBytes int64 `yaml:"max_extracted_bytes" mapstructure:"max_extracted_bytes"`
}

// ExportConfig controls DOCX rendering.
type ExportConfig struct {
	Font     string `yaml:"font" mapstructure:"font"`
	FontSize int    `yaml:"font_size" mapstructure:"font_size"`
}

// ProfilesConfig points at an optional profile table replacing the embedded one.
type ProfilesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// ObservabilityConfig enables OTLP export of traces and metrics.
type ObservabilityConfig struct {
	Tracing    bool    `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool    `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// Load reads configuration for serviceName into cfg, resolves vendor
// credentials from the environment, applies defaults and validates.
func Load(serviceName string, cfg *Config, opts ...LoaderOption) error {
	opts = append([]LoaderOption{WithEnvPrefix(EnvPrefix)}, opts...)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	cfg.ResolveCredentials(os.LookupEnv)
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// ResolveCredentials fills missing API keys from the vendor environment
// variables. Keys set in the config file take precedence.
func (c *Config) ResolveCredentials(lookup func(string) (string, bool)) {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig, len(ProviderIDs))
	}
	for _, id := range ProviderIDs {
		pc := c.Providers[id]
		pc.APIKey = util.SanitizeEnvValue(pc.APIKey)
		if pc.APIKey == "" {
			for _, name := range CredentialEnv[id] {
				v, _ := lookup(name)
				if v = util.SanitizeEnvValue(v); v != "" {
					pc.APIKey = v
					break
				}
			}
		}
		c.Providers[id] = pc
	}
}

// ApplyDefaults fills zero values with the documented defaults.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	for _, id := range ProviderIDs {
		if _, ok := c.Providers[id]; !ok {
			c.Providers[id] = ProviderConfig{}
		}
	}

	g := &c.Generation
	if g.WordsPerMinuteDefault == 0 {
		g.WordsPerMinuteDefault = 150
	}
	if g.ParticipantFactorBase == 0 {
		g.ParticipantFactorBase = 0.75
	}
	if g.ParticipantFactorStep == 0 {
		g.ParticipantFactorStep = 0.05
	}
	if g.ParticipantFactorMax == 0 {
		g.ParticipantFactorMax = 1.25
	}
	if g.MaxTargetWords == 0 {
		g.MaxTargetWords = 24000
	}
	if g.TokensPerWord == 0 {
		g.TokensPerWord = 1.4
	}
	if g.MaxOutputTokens == 0 {
		g.MaxOutputTokens = 8192
	}
	if g.Temperature == 0 {
		g.Temperature = 0.8
	}
	if g.MaxObjectiveChars == 0 {
		g.MaxObjectiveChars = 4000
	}
	if g.Timeout == 0 {
		g.Timeout = 30 * time.Second
	}

	if c.Ingest.MaxBytes == 0 {
		c.Ingest.MaxBytes = 10 << 20
	}
	if c.Ingest.MaxExtractedBytes == 0 {
		c.Ingest.MaxExtractedBytes = 8 * c.Ingest.MaxBytes
	}
	if c.Export.Font == "" {
		c.Export.Font = "Times New Roman"
	}
	if c.Export.FontSize == 0 {
		c.Export.FontSize = 12
	}
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	for id, pc := range c.Providers {
		if !isKnownProvider(id) {
			return fmt.Errorf("config.providers: unknown provider %q", id)
		}
		if pc.RequestsPerMinute < 0 {
			return fmt.Errorf("config.providers.%s.requests_per_minute must not be negative", id)
		}
	}
	for lang, id := range c.Generation.FallbackProviders {
		if !isKnownProvider(id) {
			return fmt.Errorf("config.generation.fallback_providers.%s: unknown provider %q", lang, id)
		}
	}

	g := c.Generation
	if g.ParticipantFactorBase <= 0 || g.ParticipantFactorStep < 0 || g.ParticipantFactorMax < g.ParticipantFactorBase {
		return fmt.Errorf("config.generation: participant factor must satisfy 0 < base <= max and step >= 0")
	}
	if g.MaxTargetWords <= 0 || g.MaxOutputTokens <= 0 || g.TokensPerWord <= 0 {
		return fmt.Errorf("config.generation: max_target_words, max_output_tokens and tokens_per_word must be positive")
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("config.generation.temperature must be within [0, 2] (got: %v)", g.Temperature)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("config.generation.timeout must be positive")
	}
	if c.Ingest.MaxBytes <= 0 {
		return fmt.Errorf("config.ingest.max_bytes must be positive")
	}
	if c.Ingest.MaxExtractedBytes <= 0 {
		return fmt.Errorf("config.ingest.max_extracted_bytes must be positive")
	}
	if c.Export.FontSize <= 0 {
		return fmt.Errorf("config.export.font_size must be positive")
	}
	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return fmt.Errorf("config.observability.sample_rate must be within [0, 1]")
	}
	return nil
}

func isKnownProvider(id string) bool {
	_, ok := CredentialEnv[id]
	return ok
}

// Package config loads generator configuration from YAML, an optional .env
// file and the environment.
//
// Keys not present in the file can be supplied as FOCUSGROUP_-prefixed
// variables (FOCUSGROUP_GENERATION_TIMEOUT=45s). Vendor credentials are read
// from their conventional variables (OPENAI_API_KEY, ANTHROPIC_API_KEY,
// GOOGLE_API_KEY or GEMINI_API_KEY, COHERE_API_KEY, MISTRAL_API_KEY).
//
//	var cfg config.Config
//	if err := config.Load("focusgroup", &cfg); err != nil { ... }
package config

// Package profile holds the per-language generation parameters: provider
// recommendation and fallback, speaking rate, fillers and regional speech
// patterns, plus location-driven persona names and cultural context.
//
// The table is embedded from profiles.yaml and may be replaced at startup
// with WithFile. A Store never changes after Load.
package profile

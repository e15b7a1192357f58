package util

import (
	"regexp"
	"strings"
)

// Redacted replaces secrets removed by RedactSecrets.
const Redacted = "[REDACTED]"

var (
	bearerPattern   = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._\-]+`)
	queryKeyPattern = regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey)=)[^&\s"]+`)
)

// RedactSecrets removes every literal secret from text, plus bearer tokens
// and API keys passed as query parameters. Empty secrets are ignored.
func RedactSecrets(text string, secrets ...string) string {
	for _, s := range secrets {
		if s != "" {
			text = strings.ReplaceAll(text, s, Redacted)
		}
	}
	text = bearerPattern.ReplaceAllString(text, "${1}"+Redacted)
	return queryKeyPattern.ReplaceAllString(text, "${1}"+Redacted)
}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}

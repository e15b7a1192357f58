package llm

import (
	"encoding/json"

	"github.com/kbukum/focusgroup/httpclient"
)

// Dialect maps universal completion types to and from one vendor's HTTP
// format. Vendor packages (llm/openai, llm/anthropic, ...) provide them and
// hand them to NewAdapter.
type Dialect interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() string

	// ChatPath returns the completion endpoint path.
	ChatPath() string

	// Auth returns how apiKey is attached to requests.
	Auth(apiKey string) *httpclient.AuthConfig

	// Headers returns fixed headers the vendor requires. May be nil.
	Headers() map[string]string

	// BuildRequest maps a CompletionRequest to the vendor's JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the vendor's JSON response body to a CompletionResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)

	// ErrorMessage extracts the human-readable message from an error body.
	// It returns "" when the body carries none.
	ErrorMessage(body []byte) string
}

// ErrorMessageFromJSON extracts a message from the common vendor error
// shapes: {"error":{"message":...}}, {"error":"..."} and {"message":...}.
func ErrorMessageFromJSON(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return ""
	}
	if len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if json.Unmarshal(envelope.Error, &flat) == nil && flat != "" {
			return flat
		}
	}
	return envelope.Message
}

// ChatMessages prepends the system prompt, if any, to the request messages
// in the role/content shape shared by the chat-completions style APIs.
func ChatMessages(req CompletionRequest) []Message {
	msgs := make([]Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: req.SystemPrompt})
	}
	return append(msgs, req.Messages...)
}

// Package anthropic implements the Anthropic Messages API dialect.
package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/focusgroup/httpclient"
	"github.com/kbukum/focusgroup/llm"
)

const (
	// ProviderName is the provider identifier.
	ProviderName = "anthropic"
	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"

	// max_tokens is mandatory on this API.
	defaultMaxTokens = 4096
	maxTemperature   = 1.0
)

// Dialect maps completion requests to POST /v1/messages.
type Dialect struct{}

// New creates an Anthropic adapter.
func New(cfg llm.Config) (*llm.Adapter, error) {
	return llm.NewAdapter(Dialect{}, cfg)
}

func (Dialect) Name() string     { return ProviderName }
func (Dialect) ChatPath() string { return "/v1/messages" }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.APIKeyAuthHeader(apiKey, "x-api-key")
}

func (Dialect) Headers() map[string]string {
	return map[string]string{"anthropic-version": APIVersion}
}

type messagesRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	return messagesRequest{
		Model:       req.Model,
		System:      req.SystemPrompt,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: min(req.Temperature, maxTemperature),
	}, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("no text content in response")
	}
	return &llm.CompletionResponse{
		Content: text.String(),
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

func (Dialect) ErrorMessage(body []byte) string { return llm.ErrorMessageFromJSON(body) }

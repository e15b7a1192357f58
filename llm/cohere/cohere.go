// Package cohere implements the Cohere v2 chat dialect.
package cohere

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/focusgroup/httpclient"
	"github.com/kbukum/focusgroup/llm"
)

const (
	// ProviderName is the provider identifier.
	ProviderName = "cohere"

	maxTemperature = 1.0
)

// Dialect maps completion requests to POST /v2/chat.
type Dialect struct{}

// New creates a Cohere adapter.
func New(cfg llm.Config) (*llm.Adapter, error) {
	return llm.NewAdapter(Dialect{}, cfg)
}

func (Dialect) Name() string     { return ProviderName }
func (Dialect) ChatPath() string { return "/v2/chat" }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig { return httpclient.BearerAuth(apiKey) }

func (Dialect) Headers() map[string]string { return nil }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Usage struct {
		Tokens struct {
			InputTokens  float64 `json:"input_tokens"`
			OutputTokens float64 `json:"output_tokens"`
		} `json:"tokens"`
	} `json:"usage"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    llm.ChatMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: min(req.Temperature, maxTemperature),
	}, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	var text strings.Builder
	for _, part := range resp.Message.Content {
		if part.Type == "text" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("no text content in response")
	}
	in, out := int(resp.Usage.Tokens.InputTokens), int(resp.Usage.Tokens.OutputTokens)
	return &llm.CompletionResponse{
		Content: text.String(),
		Usage:   llm.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}, nil
}

func (Dialect) ErrorMessage(body []byte) string { return llm.ErrorMessageFromJSON(body) }

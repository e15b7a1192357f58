// Package openai implements the chat-completions dialect used by OpenAI and
// by OpenAI-compatible vendors.
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/focusgroup/httpclient"
	"github.com/kbukum/focusgroup/llm"
)

// ProviderName is the provider identifier.
const ProviderName = "openai"

// Dialect maps completion requests to POST /v1/chat/completions.
type Dialect struct {
	name string
}

// NewDialect returns the dialect registered under name. Use ProviderName for
// OpenAI itself.
func NewDialect(name string) *Dialect {
	return &Dialect{name: name}
}

// New creates an OpenAI adapter.
func New(cfg llm.Config) (*llm.Adapter, error) {
	return llm.NewAdapter(NewDialect(ProviderName), cfg)
}

func (d *Dialect) Name() string     { return d.name }
func (d *Dialect) ChatPath() string { return "/v1/chat/completions" }

func (d *Dialect) Auth(apiKey string) *httpclient.AuthConfig { return httpclient.BearerAuth(apiKey) }

func (d *Dialect) Headers() map[string]string { return nil }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    llm.ChatMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, nil
}

func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (d *Dialect) ErrorMessage(body []byte) string { return llm.ErrorMessageFromJSON(body) }

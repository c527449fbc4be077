package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DefaultAnthropicURL is the Anthropic API base.
const DefaultAnthropicURL = "https://api.anthropic.com/v1"

// ClaudeClient calls the Anthropic Messages API. It only completes; pair it
// with an Embedder via Compose.
type ClaudeClient struct {
	transport
	apiKey    string
	model     string
	maxTokens int
}

func NewClaudeClient(apiKey, model string, opts ...Option) *ClaudeClient {
	return &ClaudeClient{
		transport: newTransport(DefaultAnthropicURL, opts),
		apiKey:    apiKey,
		model:     model,
		maxTokens: 4096,
	}
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *apiError `json:"error"`
}

// Complete sends the conversation to Claude. System messages are lifted into
// the request's system field.
func (c *ClaudeClient) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
	}
	var system []string
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		reqBody.Messages = append(reqBody.Messages, m)
	}
	reqBody.System = strings.Join(system, "\n\n")

	h := http.Header{}
	h.Set("x-api-key", c.apiKey)
	h.Set("anthropic-version", "2023-06-01")

	var apiResp anthropicResponse
	if err := c.postJSON(ctx, "/messages", h, reqBody, &apiResp); err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from claude")
	}
	return apiResp.Content[0].Text, nil
}

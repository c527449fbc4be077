package llm

import (
	"context"
	"fmt"
	"net/http"
)

// DefaultOpenAIURL is the public OpenAI API. Any OpenAI-compatible endpoint
// can be used via WithBaseURL.
const DefaultOpenAIURL = "https://api.openai.com/v1"

// OpenAIClient calls the chat completions and embeddings endpoints.
type OpenAIClient struct {
	transport
	apiKey         string
	chatModel      string
	embeddingModel string
}

// NewOpenAIClient creates a client for the given chat and embedding models.
func NewOpenAIClient(apiKey, chatModel, embeddingModel string, opts ...Option) *OpenAIClient {
	return &OpenAIClient{
		transport:      newTransport(DefaultOpenAIURL, opts),
		apiKey:         apiKey,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (c *OpenAIClient) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.apiKey)
	return h
}

// Complete returns the first choice's message content.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	var resp chatResponse
	err := c.postJSON(ctx, "/chat/completions", c.header(), chatRequest{
		Model:    c.chatModel,
		Messages: messages,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("openai error: %s: %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embeddingResponse
	err := c.postJSON(ctx, "/embeddings", c.header(), embeddingRequest{
		Model: c.embeddingModel,
		Input: text,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai error: %s: %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding from openai")
	}
	return resp.Data[0].Embedding, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"securestock/internal/config"

	"github.com/go-resty/resty/v2"
)

const apiVersion = "2023-06-01"

// ErrNoAPIKey is returned when neither the server nor the caller supplied a key.
var ErrNoAPIKey = errors.New("no LLM API key configured")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	System   string
	Messages []Message
	// APIKey overrides the configured key for this call when set.
	APIKey string
}

// Client defines the chat completion operations used by the assistant.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error: status=%d, type=%s, message=%s", e.StatusCode, e.Type, e.Message)
}

type anthropicClient struct {
	httpClient *resty.Client
	apiKey     string
	model      string
	maxTokens  int
}

func NewClient(cfg config.LLMConfig) Client {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(cfg.Timeout)

	return &anthropicClient{
		httpClient: restyClient,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	apiKey := c.apiKey
	if req.APIKey != "" {
		apiKey = req.APIKey
	}
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	body := messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    req.System,
		Messages:  req.Messages,
	}

	var result messageResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("x-api-key", apiKey).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("llm api call: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Type:       apiErr.Error.Type,
			Message:    apiErr.Error.Message,
		}
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("empty response from llm")
	}

	return strings.TrimSpace(text.String()), nil
}

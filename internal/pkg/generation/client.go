// Package generation provides a thin HTTP client for hosted language model
// providers used by the content workspace.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

// Provider identifies a supported model provider
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// Config holds provider connection settings
type Config struct {
	Provider   Provider
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the configured provider's completion endpoint
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new provider client
func NewClient(config Config, logger zerolog.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type openAIRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt to the provider and returns the generated text.
// Transient failures (network errors, 429 and 5xx responses) are retried
// with exponential backoff up to MaxRetries additional attempts.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := c.buildRequestBody(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to encode provider request: %w", err)
	}

	attempts := c.config.MaxRetries + 1
	backoff := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.logger.Warn().
				Int("attempt", attempt).
				Err(lastErr).
				Msg("Retrying provider request")
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// doRequest performs one HTTP round trip. The second return value reports
// whether the failure is transient and worth retrying.
func (c *Client) doRequest(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	switch c.config.Provider {
	case ProviderClaude:
		req.Header.Set("x-api-key", c.config.APIKey)
		req.Header.Set("anthropic-version", "2023-06-01")
	default:
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: failed to read provider response: %v", apperrors.ErrProviderUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("%w: provider returned status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		// Client errors are not retried; retrying the same bad request cannot succeed
		return "", false, fmt.Errorf("%w: provider returned status %d: %s",
			apperrors.ErrGenerationFailed, resp.StatusCode, truncate(string(respBody), 200))
	}

	text, err := c.parseResponseBody(respBody)
	if err != nil {
		return "", false, err
	}
	return text, false, nil
}

func (c *Client) buildRequestBody(prompt string) ([]byte, error) {
	switch c.config.Provider {
	case ProviderClaude:
		return json.Marshal(claudeRequest{
			Model:     c.config.Model,
			MaxTokens: 4096,
			Messages:  []message{{Role: "user", Content: prompt}},
		})
	default:
		return json.Marshal(openAIRequest{
			Model:    c.config.Model,
			Messages: []message{{Role: "user", Content: prompt}},
		})
	}
}

func (c *Client) parseResponseBody(body []byte) (string, error) {
	switch c.config.Provider {
	case ProviderClaude:
		var parsed claudeResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrMalformedModelOutput, err)
		}
		for _, block := range parsed.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		return "", fmt.Errorf("%w: response contained no text content", apperrors.ErrMalformedModelOutput)
	default:
		var parsed openAIResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrMalformedModelOutput, err)
		}
		if len(parsed.Choices) == 0 {
			return "", fmt.Errorf("%w: response contained no choices", apperrors.ErrMalformedModelOutput)
		}
		return parsed.Choices[0].Message.Content, nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

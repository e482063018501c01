// Package llm talks to the external inference server that backs metadata
// extraction and reasoning generation. The server consumes a prompt plus
// sampling parameters and returns generated text; everything else (prompt
// construction, output parsing) lives on this side.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// SamplingParams controls generation on the inference server.
type SamplingParams struct {
	MaxTokens     int      `json:"max_tokens"`
	Temperature   float32  `json:"temperature"`
	TopP          float32  `json:"top_p"`
	RepeatPenalty float32  `json:"repeat_penalty"`
	TopK          int      `json:"top_k"`
	Stop          []string `json:"stop,omitempty"`
	Echo          bool     `json:"echo"`
}

// MetadataParams are the sampling parameters used for metadata extraction.
func MetadataParams() SamplingParams {
	return SamplingParams{
		MaxTokens:     256,
		Temperature:   0.8,
		TopP:          0.95,
		RepeatPenalty: 1.2,
		TopK:          50,
		Stop:          []string{"USER:"},
	}
}

// ReasoningParams are the sampling parameters used for reasoning generation.
func ReasoningParams() SamplingParams {
	return SamplingParams{
		MaxTokens:     256,
		Temperature:   0.5,
		TopP:          0.95,
		RepeatPenalty: 1.2,
		TopK:          50,
		Stop:          []string{"USER:"},
	}
}

// Config holds configuration for the inference server client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is an HTTP client for the inference server.
type Client struct {
	client   *resty.Client
	endpoint string
}

// NewClient creates a new inference server client.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	return &Client{
		client:   client,
		endpoint: cfg.BaseURL + "/generate_response",
	}
}

type generateRequest struct {
	Prompt     string         `json:"prompt"`
	Parameters SamplingParams `json:"parameters"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
	Detail        string `json:"detail,omitempty"`
}

// Generate sends a prompt to the inference server and returns the generated
// text. Network failures are classified as transient connection errors;
// a 2xx response with no generated_text field is malformed model output.
func (c *Client) Generate(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	req := generateRequest{Prompt: prompt, Parameters: params}

	var resp generateResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(c.endpoint)

	if err != nil {
		return "", fmt.Errorf("%w: inference server unreachable: %v", domain.ErrConnection, err)
	}
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return "", fmt.Errorf("%w: inference server returned status %d", domain.ErrConnection, httpResp.StatusCode())
	}
	if resp.GeneratedText == "" {
		return "", fmt.Errorf("%w: response has no generated_text field", domain.ErrMalformedModelOutput)
	}

	return resp.GeneratedText, nil
}

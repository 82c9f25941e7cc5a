package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"resume-screener/internal/llm"
)

const defaultModel = "gemini-1.5-flash"

// Client implements llm.Client on the Gemini Developer API.
type Client struct {
	client *genai.Client
	opts   llm.Options
}

// NewClient builds a Gemini client from an API key.
func NewClient(ctx context.Context, apiKey string, opts llm.Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &Client{client: client, opts: opts}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](c.opts.Temperature),
	}
	if c.opts.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.opts.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp.UsageMetadata != nil {
		log.Printf("llm response provider=gemini model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
			c.opts.Model, resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount, resp.UsageMetadata.TotalTokenCount)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)

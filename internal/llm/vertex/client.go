package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"resume-screener/internal/llm"
)

const (
	defaultLocation = "us-central1"
	defaultModel    = "gemini-1.5-flash"
	cloudScope      = "https://www.googleapis.com/auth/cloud-platform"
)

// Client wraps a Vertex AI generative model.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// Config selects the project and, optionally, inline service account JSON.
// Without CredentialsJSON the Application Default Credentials chain is used.
type Config struct {
	ProjectID       string
	Location        string
	CredentialsJSON string
}

// NewClient resolves credentials and prepares the configured model.
func NewClient(ctx context.Context, cfg Config, opts llm.Options) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if strings.TrimSpace(cfg.Location) == "" {
		cfg.Location = defaultLocation
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaultModel
	}

	creds, err := findCredentials(ctx, cfg.CredentialsJSON)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("vertex genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(opts.Temperature)
	if opts.JSONOutput {
		model.ResponseMIMEType = "application/json"
	}
	return &Client{client: client, model: model}, nil
}

func findCredentials(ctx context.Context, inline string) (*google.Credentials, error) {
	if strings.TrimSpace(inline) != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(inline), cloudScope)
		if err != nil {
			return nil, fmt.Errorf("parse vertex credentials: %w", err)
		}
		return creds, nil
	}
	creds, err := google.FindDefaultCredentials(ctx, cloudScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return creds, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", llm.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ llm.Client = (*Client)(nil)

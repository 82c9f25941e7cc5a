package llm

import (
	"context"
	"errors"
)

// Client sends a single prompt to a generative model and returns the raw text reply.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options are the model parameters shared by every provider.
type Options struct {
	Model       string
	Temperature float32
	// JSONOutput asks the provider for a JSON-only response where it supports it.
	JSONOutput bool
}

// DefaultTemperature keeps review output stable between runs.
const DefaultTemperature = 0.2

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("llm response empty")

// Func adapts a plain function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

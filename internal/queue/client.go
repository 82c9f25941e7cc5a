package queue

import "context"

// Client publishes processed-resume events.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

package groq

import "context"

// Completer sends a prompt upstream and returns the raw completion body.
type Completer interface {
	Complete(ctx context.Context, prompt, clientKey string) ([]byte, error)
}

// Ensure Client implements the interface
var _ Completer = (*Client)(nil)

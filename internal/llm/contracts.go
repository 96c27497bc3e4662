package llm

import (
	"context"
	"time"
)

// ChatCompleter sends a single user-role prompt to a chat model and returns the
// message content. Transport and HTTP failures come back as ExternalServiceError.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
	Temperature() float32
}

// Cache stores raw model output keyed by a hash of model and prompt.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

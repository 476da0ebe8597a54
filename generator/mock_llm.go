package generator

import (
	"context"
	"errors"
)

// ErrNoAPIKey is returned by NoKeyLLM.
var ErrNoAPIKey = errors.New("llm api key not configured")

// NoKeyLLM stands in when no API key is configured. It never calls the
// upstream; every completion fails so the agent serves the fallback.
type NoKeyLLM struct {
	Provider string
}

func (n NoKeyLLM) Complete(_ context.Context, _ Prompt) (string, error) {
	return "", ErrNoAPIKey
}

package ai

import (
	"context"
	"time"
)

// Provider names, as chosen by Generator.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderLocal      = "local"
)

// Runtime sends one chat request to a provider.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// StreamRuntime is implemented by runtimes that can deliver partial output.
type StreamRuntime interface {
	GenerateStream(ctx context.Context, req GenerateRequest, onDelta func(string)) error
}

// RuntimeConfig holds the knobs both runtimes understand. Zero values pick
// per-provider defaults.
type RuntimeConfig struct {
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// OpenRouter
	APIKey  string
	BaseURL string

	// Local runtime
	Host string
}

// RuntimeFactory builds a Runtime from a config.
type RuntimeFactory func(RuntimeConfig) Runtime

var registry = map[string]RuntimeFactory{
	ProviderOpenRouter: func(c RuntimeConfig) Runtime { return NewOpenRouterClient(c) },
	ProviderLocal:      func(c RuntimeConfig) Runtime { return NewOllamaClient(c) },
}

// RegisterRuntime adds or replaces the factory for a provider name.
func RegisterRuntime(name string, f RuntimeFactory) { registry[name] = f }

// GetRuntime builds the runtime registered under name.
func GetRuntime(name string, cfg RuntimeConfig) (Runtime, bool) {
	f, ok := registry[name]
	if !ok {
		return nil, false
	}
	return f(cfg), true
}

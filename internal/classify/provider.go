// Package classify turns context windows into signed sentiment scores using an
// external classifier provider.
package classify

import (
	"context"
	"time"

	"github.com/avoronov/cryptomood/internal/model"
)

// Classifier maps a text segment to a probability distribution over
// negative / neutral / positive sentiment. Implementations are external
// collaborators (hosted API or local model); the engine only depends on
// this contract.
type Classifier interface {
	// Name returns the provider name
	Name() string

	// Classify returns the label distribution for the segment.
	// The probabilities sum to 1 within floating tolerance.
	Classify(ctx context.Context, text string) (model.LabelScores, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds classifier provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for a single classification call
	Timeout time.Duration

	// HTTPProxy routes provider traffic through a proxy when set
	HTTPProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		Timeout:  30 * time.Second,
	}
}

// ConfigFromModel converts model.ClassifierConfig to classify.Config
func ConfigFromModel(mc model.ClassifierConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		HTTPProxy: mc.HTTPProxy,
	}
}

// systemPrompt instructs chat models to answer with nothing but the label
// distribution. Both providers share it.
const systemPrompt = `You are a financial sentiment classifier for short social-media posts about crypto assets.
Given a text fragment, respond with ONLY a JSON object of label probabilities:
{"negative": <0..1>, "neutral": <0..1>, "positive": <0..1>}
The three probabilities must sum to 1. No prose, no markdown, JSON only.`

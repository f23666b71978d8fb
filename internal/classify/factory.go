package classify

import (
	"fmt"
	"strings"
)

// NewClassifier creates a classifier provider based on configuration
func NewClassifier(config Config) (Classifier, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClassifier(config)

	case "ollama":
		return NewOllamaClassifier(config)

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (supported: openai, ollama)", config.Provider)
	}
}

package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/util"
)

// OpenAIClassifier implements the Classifier interface with OpenAI chat models
type OpenAIClassifier struct {
	client *openai.Client
	config Config
}

// NewOpenAIClassifier creates a new OpenAI-backed classifier
func NewOpenAIClassifier(config Config) (*OpenAIClassifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.HTTPProxy != "" {
		clientConfig.HTTPClient = &http.Client{
			Transport: &http.Transport{Proxy: util.NewProxyFunc(config.HTTPProxy)},
		}
	}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (c *OpenAIClassifier) IsAvailable(ctx context.Context) bool {
	_, err := c.client.ListModels(ctx)
	return err == nil
}

// Classify returns the sentiment label distribution for the segment
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (model.LabelScores, error) {
	modelName := c.config.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	timeout := c.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		MaxTokens:   64,
		Temperature: 0, // Deterministic labels
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return model.LabelScores{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return model.LabelScores{}, fmt.Errorf("no response from OpenAI")
	}

	return parseLabelJSON(resp.Choices[0].Message.Content)
}

// parseLabelJSON decodes the provider's JSON answer into label scores.
// Tolerates surrounding prose or markdown fences around the JSON object.
func parseLabelJSON(content string) (model.LabelScores, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return model.LabelScores{}, fmt.Errorf("no JSON object in classifier response: %q", content)
	}

	var raw struct {
		Negative float64 `json:"negative"`
		Neutral  float64 `json:"neutral"`
		Positive float64 `json:"positive"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return model.LabelScores{}, fmt.Errorf("decode classifier response: %w", err)
	}

	scores := model.LabelScores{
		Negative: raw.Negative,
		Neutral:  raw.Neutral,
		Positive: raw.Positive,
	}

	sum := scores.Negative + scores.Neutral + scores.Positive
	if sum <= 0 {
		return model.LabelScores{}, fmt.Errorf("degenerate label distribution: %+v", scores)
	}

	return scores, nil
}

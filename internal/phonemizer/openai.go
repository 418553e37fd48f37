package phonemizer

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/language"
	"codeberg.org/snonux/hyphipa/internal/logging"
)

// OpenAI asks an OpenAI chat model for transcriptions.
type OpenAI struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *openai.Client
	logger  *zap.Logger
}

// NewOpenAI creates a new OpenAI phonemizer
func NewOpenAI(apiKey, model string, timeout time.Duration, logger *zap.Logger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", ErrUnavailable)
	}
	return newOpenAIWithConfig(openai.DefaultConfig(apiKey), apiKey, model, timeout, logger), nil
}

func newOpenAIWithConfig(config openai.ClientConfig, apiKey, model string, timeout time.Duration, logger *zap.Logger) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  openai.NewClientWithConfig(config),
		logger:  logging.OrNop(logger).With(zap.String("provider", "openai")),
	}
}

// Phonemize implements Phonemizer with a single chat completion per batch.
func (p *OpenAI) Phonemize(ctx context.Context, words []string, lang string) ([]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phonetician producing broad IPA transcriptions for a hyphenation pipeline.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: modelPrompt(words, language.DisplayName(lang)),
			},
		},
		Temperature: 0,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	lines, err := parseModelLines(resp.Choices[0].Message.Content, words)
	if err != nil {
		return nil, fmt.Errorf("OpenAI response: %w", err)
	}
	return fillPlaceholders(lines, words, p.logger), nil
}

// Name returns the provider name
func (p *OpenAI) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is configured
func (p *OpenAI) IsAvailable() error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: OpenAI API key not configured", ErrUnavailable)
	}
	return nil
}

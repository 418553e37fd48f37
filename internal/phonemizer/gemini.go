package phonemizer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"codeberg.org/snonux/hyphipa/internal/language"
	"codeberg.org/snonux/hyphipa/internal/logging"
)

// Gemini asks a Google Gemini model for transcriptions.
type Gemini struct {
	model   string
	timeout time.Duration
	client  *genai.Client
	logger  *zap.Logger
}

// NewGemini creates a new Gemini phonemizer
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Gemini, error) {
	return newGemini(ctx, apiKey, model, "", timeout, logger)
}

func newGemini(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrUnavailable)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &Gemini{
		model:   model,
		timeout: timeout,
		client:  client,
		logger:  logging.OrNop(logger).With(zap.String("provider", "gemini")),
	}, nil
}

// Phonemize implements Phonemizer with a single request per batch.
func (p *Gemini) Phonemize(ctx context.Context, words []string, lang string) ([]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(modelPrompt(words, language.DisplayName(lang))),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no response from Gemini")
	}

	lines, err := parseModelLines(text, words)
	if err != nil {
		return nil, fmt.Errorf("Gemini response: %w", err)
	}
	return fillPlaceholders(lines, words, p.logger), nil
}

// Name returns the provider name
func (p *Gemini) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is configured
func (p *Gemini) IsAvailable() error {
	if p.client == nil {
		return fmt.Errorf("%w: Gemini client not configured", ErrUnavailable)
	}
	return nil
}

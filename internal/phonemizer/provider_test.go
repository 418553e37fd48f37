package phonemizer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubPhonemizer struct {
	name   string
	out    []string
	err    error
	calls  int
	availE error
}

func (s *stubPhonemizer) Phonemize(_ context.Context, words []string, _ string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func (s *stubPhonemizer) Name() string       { return s.name }
func (s *stubPhonemizer) IsAvailable() error { return s.availE }

func TestWithFallback(t *testing.T) {
	core, observed := observer.New(zap.WarnLevel)
	primary := &stubPhonemizer{name: "espeak-ng", err: errors.New("not found")}
	fallback := &stubPhonemizer{name: "openai", out: []string{"sˈɛk"}}
	p := NewWithFallback(primary, fallback, zap.New(core))

	got, err := p.Phonemize(context.Background(), []string{"sek"}, "zlw/pl")
	if err != nil {
		t.Fatalf("Phonemize() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"sˈɛk"}) {
		t.Errorf("Phonemize() = %v", got)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls primary=%d fallback=%d, want 1 and 1", primary.calls, fallback.calls)
	}
	if observed.FilterMessage("primary phonemizer failed, falling back").Len() != 1 {
		t.Error("expected a fallback warning")
	}
	if p.Name() != "espeak-ng (fallback: openai)" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestWithFallbackPrimarySucceeds(t *testing.T) {
	primary := &stubPhonemizer{name: "a", out: []string{"x"}}
	fallback := &stubPhonemizer{name: "b", out: []string{"y"}}
	p := NewWithFallback(primary, fallback, nil)

	got, _ := p.Phonemize(context.Background(), []string{"w"}, "zlw/cs")
	if got[0] != "x" || fallback.calls != 0 {
		t.Errorf("Phonemize() = %v, fallback calls = %d", got, fallback.calls)
	}
}

func TestWithFallbackIsAvailable(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name            string
		primary, second error
		wantAvailable   bool
	}{
		{"both up", nil, nil, true},
		{"primary down", down, nil, true},
		{"both down", down, down, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWithFallback(&stubPhonemizer{availE: tt.primary}, &stubPhonemizer{availE: tt.second}, nil)
			err := p.IsAvailable()
			if (err == nil) != tt.wantAvailable {
				t.Errorf("IsAvailable() = %v", err)
			}
			if err != nil && !errors.Is(err, ErrUnavailable) {
				t.Errorf("IsAvailable() error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestNewPhonemizerErrors(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"unknown provider", &Config{Provider: "festival"}},
		{"openai without key", &Config{Provider: "openai"}},
		{"gemini without key", &Config{Provider: "gemini"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPhonemizer(context.Background(), tt.config); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewPhonemizerOpenAIWithFallback(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "openai"
	config.OpenAIKey = "test-key"
	config.Fallback = "gemini"
	config.GeminiKey = "test-key"

	p, err := NewPhonemizer(context.Background(), config)
	if err != nil {
		t.Fatalf("NewPhonemizer() error = %v", err)
	}
	if p.Name() != "openai (fallback: gemini)" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestParseModelLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		words   []string
		want    []string
		wantErr bool
	}{
		{"plain", "sˈɛk\ntsja\n", []string{"sek", "cja"}, []string{"sˈɛk", "tsja"}, false},
		{"numbered", "1. /sˈɛk/\n2) [tsja]", []string{"sek", "cja"}, []string{"sˈɛk", "tsja"}, false},
		{"fenced", "```\nsˈɛk\n```", []string{"sek"}, []string{"sˈɛk"}, false},
		{"count mismatch", "sˈɛk", []string{"sek", "cja"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseModelLines(tt.content, tt.words)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseModelLines() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseModelLines() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModelPrompt(t *testing.T) {
	prompt := modelPrompt([]string{"sek", "cja"}, "Polish")
	if !strings.Contains(prompt, "Polish") || !strings.HasSuffix(prompt, "sek\ncja") {
		t.Errorf("unexpected prompt: %q", prompt)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := withTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline")
	}

	ctx, cancel = withTimeout(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Error("expected no deadline for zero timeout")
	}
}

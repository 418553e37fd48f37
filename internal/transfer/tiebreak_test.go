package transfer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeTranscriber struct {
	transcriptions map[string]string
	err            error
	calls          [][]string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, words []string) ([]string, error) {
	f.calls = append(f.calls, words)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = f.transcriptions[w]
	}
	return out, nil
}

func TestFirstSeen(t *testing.T) {
	got, err := FirstSeen{}.Break(context.Background(), "a-b", []string{"x-y", "xy-z"})
	if err != nil || got != "x-y" {
		t.Errorf("Break() = %q, %v; want %q, nil", got, err, "x-y")
	}
}

func TestInteractive(t *testing.T) {
	candidates := []string{"sˈɛk-tsja", "sˈɛkt-sja"}

	tests := []struct {
		name        string
		input       string
		expected    string
		wantInvalid bool
	}{
		{"valid choice", "2\n", "sˈɛkt-sja", false},
		{"reprompt on garbage", "x\n5\n0\n1\n", "sˈɛk-tsja", true},
		{"choice without newline", "2", "sˈɛkt-sja", false},
		{"end of input", "", "sˈɛk-tsja", false},
		{"end of input after garbage", "nope\n", "sˈɛk-tsja", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tb := NewInteractive(strings.NewReader(tt.input), &out)

			got, err := tb.Break(context.Background(), "sek-cja", candidates)
			if err != nil {
				t.Fatalf("Break() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Break() = %q, want %q", got, tt.expected)
			}

			prompt := out.String()
			if !strings.Contains(prompt, "sek-cja") || !strings.Contains(prompt, "2) sˈɛkt-sja") {
				t.Errorf("prompt does not list the tie: %q", prompt)
			}
			if invalid := strings.Contains(prompt, "Invalid selection"); invalid != tt.wantInvalid {
				t.Errorf("invalid selection message shown = %v, want %v", invalid, tt.wantInvalid)
			}
		})
	}
}

func TestInteractiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tb := NewInteractive(strings.NewReader("2\n"), &bytes.Buffer{})
	got, err := tb.Break(ctx, "a-b", []string{"first", "second"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Break() error = %v, want context.Canceled", err)
	}
	if got != "first" {
		t.Errorf("Break() = %q, want first candidate", got)
	}
}

func TestResynthesis(t *testing.T) {
	transcriber := &fakeTranscriber{transcriptions: map[string]string{
		"sek": "sˈɛk",
		"cja": "tsja",
	}}
	tb := NewResynthesis(transcriber)

	got, err := tb.Break(context.Background(), "sek-cja", []string{"sˈɛkt-sja", "sˈɛk-tsja"})
	if err != nil {
		t.Fatalf("Break() error = %v", err)
	}
	if got != "sˈɛk-tsja" {
		t.Errorf("Break() = %q, want %q", got, "sˈɛk-tsja")
	}
	if len(transcriber.calls) != 1 || strings.Join(transcriber.calls[0], ",") != "sek,cja" {
		t.Errorf("Transcribe calls = %v, want one call with [sek cja]", transcriber.calls)
	}
}

func TestResynthesisEqualScoresKeepFirst(t *testing.T) {
	tb := NewResynthesis(&fakeTranscriber{transcriptions: map[string]string{}})

	got, err := tb.Break(context.Background(), "ab-cd", []string{"a-bcd", "ab-cd"})
	if err != nil {
		t.Fatalf("Break() error = %v", err)
	}
	if got != "a-bcd" {
		t.Errorf("Break() = %q, want first candidate", got)
	}
}

func TestResynthesisError(t *testing.T) {
	boom := errors.New("boom")
	tb := NewResynthesis(&fakeTranscriber{err: boom})

	got, err := tb.Break(context.Background(), "sek-cja", []string{"one", "two"})
	if !errors.Is(err, boom) {
		t.Errorf("Break() error = %v, want %v", err, boom)
	}
	if got != "one" {
		t.Errorf("Break() = %q, want first candidate", got)
	}
}

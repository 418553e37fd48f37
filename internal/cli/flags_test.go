package cli

import (
	"reflect"
	"runtime"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"CacheDir", flags.CacheDir, "work/ipacache"},
		{"CacheBackend", flags.CacheBackend, "json"},
		{"SaveInterval", flags.SaveInterval, 5 * time.Minute},
		{"Workers", flags.Workers, runtime.NumCPU()},
		{"BatchSize", flags.BatchSize, 500},
		{"PreserveOrder", flags.PreserveOrder, true},
		{"AtomicOutput", flags.AtomicOutput, true},
		{"Strategy", flags.Strategy, "combinatorial"},
		{"TieBreak", flags.TieBreak, "resynthesis"},
		{"MaxCandidates", flags.MaxCandidates, uint64(2_000_000)},
		{"Phonemizer", flags.Phonemizer, "espeak"},
		{"PhonemizerTimeout", flags.PhonemizerTimeout, 30 * time.Second},
		{"ESpeakBinary", flags.ESpeakBinary, "espeak-ng"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
		{"LogLevel", flags.LogLevel, "info"},
		{"LogFormat", flags.LogFormat, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"Language", flags.Language},
		{"FallbackPhonemizer", flags.FallbackPhonemizer},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}

	if flags.NoBreaker {
		t.Error("NoBreaker = true, want false")
	}
}

func TestFlagsStructure(t *testing.T) {
	// Test that Flags struct has all expected fields
	flagsType := reflect.TypeOf(Flags{})

	expectedFields := []string{
		"CfgFile", "Language",
		"CacheDir", "CacheBackend", "SaveInterval",
		"Workers", "BatchSize", "PreserveOrder", "AtomicOutput",
		"Strategy", "TieBreak", "MaxCandidates",
		"Phonemizer", "FallbackPhonemizer", "PhonemizerTimeout",
		"ESpeakBinary", "OpenAIModel", "GeminiModel", "NoBreaker",
		"LogLevel", "LogFormat",
	}

	for _, fieldName := range expectedFields {
		t.Run("has_field_"+fieldName, func(t *testing.T) {
			if _, ok := flagsType.FieldByName(fieldName); !ok {
				t.Errorf("Flags struct missing field: %s", fieldName)
			}
		})
	}
}

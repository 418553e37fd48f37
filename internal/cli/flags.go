package cli

import (
	"runtime"
	"time"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	Language string

	// Cache flags
	CacheDir     string
	CacheBackend string
	SaveInterval time.Duration

	// Batch flags
	Workers       int
	BatchSize     int
	PreserveOrder bool
	AtomicOutput  bool

	// Transfer flags
	Strategy      string
	TieBreak      string
	MaxCandidates uint64

	// Phonemizer flags
	Phonemizer         string
	FallbackPhonemizer string
	PhonemizerTimeout  time.Duration
	ESpeakBinary       string
	OpenAIModel        string
	GeminiModel        string
	NoBreaker          bool

	// Logging flags
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		CacheDir:          "work/ipacache",
		CacheBackend:      "json",
		SaveInterval:      5 * time.Minute,
		Workers:           runtime.NumCPU(),
		BatchSize:         500,
		PreserveOrder:     true,
		AtomicOutput:      true,
		Strategy:          "combinatorial",
		TieBreak:          "resynthesis",
		MaxCandidates:     2_000_000,
		Phonemizer:        "espeak",
		PhonemizerTimeout: 30 * time.Second,
		ESpeakBinary:      "espeak-ng",
		OpenAIModel:       "gpt-4o-mini",
		GeminiModel:       "gemini-2.0-flash",
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/hyphipa/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hyphipa <input_file> <output_file>",
		Short: "Transfer syllable boundaries from hyphenated words to IPA",
		Long: `hyphipa transcribes hyphenated Slavic words to IPA and places the
syllable boundaries of each word at the matching positions of its
transcription.

The language is guessed from the input file name (pl, cs, sk, uk, sl)
unless --language is given. Transcriptions are cached per language in
the cache directory, which the restore command uses to go back.

Examples:
  hyphipa words_cs.txt words_cs.ipa       # Czech words to hyphenated IPA
  hyphipa restore words_cs.ipa words.txt  # hyphenated IPA back to words
  hyphipa transfer ne-boj-sa nebojsa      # transfer a single pair`,
		Args:    cobra.ExactArgs(2),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateRestoreCommand creates the command that turns hyphenated IPA back
// into hyphenated words.
func CreateRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <input_file> <output_file>",
		Short: "Transfer boundaries from hyphenated IPA back to words",
		Long: `restore reads hyphenated IPA, looks every transcription up in the
caches found in the cache directory and writes the original word with
the boundaries of the transcription. Transcriptions missing from the
caches are written unchanged.`,
		Args: cobra.ExactArgs(2),
	}
}

// CreateTransferCommand creates the command that transfers boundaries
// between one pair of strings.
func CreateTransferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <a> <b>",
		Short: "Transfer boundaries between two strings",
		Long: `transfer places the boundaries of whichever argument carries them onto
the other one and prints the result together with the score, the
distance and any tied candidates.`,
		Args: cobra.ExactArgs(2),
	}
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.hyphipa.yaml)")
	pf.StringVarP(&flags.Language, "language", "l", "", "espeak-ng language id or code, e.g. zlw/pl or uk (default: guessed from the input file name)")

	// Cache flags
	pf.StringVar(&flags.CacheDir, "cache-dir", flags.CacheDir, "Directory holding the per language IPA caches")
	pf.StringVar(&flags.CacheBackend, "cache-backend", flags.CacheBackend, "Cache storage: json or sqlite")
	pf.DurationVar(&flags.SaveInterval, "save-interval", flags.SaveInterval, "Interval between periodic cache saves (0 disables)")

	// Batch flags
	pf.IntVarP(&flags.Workers, "workers", "j", flags.Workers, "Number of worker goroutines")
	pf.IntVar(&flags.BatchSize, "batch-size", flags.BatchSize, "Words per chunk handed to a worker")
	pf.BoolVar(&flags.PreserveOrder, "preserve-order", flags.PreserveOrder, "Write results in input order")
	pf.BoolVar(&flags.AtomicOutput, "atomic-output", flags.AtomicOutput, "Write to a temporary file and rename it on success")

	// Transfer flags
	pf.StringVar(&flags.Strategy, "strategy", flags.Strategy, "Transfer strategy: combinatorial or alignment")
	pf.StringVar(&flags.TieBreak, "tiebreak", flags.TieBreak, "Tie-break mode: resynthesis, interactive or first")
	pf.Uint64Var(&flags.MaxCandidates, "max-candidates", flags.MaxCandidates, "Candidate count above which alignment is used instead (0 means no limit)")

	// Phonemizer flags
	pf.StringVar(&flags.Phonemizer, "phonemizer", flags.Phonemizer, "Phonemizer: espeak, openai or gemini")
	pf.StringVar(&flags.FallbackPhonemizer, "fallback-phonemizer", "", "Phonemizer used when the primary one fails")
	pf.DurationVar(&flags.PhonemizerTimeout, "phonemizer-timeout", flags.PhonemizerTimeout, "Timeout of a single phonemizer call")
	pf.StringVar(&flags.ESpeakBinary, "espeak-binary", flags.ESpeakBinary, "espeak-ng executable")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used as phonemizer")
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used as phonemizer")
	pf.BoolVar(&flags.NoBreaker, "no-breaker", false, "Do not wrap phonemizers in a circuit breaker")

	// Logging flags
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"language":            "language",
	"cache-dir":           "cache.dir",
	"cache-backend":       "cache.backend",
	"save-interval":       "cache.save_interval",
	"workers":             "workers",
	"batch-size":          "batch_size",
	"preserve-order":      "preserve_order",
	"atomic-output":       "atomic_output",
	"strategy":            "transfer.strategy",
	"tiebreak":            "transfer.tiebreak",
	"max-candidates":      "transfer.max_candidates",
	"phonemizer":          "phonemizer.provider",
	"fallback-phonemizer": "phonemizer.fallback",
	"phonemizer-timeout":  "phonemizer.timeout",
	"espeak-binary":       "phonemizer.espeak_binary",
	"openai-model":        "phonemizer.openai_model",
	"gemini-model":        "phonemizer.gemini_model",
	"no-breaker":          "phonemizer.no_breaker",
	"log-level":           "log.level",
	"log-format":          "log.format",
}

func bindFlagsToViper(cmd *cobra.Command) {
	for name, key := range flagKeys {
		if flag := lookupFlag(cmd, name); flag != nil {
			viper.BindPFlag(key, flag)
		}
	}
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag
	}
	return cmd.Flags().Lookup(name)
}

// LoadConfig copies the merged flag, config file and environment values
// back into flags. Call it after InitConfig.
func LoadConfig(flags *Flags) {
	flags.Language = viper.GetString("language")
	flags.CacheDir = viper.GetString("cache.dir")
	flags.CacheBackend = viper.GetString("cache.backend")
	flags.SaveInterval = viper.GetDuration("cache.save_interval")
	flags.Workers = viper.GetInt("workers")
	flags.BatchSize = viper.GetInt("batch_size")
	flags.PreserveOrder = viper.GetBool("preserve_order")
	flags.AtomicOutput = viper.GetBool("atomic_output")
	flags.Strategy = viper.GetString("transfer.strategy")
	flags.TieBreak = viper.GetString("transfer.tiebreak")
	flags.MaxCandidates = viper.GetUint64("transfer.max_candidates")
	flags.Phonemizer = viper.GetString("phonemizer.provider")
	flags.FallbackPhonemizer = viper.GetString("phonemizer.fallback")
	flags.PhonemizerTimeout = viper.GetDuration("phonemizer.timeout")
	flags.ESpeakBinary = viper.GetString("phonemizer.espeak_binary")
	flags.OpenAIModel = viper.GetString("phonemizer.openai_model")
	flags.GeminiModel = viper.GetString("phonemizer.gemini_model")
	flags.NoBreaker = viper.GetBool("phonemizer.no_breaker")
	flags.LogLevel = viper.GetString("log.level")
	flags.LogFormat = viper.GetString("log.format")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// API keys may live in a .env file next to the word lists
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".hyphipa" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hyphipa")
	}

	// Environment variables, e.g. HYPHIPA_CACHE_DIR for cache.dir
	viper.SetEnvPrefix("HYPHIPA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("phonemizer.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return viper.GetString("phonemizer.gemini_key")
}

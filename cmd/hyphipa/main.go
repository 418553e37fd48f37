package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/cli"
	"codeberg.org/snonux/hyphipa/internal/language"
	"codeberg.org/snonux/hyphipa/internal/logging"
	"codeberg.org/snonux/hyphipa/internal/processor"
	"codeberg.org/snonux/hyphipa/internal/transfer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	restoreCmd := cli.CreateRestoreCommand()
	transferCmd := cli.CreateTransferCommand()
	rootCmd.AddCommand(restoreCmd, transferCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.LoadConfig(flags)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runBatch(ctx, args[0], args[1], flags)
	}
	restoreCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runRestore(ctx, args[0], args[1], flags)
	}
	transferCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runTransfer(ctx, cmd, args[0], args[1], flags)
	}

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger(flags *cli.Flags) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  flags.LogLevel,
		Format: flags.LogFormat,
	})
	if err != nil {
		return nil, err
	}
	logger, _ = logging.WithRunID(logger)
	return logger, nil
}

func runBatch(ctx context.Context, inputFile, outputFile string, flags *cli.Flags) error {
	logger, err := newLogger(flags)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	lang := language.Resolve(flags.Language)
	if lang == "" {
		var found bool
		lang, found = language.Detect(inputFile)
		if !found {
			logger.Info("no language hint in file name, using default",
				zap.String("file", inputFile),
				zap.String("language", lang))
		}
	}

	proc, err := processor.NewProcessor(ctx, flags, lang, logger)
	if err != nil {
		return err
	}
	return proc.Run(ctx, inputFile, outputFile)
}

func runRestore(ctx context.Context, inputFile, outputFile string, flags *cli.Flags) error {
	logger, err := newLogger(flags)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	proc, err := processor.NewRestoreProcessor(flags, logger)
	if err != nil {
		return err
	}
	return proc.Restore(ctx, inputFile, outputFile)
}

func runTransfer(ctx context.Context, cmd *cobra.Command, a, b string, flags *cli.Flags) error {
	strategy, err := transfer.ParseStrategy(flags.Strategy)
	if err != nil {
		return err
	}
	opts := transfer.DefaultOptions()
	opts.Strategy = strategy
	opts.MaxCandidates = flags.MaxCandidates

	var tb transfer.TieBreaker = transfer.FirstSeen{}
	if flags.TieBreak == transfer.TieBreakInteractive {
		tb = transfer.NewInteractive(os.Stdin, os.Stderr)
	}
	engine := transfer.NewEngine(opts, tb)

	res, err := engine.Transform(ctx, a, b)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Word)
	if res.Aligned {
		fmt.Fprintln(out, "  strategy: alignment")
		return nil
	}
	fmt.Fprintf(out, "  candidates: %d, score: %d, distance: %d\n", res.Candidates, res.Score, res.Distance)
	if !res.Tied {
		return nil
	}

	hyphenated, phonetic := a, b
	if !strings.ContainsRune(a, transfer.Marker) && strings.ContainsRune(b, transfer.Marker) {
		hyphenated, phonetic = b, a
	}
	survivors, err := engine.Survivors(ctx, hyphenated, phonetic)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  tied: %s\n", strings.Join(survivors, ", "))
	return nil
}

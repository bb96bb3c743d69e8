package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"tsh/internal/config"
	"tsh/internal/shell"
)

const version = "0.1.0"

type options struct {
	configFile string
	verbose    bool
	noPrompt   bool
}

func rootCmd() *cobra.Command {
	opts := &options{}

	c := &cobra.Command{
		Use:           "tsh",
		Short:         "A tiny shell with job control",
		Example:       "  tsh -p < trace.txt",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	c.CompletionOptions.HiddenDefaultCmd = true

	bindFlags(c.Flags(), opts)

	return c
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Print additional diagnostic information")
	fs.BoolVarP(&opts.noPrompt, "no-prompt", "p", false, "Do not emit a command prompt")
	fs.StringVar(&opts.configFile, "config", "tsh.yml", "Path to an optional YAML config file")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	).With("session", uuid.NewString())
}

func run(opts *options) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := newLogger(opts.verbose)
	slog.SetDefault(logger)

	s, err := shell.New(cfg, shell.Options{
		Logger:     logger,
		EmitPrompt: !opts.noPrompt,
	})
	if err != nil {
		return fmt.Errorf("error initializing shell: %w", err)
	}
	defer s.Close()

	logger.Debug("shell started", "max_jobs", cfg.MaxJobs, "poll_interval", cfg.PollInterval)

	return s.Run()
}

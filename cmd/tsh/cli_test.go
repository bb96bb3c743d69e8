package main

import (
	"context"
	"log/slog"
	"testing"
)

func TestCli(t *testing.T) {
	t.Run("Test shorthand flags", func(t *testing.T) {
		cmd := rootCmd()

		if err := cmd.ParseFlags([]string{"-v", "-p", "--config", "other.yml"}); err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		for name, want := range map[string]string{
			"verbose":   "true",
			"no-prompt": "true",
			"config":    "other.yml",
		} {
			if got := cmd.Flags().Lookup(name).Value.String(); got != want {
				t.Errorf("expected flag %s: got '%s', want '%s'", name, got, want)
			}
		}
	})

	t.Run("Test defaults", func(t *testing.T) {
		cmd := rootCmd()

		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if got := cmd.Flags().Lookup("no-prompt").Value.String(); got != "false" {
			t.Errorf("expected prompt by default: got '%s'", got)
		}
	})

	t.Run("Test help does not start the shell", func(t *testing.T) {
		cmd := rootCmd()
		cmd.SetArgs([]string{"-h"})
		cmd.SetOut(&discard{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}
	})

	t.Run("Test positional arguments rejected", func(t *testing.T) {
		cmd := rootCmd()
		cmd.SetArgs([]string{"extra"})
		cmd.SetOut(&discard{})
		cmd.SetErr(&discard{})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for positional argument")
		}
	})

	t.Run("Test verbose logger level", func(t *testing.T) {
		ctx := context.Background()

		if newLogger(false).Enabled(ctx, slog.LevelDebug) {
			t.Error("expected debug disabled without -v")
		}
		if !newLogger(true).Enabled(ctx, slog.LevelDebug) {
			t.Error("expected debug enabled with -v")
		}
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}

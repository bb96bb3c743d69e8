package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPrompt       = "tsh> "
	DefaultMaxJobs      = 16
	DefaultPollInterval = 100 * time.Millisecond
)

type Config struct {
	Prompt       string        `yaml:"prompt"`
	MaxJobs      int           `yaml:"max_jobs"`
	PollInterval time.Duration `yaml:"poll_interval"`
	HistoryFile  string        `yaml:"history_file"`
	HomeDir      string        `yaml:"home_dir"`
}

// Load reads the YAML file at file, if it exists, then applies TSH_*
// environment overrides and fills in defaults. Variables from a .env file
// in the working directory are loaded first but never replace variables
// already set in the environment.
func Load(file string) (*Config, error) {
	cfg := &Config{}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TSH_PROMPT"); v != "" {
		c.Prompt = v
	}

	if v := os.Getenv("TSH_MAX_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TSH_MAX_JOBS: %w", err)
		}
		c.MaxJobs = n
	}

	if v := os.Getenv("TSH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TSH_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}

	if v := os.Getenv("TSH_HISTORY_FILE"); v != "" {
		c.HistoryFile = v
	}

	return nil
}

func (c *Config) setDefaults() error {
	var err error

	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}

	if c.MaxJobs == 0 {
		c.MaxJobs = DefaultMaxJobs
	}

	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}

	if c.HomeDir == "" {
		c.HomeDir, err = os.UserHomeDir()
		if err != nil {
			return err
		}
	}

	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, ".tsh_history")
	}

	return nil
}

func (c *Config) validate() error {
	if c.MaxJobs < 1 {
		return errors.New("max_jobs must be at least 1")
	}

	if c.PollInterval < time.Millisecond {
		return errors.New("poll_interval must be at least 1ms")
	}

	return nil
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// StoreConfig holds the database and logging settings.
type StoreConfig struct {
	LogLevel     string `json:"log_level"`
	DatabasePath string `json:"database_path"`
}

// ModelConfig holds the settings used to build, train and sample a table.
type ModelConfig struct {
	ChainLength     int    `json:"chain_length"`
	Alphabet        string `json:"alphabet"`
	GeneratedCount  int    `json:"generated_count"`
	Seed            uint64 `json:"seed"`
	MaxLength       int    `json:"max_length"`
	MinWordLength   int    `json:"min_word_length"`
	MaxWordLength   int    `json:"max_word_length"`
	TrainAccepted   bool   `json:"train_accepted"`
	ReviewRounds    int    `json:"review_rounds"`
	DumpFormat      string `json:"dump_format"`
	IgnoreEmptyRows bool   `json:"ignore_empty_rows"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Store *StoreConfig `json:"store_config"`
	Model *ModelConfig `json:"model_config"`
}

// DefaultStoreConfig creates a store configuration with default values.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		LogLevel:     "info",
		DatabasePath: "./glossa.db?_journal_mode=WAL&_busy_timeout=5000",
	}
}

// DefaultModelConfig creates a model configuration with default values.
func DefaultModelConfig() *ModelConfig {
	return &ModelConfig{
		ChainLength:     3,
		Alphabet:        "abcdefghijklmnopqrstuvwxyz",
		GeneratedCount:  32,
		Seed:            0,
		MaxLength:       0,
		MinWordLength:   1,
		MaxWordLength:   0,
		TrainAccepted:   true,
		ReviewRounds:    3,
		DumpFormat:      "csv",
		IgnoreEmptyRows: true,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Store: DefaultStoreConfig(),
		Model: DefaultModelConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The defaults are still usable without a file on disk.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports settings that can never produce a working table.
func (c *Config) Validate() error {
	if c.Store == nil || c.Model == nil {
		return fmt.Errorf("config is missing the store_config or model_config section")
	}
	if c.Model.ChainLength <= 0 {
		return fmt.Errorf("chain_length must be greater than 0, got %d", c.Model.ChainLength)
	}
	if c.Model.Alphabet == "" {
		return fmt.Errorf("alphabet must not be empty")
	}
	// An order 1 table never learns a context that ends in the boundary, so
	// only the length cap can end a word.
	if c.Model.ChainLength == 1 && c.Model.MaxLength <= 0 {
		return fmt.Errorf("max_length must be greater than 0 when chain_length is 1")
	}
	if c.Model.ReviewRounds < 0 {
		return fmt.Errorf("review_rounds must not be negative, got %d", c.Model.ReviewRounds)
	}
	if c.Model.GeneratedCount < 0 {
		return fmt.Errorf("generated_count must not be negative, got %d", c.Model.GeneratedCount)
	}
	return nil
}

// parseLogLevel maps a config log level to its slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Model.ChainLength != 3 || config.Model.GeneratedCount != 32 {
		t.Errorf("unexpected defaults %+v", config.Model)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}

	// The written file loads back to the same values.
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("second LoadConfig() error = %v", err)
	}
	if *again.Model != *config.Model || *again.Store != *config.Store {
		t.Errorf("reloaded config differs: %+v vs %+v", again.Model, config.Model)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"model_config": {"chain_length": 4, "alphabet": "abc"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Model.ChainLength != 4 || config.Model.Alphabet != "abc" {
		t.Errorf("overrides not applied: %+v", config.Model)
	}
	if config.Store.LogLevel != "info" {
		t.Errorf("expected untouched section to keep defaults, got %+v", config.Store)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := map[string]string{
		"Malformed json":     `{"model_config": `,
		"Zero chain length":  `{"model_config": {"chain_length": 0}}`,
		"Empty alphabet":     `{"model_config": {"alphabet": ""}}`,
		"Negative count":     `{"model_config": {"generated_count": -1}}`,
		"Null section":       `{"store_config": null}`,
		"Order one uncapped": `{"model_config": {"chain_length": 1, "max_length": 0}}`,
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("expected an error for %s", strings.ToLower(name))
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelInfo,
	}
	for in, want := range testCases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

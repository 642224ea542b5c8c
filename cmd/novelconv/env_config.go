package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-novelconv/internal/config"
)

const envPrefix = "NOVELCONV_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // NOVELCONV_CONFIG: config file name or path
	From       string        // NOVELCONV_FROM: reader dialect
	To         string        // NOVELCONV_TO: writer dialect or pdf
	Style      string        // NOVELCONV_STYLE: HTML style name
	Timeout    time.Duration // NOVELCONV_TIMEOUT: PDF generation timeout
	OutputDir  string        // NOVELCONV_OUTPUT_DIR: default output directory
	Paper      string        // NOVELCONV_PAPER: a4, a5, b6, letter
	Workers    int           // NOVELCONV_WORKERS: parallel workers
}

// knownEnvVars lists valid NOVELCONV_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NOVELCONV_CONFIG":     true,
	"NOVELCONV_FROM":       true,
	"NOVELCONV_TO":         true,
	"NOVELCONV_STYLE":      true,
	"NOVELCONV_TIMEOUT":    true,
	"NOVELCONV_OUTPUT_DIR": true,
	"NOVELCONV_PAPER":      true,
	"NOVELCONV_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("NOVELCONV_CONFIG"),
		From:       os.Getenv("NOVELCONV_FROM"),
		To:         os.Getenv("NOVELCONV_TO"),
		Style:      os.Getenv("NOVELCONV_STYLE"),
		OutputDir:  os.Getenv("NOVELCONV_OUTPUT_DIR"),
		Paper:      os.Getenv("NOVELCONV_PAPER"),
	}

	if timeout := os.Getenv("NOVELCONV_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("NOVELCONV_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized NOVELCONV_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// Flags are merged afterwards and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.From != "" && cfg.Convert.From == "" {
		cfg.Convert.From = env.From
	}
	if env.To != "" && cfg.Convert.To == "" {
		cfg.Convert.To = env.To
	}
	if env.Workers > 0 && cfg.Convert.Workers == 0 {
		cfg.Convert.Workers = env.Workers
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Style != "" && cfg.HTML.Style == "" {
		cfg.HTML.Style = env.Style
	}
	if env.Paper != "" && cfg.PDF.Paper == "" {
		cfg.PDF.Paper = env.Paper
	}
	if env.Timeout > 0 && cfg.PDF.Timeout == "" {
		cfg.PDF.Timeout = env.Timeout.String()
	}
}

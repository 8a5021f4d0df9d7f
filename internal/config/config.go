// Package config loads process-level configuration from the environment.
//
// Configuration is read exactly once at startup; the resulting Config struct
// is passed to constructors and never re-read during a tool call.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultModel   = "gemini-2.5-flash-image"
	DefaultTimeout = 60 * time.Second

	// DefaultOutputSubdir is created under the working directory when no
	// output directory is configured.
	DefaultOutputSubdir = "imagegen-output"
)

// DefaultFallbackModels is the ordered fallback chain used when
// IMAGEGEN_FALLBACK_MODELS is unset. The stable release is tried before the
// experimental one.
var DefaultFallbackModels = []string{
	"gemini-2.5-flash-image",
	"gemini-2.0-flash-exp-image-generation",
}

// apiKeySources lists the accepted API key environment variables in
// priority order. The IMAGEGEN_-prefixed variants let this server hold a
// key distinct from other tools sharing the shell environment.
var apiKeySources = []struct {
	EnvVar  string
	KeyType string
}{
	{"IMAGEGEN_GEMINI_API_KEY", "GEMINI_API_KEY"},
	{"IMAGEGEN_GOOGLE_API_KEY", "GOOGLE_API_KEY"},
	{"GEMINI_API_KEY", "GEMINI_API_KEY"},
	{"GOOGLE_API_KEY", "GOOGLE_API_KEY"},
}

// Config holds everything the server reads from the environment.
type Config struct {
	// APIKey authenticates requests to the generative API.
	APIKey string

	// KeyType records which family of key was found ("GEMINI_API_KEY" or
	// "GOOGLE_API_KEY"); used only for diagnostics.
	KeyType string

	// PrimaryModel is the model tried first for every attempt.
	PrimaryModel string

	// FallbackModels is the configured fallback chain, in order. It may or
	// may not include PrimaryModel; candidate-list construction handles
	// deduplication.
	FallbackModels []string

	// Timeout bounds each individual remote call.
	Timeout time.Duration

	// OutputDir is where artifacts are written.
	OutputDir string

	// Debug enables debug-level logging.
	Debug bool

	// NoPreview globally suppresses viewer launching, overriding any
	// per-call preview flag.
	NoPreview bool
}

// Load reads configuration from the environment.
//
// It fails only when no API key is present; every other setting has a
// default. The output directory is not created here — creation and the
// writability probe happen per batch.
func Load() (*Config, error) {
	cfg := &Config{
		PrimaryModel:   DefaultModel,
		FallbackModels: append([]string(nil), DefaultFallbackModels...),
		Timeout:        DefaultTimeout,
		Debug:          os.Getenv("IMAGEGEN_DEBUG") != "",
		NoPreview:      os.Getenv("IMAGEGEN_NO_PREVIEW") != "",
	}

	for _, src := range apiKeySources {
		if key := os.Getenv(src.EnvVar); key != "" {
			cfg.APIKey = key
			cfg.KeyType = src.KeyType
			break
		}
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key found: set IMAGEGEN_GEMINI_API_KEY, IMAGEGEN_GOOGLE_API_KEY, GEMINI_API_KEY, or GOOGLE_API_KEY")
	}

	if model := os.Getenv("IMAGEGEN_MODEL"); model != "" {
		cfg.PrimaryModel = model
	}

	if raw := os.Getenv("IMAGEGEN_FALLBACK_MODELS"); raw != "" {
		cfg.FallbackModels = splitModels(raw)
	}

	if raw := os.Getenv("IMAGEGEN_TIMEOUT"); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid IMAGEGEN_TIMEOUT value %q: want a positive number of seconds", raw)
		}
		cfg.Timeout = time.Duration(seconds * float64(time.Second))
	}

	if dir := os.Getenv("IMAGEGEN_OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		cfg.OutputDir = filepath.Join(cwd, DefaultOutputSubdir)
	}

	return cfg, nil
}

// splitModels parses a comma-separated model list, dropping empty entries.
func splitModels(raw string) []string {
	var models []string
	for _, part := range strings.Split(raw, ",") {
		if m := strings.TrimSpace(part); m != "" {
			models = append(models, m)
		}
	}
	return models
}

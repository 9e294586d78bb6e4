package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Transcribe TranscribeConfig `toml:"transcribe"`
	Logging    LoggingConfig    `toml:"logging"`
}

// LLMConfig contains remote generation provider configuration
type LLMConfig struct {
	Provider        string  `toml:"provider"`          // "gemini" (default) or "claude"
	Model           string  `toml:"model"`             // Model identifier (provider default when empty)
	GoogleAPIKey    string  `toml:"google_api_key"`    // Gemini API key
	AnthropicAPIKey string  `toml:"anthropic_api_key"` // Claude API key
	Timeout         string  `toml:"timeout"`           // Per-call timeout, e.g. "300s"
	Temperature     float32 `toml:"temperature"`       // Generation temperature
	MediaResolution string  `toml:"media_resolution"`  // "low", "medium", "high" (Gemini only)
	IncludeThoughts bool    `toml:"include_thoughts"`  // Request hidden reasoning parts
	RateLimit       float64 `toml:"rate_limit"`        // Remote submissions per second (0 = unlimited)
}

// TranscribeConfig contains run-level settings
type TranscribeConfig struct {
	OutputDir     string `toml:"output_dir"`      // Directory for transcripts, metadata and page files
	MaxParallel   int    `toml:"max_parallel"`    // Worker cap for parallel page processing
	Overwrite     bool   `toml:"overwrite"`       // Re-run even when the transcript already exists
	KeepPageFiles bool   `toml:"keep_page_files"` // Skip temporary page-file cleanup
	RenderPDF     bool   `toml:"render_pdf"`      // Also render the transcript to PDF
	PromptFile    string `toml:"prompt_file"`     // Prompt template path (built-in default when empty)
}

// LoggingConfig controls log level and sinks
type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// DefaultMaxParallel caps concurrent remote calls per run.
const DefaultMaxParallel = 10

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        "gemini",
			Timeout:         "300s",
			Temperature:     0,
			MediaResolution: "high",
			IncludeThoughts: true,
		},
		Transcribe: TranscribeConfig{
			OutputDir:   "./output",
			MaxParallel: DefaultMaxParallel,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFile loads configuration in priority order:
// defaults -> TOML file (optional) -> SCRIBO_* environment overrides.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies SCRIBO_* environment variables over the loaded
// configuration. Only variables that are set take effect. The plain
// GEMINI_API_KEY / ANTHROPIC_API_KEY names are honored as fallbacks.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SCRIBO_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("SCRIBO_LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	if v := os.Getenv("SCRIBO_LLM_GOOGLE_API_KEY"); v != "" {
		config.LLM.GoogleAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.LLM.GoogleAPIKey == "" {
		config.LLM.GoogleAPIKey = v
	}
	if v := os.Getenv("SCRIBO_LLM_ANTHROPIC_API_KEY"); v != "" {
		config.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.LLM.AnthropicAPIKey == "" {
		config.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("SCRIBO_OUTPUT_DIR"); v != "" {
		config.Transcribe.OutputDir = v
	}
	if v := os.Getenv("SCRIBO_MAX_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Transcribe.MaxParallel = n
		}
	}
	if v := os.Getenv("SCRIBO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "gemini", "claude":
	default:
		return fmt.Errorf("invalid llm provider '%s': must be 'gemini' or 'claude'", c.LLM.Provider)
	}

	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("invalid llm timeout '%s': %w", c.LLM.Timeout, err)
	}

	if c.Transcribe.MaxParallel <= 0 {
		c.Transcribe.MaxParallel = DefaultMaxParallel
	}

	return nil
}

// CallTimeout returns the parsed per-call timeout. Validate has already
// checked the duration string.
func (c *LLMConfig) CallTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 300 * time.Second
	}
	return d
}

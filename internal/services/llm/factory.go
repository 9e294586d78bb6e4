// Package llm implements the remote transcription providers. Each provider
// owns the per-unit remote lifecycle: upload, single-shot generation, and
// handle cleanup. Per-unit failures are returned as placeholder outputs, not
// errors, so the dispatcher never sees an exception cross a worker boundary.
package llm

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
)

// NewGenerator creates the appropriate transcription provider based on
// configuration.
func NewGenerator(cfg *common.LLMConfig, logger arbor.ILogger) (interfaces.Generator, error) {
	provider := strings.ToLower(cfg.Provider)
	logger.Info().Str("provider", provider).Msg("Initializing generation provider")

	switch provider {
	case "gemini", "":
		return NewGeminiService(cfg, logger)
	case "claude":
		return NewClaudeService(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

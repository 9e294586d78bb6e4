package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-sonnet-4-20250514"

// claudeMaxTokens bounds the response size for a single page transcript.
const claudeMaxTokens = 8192

// ClaudeService implements the Generator interface against the Anthropic
// API. Claude exposes no separate upload surface, so the "upload" stage is
// reading and base64-encoding the local file into a document or image
// content block, and remote handle release is a no-op.
type ClaudeService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  anthropic.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// Compile-time interface assertion
var _ interfaces.Generator = (*ClaudeService)(nil)

// NewClaudeService creates a new Claude transcription provider.
func NewClaudeService(cfg *common.LLMConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, errMissingKey("Anthropic", "ANTHROPIC_API_KEY, SCRIBO_LLM_ANTHROPIC_API_KEY, or llm.anthropic_api_key in config")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
	)

	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	service := &ClaudeService{
		config:  cfg,
		logger:  logger,
		client:  client,
		model:   model,
		timeout: cfg.CallTimeout(),
		limiter: newLimiter(cfg.RateLimit),
	}

	logger.Info().
		Str("model", model).
		Dur("timeout", service.timeout).
		Msg("Claude generation service initialized")

	return service, nil
}

// Model returns the model identifier used for generation.
func (s *ClaudeService) Model() string {
	return s.model
}

// Close releases client resources. The Anthropic client holds no
// connections that need explicit shutdown.
func (s *ClaudeService) Close() error {
	return nil
}

// TranscribeFile inlines one file as a content block and runs a single-shot
// generation against it.
func (s *ClaudeService) TranscribeFile(ctx context.Context, filePath, prompt string) *models.UnitOutput {
	name := filepath.Base(filePath)

	if err := s.limiter.Wait(ctx); err != nil {
		return uploadFailure(name, err)
	}

	fileBlock, err := s.buildFileBlock(filePath)
	if err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("Failed to prepare file content")
		return uploadFailure(name, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(claudeMaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				fileBlock,
			),
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	s.logger.Info().Str("file", name).Str("model", s.model).Msg("Generating content")
	resp, err := s.client.Messages.New(callCtx, params)
	if err != nil {
		if IsRateLimitError(err) {
			s.logger.Error().Err(err).Str("file", name).Msg("Generation hit rate limit")
		} else {
			s.logger.Error().Err(err).Str("file", name).Msg("Failed to generate content")
		}
		return generateFailure(name, err)
	}

	return parseClaudeResponse(resp)
}

// buildFileBlock reads the file and wraps it in the content block matching
// its type: PDFs as document blocks, known raster formats as image blocks.
func (s *ClaudeService) buildFileBlock(filePath string) (anthropic.ContentBlockParamUnion, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("failed to read file: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: encoded}), nil
	case ".png":
		return anthropic.NewImageBlockBase64("image/png", encoded), nil
	case ".jpg", ".jpeg":
		return anthropic.NewImageBlockBase64("image/jpeg", encoded), nil
	case ".gif":
		return anthropic.NewImageBlockBase64("image/gif", encoded), nil
	case ".webp":
		return anthropic.NewImageBlockBase64("image/webp", encoded), nil
	default:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("unsupported file type %q for claude provider", filepath.Ext(filePath))
	}
}

// parseClaudeResponse splits response blocks into visible text and hidden
// thinking content, preserving received order within each group.
func parseClaudeResponse(resp *anthropic.Message) *models.UnitOutput {
	var text, thought strings.Builder

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "thinking":
			thought.WriteString(block.Thinking)
		}
	}

	output := &models.UnitOutput{
		Text:    text.String(),
		Thought: thought.String(),
	}

	inTokens := int32(resp.Usage.InputTokens)
	outTokens := int32(resp.Usage.OutputTokens)
	output.Usage = &models.TokenUsage{
		PromptTokens: inTokens,
		OutputTokens: outTokens,
		TotalTokens:  inTokens + outTokens,
	}

	return output
}

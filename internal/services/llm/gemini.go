package llm

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-3-pro-preview"

// GeminiService implements the Generator interface against the Gemini API.
// Each unit is uploaded through the Files API, referenced by URI in a
// single-shot generation call, and deleted remotely afterwards.
type GeminiService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// Compile-time interface assertion
var _ interfaces.Generator = (*GeminiService)(nil)

// NewGeminiService creates a new Gemini transcription provider.
func NewGeminiService(cfg *common.LLMConfig, logger arbor.ILogger) (*GeminiService, error) {
	if cfg.GoogleAPIKey == "" {
		return nil, errMissingKey("Google", "GEMINI_API_KEY, SCRIBO_LLM_GOOGLE_API_KEY, or llm.google_api_key in config")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errClientInit("genai", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	service := &GeminiService{
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
		Float64("rate_limit", cfg.RateLimit).
		Msg("Gemini generation service initialized")

	return service, nil
}

// Model returns the model identifier used for generation.
func (s *GeminiService) Model() string {
	return s.model
}

// Close releases client resources. The genai client holds no connections
// that need explicit shutdown.
func (s *GeminiService) Close() error {
	s.client = nil
	return nil
}

// TranscribeFile uploads one file, runs a single-shot generation against it,
// and parses the response into visible text, hidden reasoning text, and
// usage counters. The uploaded remote handle is deleted in a deferred
// cleanup that runs on every path; cleanup failure is logged, never fatal.
func (s *GeminiService) TranscribeFile(ctx context.Context, filePath, prompt string) *models.UnitOutput {
	name := filepath.Base(filePath)

	if err := s.limiter.Wait(ctx); err != nil {
		return uploadFailure(name, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info().Str("file", name).Msg("Uploading file chunk")
	uploaded, err := s.client.Files.UploadFromPath(callCtx, filePath, nil)
	if err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("Failed to upload file")
		return uploadFailure(name, err)
	}
	s.logger.Debug().Str("file", name).Str("uri", uploaded.URI).Msg("File uploaded")

	// Cleanup runs regardless of generation outcome. A fresh context is used
	// so an interrupted run still gets a chance to release the handle.
	defer func() {
		deleteCtx, deleteCancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer deleteCancel()
		if _, err := s.client.Files.Delete(deleteCtx, uploaded.Name, nil); err != nil {
			s.logger.Warn().Err(err).Str("remote", uploaded.Name).Msg("Failed to delete remote file")
		} else {
			s.logger.Debug().Str("remote", uploaded.Name).Msg("Deleted remote file")
		}
	}()

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
		},
	}}

	s.logger.Info().Str("file", name).Str("model", s.model).Msg("Generating content")
	resp, err := s.client.Models.GenerateContent(callCtx, s.model, contents, s.generateConfig())
	if err != nil {
		if IsRateLimitError(err) {
			s.logger.Error().Err(err).Str("file", name).Dur("suggested_delay", ExtractRetryDelay(err)).Msg("Generation hit rate limit")
		} else {
			s.logger.Error().Err(err).Str("file", name).Msg("Failed to generate content")
		}
		return generateFailure(name, err)
	}

	return parseGeminiResponse(resp)
}

// generateConfig builds the generation options from configuration.
func (s *GeminiService) generateConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}

	if s.config.IncludeThoughts {
		config.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
		}
	}

	switch strings.ToLower(s.config.MediaResolution) {
	case "low":
		config.MediaResolution = genai.MediaResolutionLow
	case "medium":
		config.MediaResolution = genai.MediaResolutionMedium
	case "high", "":
		config.MediaResolution = genai.MediaResolutionHigh
	}

	return config
}

// parseGeminiResponse splits the first candidate's parts into hidden
// ("thought") and visible segments, preserving received order within each
// group, and extracts usage counters when present.
func parseGeminiResponse(resp *genai.GenerateContentResponse) *models.UnitOutput {
	var text, thought strings.Builder

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if part.Thought {
				thought.WriteString(part.Text)
			} else {
				text.WriteString(part.Text)
			}
		}
	}

	output := &models.UnitOutput{
		Text:    text.String(),
		Thought: thought.String(),
	}

	if um := resp.UsageMetadata; um != nil {
		output.Usage = &models.TokenUsage{
			PromptTokens: um.PromptTokenCount,
			OutputTokens: um.CandidatesTokenCount,
			TotalTokens:  um.TotalTokenCount,
		}
	}

	return output
}

// newLimiter builds the submission pacer. Zero or negative means unlimited.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// -----------------------------------------------------------------------
// Transcription run orchestration
// -----------------------------------------------------------------------

// Package transcriber orchestrates one transcription run: resolve the input
// (downloading remote sources), split multi-page documents into per-page
// work files, dispatch the units to the generation provider in parallel,
// aggregate the ordered results, persist the transcript and run metadata,
// and clean up intermediates.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/dispatch"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// Request describes one transcription invocation.
type Request struct {
	Input    string // Local file path or http(s) URL
	Pages    string // Page-range spec, e.g. "1-3,5" (PDF only, empty = all)
	KeepText bool   // Keep the embedded recognizable-text layer when splitting
}

// Service runs transcription requests end to end.
type Service struct {
	config     *common.Config
	logger     arbor.ILogger
	generator  interfaces.Generator
	splitter   interfaces.DocumentSplitter
	downloader interfaces.Downloader
}

// NewService creates a transcription service from its collaborators.
func NewService(config *common.Config, generator interfaces.Generator, splitter interfaces.DocumentSplitter, downloader interfaces.Downloader, logger arbor.ILogger) *Service {
	return &Service{
		config:     config,
		logger:     logger,
		generator:  generator,
		splitter:   splitter,
		downloader: downloader,
	}
}

// Run performs one transcription run. Pre-flight failures (download, page
// selection, prompt loading) abort with an error; per-unit remote failures
// degrade the transcript instead, because a partial transcription is
// strictly more useful than a total failure. An already-existing transcript
// without the overwrite flag skips the run and returns nil.
func (s *Service) Run(ctx context.Context, req Request) error {
	if req.Input == "" {
		return errors.New("input file must be provided")
	}

	outputDir := s.config.Transcribe.OutputDir

	localPath := req.Input
	originURL := ""
	if strings.HasPrefix(req.Input, "http://") || strings.HasPrefix(req.Input, "https://") {
		downloaded, err := s.downloader.Download(ctx, req.Input, outputDir)
		if err != nil {
			return fmt.Errorf("failed to download input: %w", err)
		}
		localPath = downloaded
		originURL = req.Input
	}
	s.logger.Info().Str("path", localPath).Msg("Using local file")

	inputName := filepath.Base(localPath)
	transcriptPath := filepath.Join(outputDir, inputName+".md")

	if !s.config.Transcribe.Overwrite {
		if _, err := os.Stat(transcriptPath); err == nil {
			s.logger.Info().Str("path", transcriptPath).Msg("Output file already exists, skipping run")
			return nil
		}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	isPDF := strings.EqualFold(filepath.Ext(localPath), ".pdf")
	textStripped := false

	var files []string
	if isPDF {
		split, err := s.splitter.Split(ctx, localPath, req.Pages, req.KeepText, outputDir)
		if err != nil {
			return err
		}
		files = split
		textStripped = !req.KeepText
	} else {
		files = []string{localPath}
	}

	items := make([]models.WorkItem, len(files))
	for i, path := range files {
		items[i] = models.WorkItem{Index: i, Path: path}
	}

	template, err := loadPromptTemplate(s.config.Transcribe.PromptFile)
	if err != nil {
		return err
	}
	prompt := renderPrompt(template, inputName, req.Pages, s.logger)

	runID := uuid.New().String()
	s.logger.Info().
		Str("run_id", runID).
		Int("parts", len(items)).
		Str("model", s.generator.Model()).
		Msg("Starting transcription")

	dispatcher := dispatch.NewDispatcher(s.config.Transcribe.MaxParallel, s.logger, func(completed, total int) {
		s.logger.Info().Int("completed", completed).Int("total", total).Msg("Parts completed")
	})

	start := time.Now()
	results := dispatcher.Run(ctx, items, func(ctx context.Context, item models.WorkItem) *models.UnitOutput {
		return s.generator.TranscribeFile(ctx, item.Path, prompt)
	})
	elapsed := time.Since(start)

	interrupted := ctx.Err() != nil
	agg := aggregateResults(results, len(items))

	run := &models.RunResult{
		RunID:       runID,
		Text:        agg.Text,
		Parts:       len(items),
		TotalTokens: agg.TotalTokens,
		HasUsage:    agg.HasUsage,
		Thoughts:    agg.Thoughts,
		Elapsed:     elapsed,
		Partial:     interrupted || agg.Missing > 0,
	}

	if run.Partial {
		s.logger.Warn().
			Int("missing", agg.Missing).
			Bool("interrupted", interrupted).
			Msg("Run degraded - output is partial")
	}
	s.logger.Info().Dur("elapsed", elapsed).Msg("All parts processed")

	if err := os.WriteFile(transcriptPath, []byte(run.Text), 0644); err != nil {
		return fmt.Errorf("failed to write transcript %s: %w", transcriptPath, err)
	}
	s.logger.Info().Str("path", transcriptPath).Msg("Transcription saved")

	metaPath := metaPathFor(transcriptPath)
	if err := writeMetaFile(metaPath, metaRecord{
		Model:        s.generator.Model(),
		Provider:     s.config.LLM.Provider,
		Prompt:       prompt,
		InputName:    inputName,
		OriginURL:    originURL,
		PageSpec:     req.Pages,
		TextStripped: textStripped,
		Run:          run,
	}); err != nil {
		return fmt.Errorf("failed to write metadata %s: %w", metaPath, err)
	}
	s.logger.Info().Str("path", metaPath).Msg("Meta information saved")

	if s.config.Transcribe.RenderPDF {
		pdfPath := strings.TrimSuffix(transcriptPath, ".md") + ".transcript.pdf"
		if err := renderTranscriptPDF(run.Text, pdfPath, s.logger); err != nil {
			// Rendering is a convenience output; the transcript is already
			// persisted, so log and keep the run successful.
			s.logger.Warn().Err(err).Msg("Failed to render transcript PDF")
		}
	}

	if isPDF && !s.config.Transcribe.KeepPageFiles {
		cleanupPageFiles(files, s.logger)
	}

	if run.HasUsage {
		s.logger.Info().Int("total_tokens", int(run.TotalTokens)).Msg("Total token usage")
	}

	return nil
}

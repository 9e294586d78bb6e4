// -----------------------------------------------------------------------
// scribo - parallel document transcription via remote LLM services
// -----------------------------------------------------------------------

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/pdf"
	"github.com/ternarybob/scribo/internal/services/llm"
	"github.com/ternarybob/scribo/internal/transcriber"
)

var (
	// Command-line flags
	configFile   = flag.String("config", "", "Configuration file path (default: scribo.toml when present)")
	inputFile    = flag.String("input-file", "", "Path or URL of the file to transcribe (image or PDF)")
	inputFileIF  = flag.String("if", "", "Path or URL of the file to transcribe (shorthand)")
	pages        = flag.String("pages", "", "Page ranges for PDF input, e.g. '1-3,5'")
	keepOCR      = flag.Bool("keep-ocr", false, "Keep the embedded text/OCR layer in split pages")
	overwrite    = flag.Bool("overwrite", false, "Overwrite an existing transcript")
	outputDir    = flag.String("output-dir", "", "Output directory (overrides config)")
	promptFile   = flag.String("prompt-file", "", "Prompt template file (overrides config)")
	modelName    = flag.String("model", "", "Model identifier (overrides config)")
	provider     = flag.String("provider", "", "Generation provider: gemini or claude (overrides config)")
	parallel     = flag.Int("parallel", 0, "Max parallel page requests (overrides config)")
	renderPDF    = flag.Bool("render-pdf", false, "Also render the transcript to PDF")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Scribo version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	input := *inputFile
	if input == "" {
		input = *inputFileIF
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input-file is required")
		flag.Usage()
		os.Exit(2)
	}

	// Startup order: load config, apply flag overrides, then logger + banner.
	configPath := *configFile
	if configPath == "" {
		if _, err := os.Stat("scribo.toml"); err == nil {
			configPath = "scribo.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	applyFlagOverrides(config)
	if err := config.Validate(); err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	logger := common.SetupLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Str("provider", config.LLM.Provider).
		Str("output_dir", config.Transcribe.OutputDir).
		Int("max_parallel", config.Transcribe.MaxParallel).
		Msg("Configuration loaded")

	// An interrupt cancels the run context; units already in flight finish
	// or fail on their own, and partial output is still written and marked.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := llm.NewGenerator(&config.LLM, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize generation provider")
		os.Exit(1)
	}
	defer generator.Close()

	service := transcriber.NewService(
		config,
		generator,
		pdf.NewSplitter(logger),
		transcriber.NewHTTPDownloader(logger),
		logger,
	)

	if err := service.Run(ctx, transcriber.Request{
		Input:    input,
		Pages:    *pages,
		KeepText: *keepOCR,
	}); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("Run interrupted")
			os.Exit(130)
		}
		logger.Error().Err(err).Msg("Transcription failed")
		os.Exit(1)
	}
}

// applyFlagOverrides applies command-line flags over the loaded
// configuration (highest priority).
func applyFlagOverrides(config *common.Config) {
	if *outputDir != "" {
		config.Transcribe.OutputDir = *outputDir
	}
	if *promptFile != "" {
		config.Transcribe.PromptFile = *promptFile
	}
	if *modelName != "" {
		config.LLM.Model = *modelName
	}
	if *provider != "" {
		config.LLM.Provider = *provider
	}
	if *parallel > 0 {
		config.Transcribe.MaxParallel = *parallel
	}
	if *overwrite {
		config.Transcribe.Overwrite = true
	}
	if *renderPDF {
		config.Transcribe.RenderPDF = true
	}
}

package transcriber

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
)

// defaultPrompt is the built-in transcription prompt, used when no prompt
// file is configured. The {input-source} reference is resolved per run.
const defaultPrompt = `Transcribe the full text content of {input-source} into clean Markdown.

Rules:
- Preserve the reading order of the original layout.
- Reproduce headings, lists and tables with Markdown structure.
- Transcribe exactly what is written; do not summarize, translate or correct.
- Mark text you cannot read with [illegible].
- Output only the transcription, with no commentary.`

// loadPromptTemplate returns the prompt template text: the configured prompt
// file when set, the built-in default otherwise.
func loadPromptTemplate(promptFile string) (string, error) {
	if promptFile == "" {
		return defaultPrompt, nil
	}

	data, err := os.ReadFile(promptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", promptFile, err)
	}
	return string(data), nil
}

// renderPrompt resolves the {input-source} reference to a description of the
// source file, including the page selection when one was given. The legacy
// literal INPUT_URL token is honored for existing prompt files.
func renderPrompt(template, inputName, pageSpec string, logger arbor.ILogger) string {
	source := "Local file: " + inputName
	if pageSpec != "" {
		source = fmt.Sprintf("%s containing pages: %s", source, pageSpec)
	}

	rendered := common.ReplaceKeyReferences(template, map[string]string{"input-source": source}, logger)
	return strings.ReplaceAll(rendered, "INPUT_URL", source)
}

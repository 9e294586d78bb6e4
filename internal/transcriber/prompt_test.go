package transcriber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestRenderPromptDefault(t *testing.T) {
	template, err := loadPromptTemplate("")
	require.NoError(t, err)

	prompt := renderPrompt(template, "scan.pdf", "", arbor.NewLogger())

	assert.Contains(t, prompt, "Local file: scan.pdf")
	assert.NotContains(t, prompt, "{input-source}")
}

func TestRenderPromptWithPages(t *testing.T) {
	prompt := renderPrompt("Source: {input-source}", "scan.pdf", "1-3,5", arbor.NewLogger())
	assert.Equal(t, "Source: Local file: scan.pdf containing pages: 1-3,5", prompt)
}

func TestRenderPromptLegacyToken(t *testing.T) {
	prompt := renderPrompt("Transcribe INPUT_URL now.", "page.png", "", arbor.NewLogger())
	assert.Equal(t, "Transcribe Local file: page.png now.", prompt)
}

func TestLoadPromptTemplateFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("custom {input-source}"), 0644))

	template, err := loadPromptTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "custom {input-source}", template)

	_, err = loadPromptTemplate(filepath.Join(dir, "absent.txt"))
	assert.Error(t, err)
}

package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaudeResponseSplitsThinkingAndVisible(t *testing.T) {
	resp := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "thinking", Thinking: "reading the layout"},
			{Type: "text", Text: "# Title\n"},
			{Type: "text", Text: "Body text."},
		},
		Usage: anthropic.Usage{
			InputTokens:  120,
			OutputTokens: 80,
		},
	}

	output := parseClaudeResponse(resp)

	assert.Equal(t, "# Title\nBody text.", output.Text)
	assert.Equal(t, "reading the layout", output.Thought)
	assert.Empty(t, output.Err)

	require.NotNil(t, output.Usage)
	assert.Equal(t, int32(120), output.Usage.PromptTokens)
	assert.Equal(t, int32(80), output.Usage.OutputTokens)
	assert.Equal(t, int32(200), output.Usage.TotalTokens)
}

func TestBuildFileBlockRejectsUnknownTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	s := &ClaudeService{}
	_, err := s.buildFileBlock(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

package transcriber

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ternarybob/scribo/internal/models"
)

// metaPathFor derives the metadata artifact path from the transcript path:
// the ".md" extension is swapped for ".meta.txt" (appended when the
// transcript name does not end in ".md").
func metaPathFor(transcriptPath string) string {
	stem := strings.TrimSuffix(transcriptPath, ".md")
	return stem + ".meta.txt"
}

// metaRecord carries everything the metadata artifact reports about a run.
type metaRecord struct {
	Model        string
	Provider     string
	Prompt       string
	InputName    string
	OriginURL    string
	PageSpec     string
	TextStripped bool
	Run          *models.RunResult
}

// writeMetaFile writes the run metadata artifact next to the transcript.
func writeMetaFile(path string, rec metaRecord) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run ID: %s\n", rec.Run.RunID)
	fmt.Fprintf(&b, "Model: %s\n", rec.Model)
	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "Provider: %s\n", rec.Provider)
	b.WriteString("Parallel Processing: Yes\n")
	fmt.Fprintf(&b, "Parts: %d\n", rec.Run.Parts)
	fmt.Fprintf(&b, "Text Layer Stripped: %t\n", rec.TextStripped)
	if rec.PageSpec != "" {
		fmt.Fprintf(&b, "Pages: %s\n", rec.PageSpec)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Prompt:\n%s\n\n", rec.Prompt)

	fmt.Fprintf(&b, "Input File: %s\n", rec.InputName)
	if rec.OriginURL != "" {
		fmt.Fprintf(&b, "Downloaded from: %s\n", rec.OriginURL)
	}
	b.WriteString("\n")

	if len(rec.Run.Thoughts) > 0 {
		b.WriteString("Thought Previews:\n")
		for _, thought := range rec.Run.Thoughts {
			fmt.Fprintf(&b, "%s\n", thought)
		}
		b.WriteString("\n")
	}

	if rec.Run.HasUsage {
		fmt.Fprintf(&b, "Total Token Count: %d\n", rec.Run.TotalTokens)
	} else {
		b.WriteString("Total Token Count: not available\n")
	}
	fmt.Fprintf(&b, "Elapsed: %s\n", rec.Run.Elapsed.Round(10*time.Millisecond))
	if rec.Run.Partial {
		b.WriteString("Status: PARTIAL\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

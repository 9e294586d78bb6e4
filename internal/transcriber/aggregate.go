package transcriber

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/scribo/internal/models"
)

// thoughtPreviewLen bounds the hidden-reasoning excerpt kept for run
// metadata. Hidden text never reaches the transcript itself.
const thoughtPreviewLen = 200

// aggregate holds the merged outcome of one dispatched batch.
type aggregate struct {
	Text        string
	TotalTokens int32
	HasUsage    bool
	Thoughts    []string
	Missing     int
}

// aggregateResults concatenates per-unit outputs in original index order
// into one transcript. A nil slot becomes a "[Missing part N]" placeholder
// block. With more than one unit, each contribution is prefixed with a
// 1-based section marker; a single unit gets no marker. Token totals sum
// over the units that carry usage data; absent usage contributes nothing.
func aggregateResults(results []*models.UnitResult, itemCount int) aggregate {
	var transcript strings.Builder
	agg := aggregate{}

	for i := 0; i < itemCount; i++ {
		var res *models.UnitResult
		if i < len(results) {
			res = results[i]
		}

		if res == nil {
			transcript.WriteString(fmt.Sprintf("\n\n[Missing part %d]\n\n", i+1))
			agg.Missing++
			continue
		}

		if itemCount > 1 {
			transcript.WriteString(fmt.Sprintf("\n\n## Page %d\n\n", i+1))
		}
		transcript.WriteString(res.Output.Text)

		if res.Output.Thought != "" {
			agg.Thoughts = append(agg.Thoughts,
				fmt.Sprintf("Page %d thought: %s...", i+1, truncate(res.Output.Thought, thoughtPreviewLen)))
		}

		if res.Output.Usage != nil {
			agg.TotalTokens += res.Output.Usage.TotalTokens
			agg.HasUsage = true
		}
	}

	agg.Text = transcript.String()
	return agg
}

// truncate shortens s to at most n bytes without splitting a multi-byte
// rune; the cut backs up to the nearest rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

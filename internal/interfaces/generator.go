// -----------------------------------------------------------------------
// Generator Interface - Remote transcription providers
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/scribo/internal/models"
)

// Generator defines the contract for a remote generation provider that
// transcribes one file at a time. Implementations own the full unit
// lifecycle: upload the file to the remote service, run a single-shot
// generation with the shared prompt, and release the remote-side handle
// regardless of outcome.
//
// TranscribeFile never returns an error for per-unit failures. Upload and
// generation failures are reported as data on the UnitOutput (placeholder
// Text plus Err), so one unit's failure cannot abort sibling units running
// on other workers. Only the context is honored as an abort signal.
type Generator interface {
	// TranscribeFile uploads filePath, generates a transcript with the given
	// prompt, and returns the parsed output. The returned UnitOutput is
	// never nil.
	TranscribeFile(ctx context.Context, filePath, prompt string) *models.UnitOutput

	// Model returns the model identifier used for generation, for logging
	// and run metadata.
	Model() string

	// Close releases client resources.
	Close() error
}

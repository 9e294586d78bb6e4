package transcriber

import (
	"os"

	"github.com/ternarybob/arbor"
)

// cleanupPageFiles best-effort deletes the intermediate per-page files
// produced by document splitting. A missing file or delete failure is
// logged and otherwise ignored; cleanup never fails the run. It is only
// called for split-derived items, never for a directly supplied input file.
func cleanupPageFiles(paths []string, logger arbor.ILogger) {
	if len(paths) == 0 {
		return
	}

	logger.Info().Int("count", len(paths)).Msg("Cleaning up temporary page files")
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			logger.Warn().Err(err).Str("path", path).Msg("Failed to delete temporary file")
		}
	}
}

package llm

import (
	"fmt"

	"github.com/ternarybob/scribo/internal/models"
)

// errMissingKey reports a provider API key that could not be resolved.
func errMissingKey(vendor, sources string) error {
	return fmt.Errorf("%s API key is required (set via %s)", vendor, sources)
}

// errClientInit reports a provider client that failed to initialize.
func errClientInit(client string, err error) error {
	return fmt.Errorf("failed to initialize %s client: %w", client, err)
}

// uploadFailure builds the terminal output for a unit whose upload to the
// remote service failed. The bracketed placeholder keeps the unit positional
// in the aggregated transcript.
func uploadFailure(name string, err error) *models.UnitOutput {
	return &models.UnitOutput{
		Text: fmt.Sprintf("[Error uploading %s: %v]", name, err),
		Err:  err.Error(),
	}
}

// generateFailure builds the terminal output for a unit whose generation
// call failed after a successful upload.
func generateFailure(name string, err error) *models.UnitOutput {
	return &models.UnitOutput{
		Text: fmt.Sprintf("[Error generating for %s: %v]", name, err),
		Err:  err.Error(),
	}
}

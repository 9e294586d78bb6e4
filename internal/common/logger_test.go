package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerReturnsSharedInstance(t *testing.T) {
	logger := GetLogger()
	require.NotNil(t, logger)

	// Repeated calls hand back the same instance.
	assert.Equal(t, logger, GetLogger())
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	config := DefaultConfig()
	config.Logging.Level = "debug"

	logger := SetupLogger(config)
	require.NotNil(t, logger)
	assert.Equal(t, logger, GetLogger())

	// Writing through the configured logger must not panic.
	logger.Debug().Str("key", "value").Msg("configured")
}

package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, IsRateLimitError(nil))
	assert.False(t, IsRateLimitError(errors.New("connection refused")))
	assert.True(t, IsRateLimitError(errors.New("Error 429, Message: too many requests")))
	assert.True(t, IsRateLimitError(errors.New("Status: RESOURCE_EXHAUSTED")))
	assert.True(t, IsRateLimitError(errors.New("quota exceeded for model")))
}

func TestExtractRetryDelay(t *testing.T) {
	err := errors.New("Error 429, Message: rate limited. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED")
	delay := ExtractRetryDelay(err)
	assert.InDelta(t, 45.387, delay.Seconds(), 0.001)

	assert.Equal(t, time.Duration(0), ExtractRetryDelay(nil))
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(errors.New("no delay here")))

	assert.Equal(t, 30*time.Second, ExtractRetryDelay(errors.New("retryDelay: 30s")))
}

// Package common provides shared configuration, logging and small utilities.
//
// The {key-name} syntax allows prompt templates to reference values supplied
// at run time. References are replaced case-sensitively; unresolved keys are
// logged as warnings and left in place rather than treated as errors.
package common

import (
	"regexp"

	"github.com/ternarybob/arbor"
)

// keyRefPattern matches {key-name} references in strings.
// Allows alphanumeric characters, hyphens, and underscores.
var keyRefPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ReplaceKeyReferences replaces all {key-name} references in the input with
// values from the provided map. Missing keys are left unchanged and logged.
//
// Example:
//
//	ReplaceKeyReferences("Transcribe {input-source}.", map[string]string{"input-source": "scan.pdf"}, logger)
//	Returns: "Transcribe scan.pdf."
func ReplaceKeyReferences(input string, values map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return keyRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		keyName := match[1 : len(match)-1]
		if value, exists := values[keyName]; exists {
			return value
		}
		if logger != nil {
			logger.Warn().Str("key", keyName).Msg("Unresolved template reference")
		}
		return match
	})
}

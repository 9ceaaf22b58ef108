package config

import "os"

// ExpandEnv expands environment variables in YAML content using Go's standard library.
// Supports both ${VAR} and $VAR syntax (standard shell-style).
//
// Examples:
//   - ${OPENAI_API_KEY} → value of OPENAI_API_KEY environment variable
//   - $ALLOWED_PROJECT_ROOT → value of ALLOWED_PROJECT_ROOT environment variable
//   - ${OUTPUT_DIR}/packages → directory with the variable expanded
//
// Missing variables expand to empty string. Validation should catch required fields that are empty.
func ExpandEnv(data []byte) []byte {
	expanded := os.ExpandEnv(string(data))
	return []byte(expanded)
}

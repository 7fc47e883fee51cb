package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches the identifiers the language accepts for pin,
// variable and microcontroller names.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier validates a declared name carried by a syntax tree.
// Trees are produced by an external parser, so names are rechecked before
// they become map keys in the analyzer.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", name)
	}
	return nil
}

// ValidatePath validates an output or cache path taken from configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateRedisURL validates a redis connection URL.
// Only the redis and rediss schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}
	return nil
}

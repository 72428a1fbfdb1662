package errors

import (
	"strings"
	"unicode"
)

// MaxDocumentSize is the largest document the server accepts, in bytes.
const MaxDocumentSize = 8 << 20

// MaxViewport bounds each viewport dimension, in pixels.
const MaxViewport = 20000

// ValidateDocumentPath validates a path given for a document to read or
// watch. Absolute and relative paths are both allowed; the checks only
// reject values that cannot name a file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateDocumentPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateDocumentSize rejects documents larger than limit bytes.
// A limit of zero or less uses [MaxDocumentSize].
func ValidateDocumentSize(size, limit int64) error {
	if limit <= 0 {
		limit = MaxDocumentSize
	}
	if size > limit {
		return New(ErrCodeTooLarge, "document too large (%d bytes, max %d)", size, limit)
	}
	return nil
}

// ValidateViewport checks the size of the area a diagram is drawn into.
func ValidateViewport(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must be positive, got %gx%g", width, height)
	}
	if width > MaxViewport || height > MaxViewport {
		return New(ErrCodeInvalidViewport, "viewport too large (max %d per side)", MaxViewport)
	}
	return nil
}

// ValidateTopic validates an event stream topic name: a short identifier
// made of letters, digits, '-', '_' and '.'.
func ValidateTopic(topic string) error {
	if topic == "" {
		return New(ErrCodeInvalidInput, "topic cannot be empty")
	}
	if len(topic) > 128 {
		return New(ErrCodeInvalidInput, "topic too long (max 128 characters)")
	}
	for _, r := range topic {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return New(ErrCodeInvalidInput, "topic contains invalid character %q", r)
		}
	}
	return nil
}

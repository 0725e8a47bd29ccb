package errors

import (
	"strings"
	"unicode"
)

// MaxQueryLength bounds search queries sent to the archive.
const MaxQueryLength = 256

// ValidateQuery checks a search query before it is sent upstream.
//
// An empty query is valid (it resolves to no candidates). Rejected:
//   - Queries longer than MaxQueryLength characters
//   - Control characters and null bytes
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return New(ErrCodeInvalidInput, "query too long (max %d characters)", MaxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateModuleID rejects the zero ID, which the archive never assigns.
func ValidateModuleID(id uint32) error {
	if id == 0 {
		return New(ErrCodeInvalidInput, "module id must be positive")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

package middleware

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

// SanitizeIdea removes NUL and control characters (keeping tab and newline).
// Blank results are left for domain validation.
func SanitizeIdea(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= 32 && r != 0x7f || r == '\t' || r == '\n' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateIdeaSize rejects ideas larger than maxBytes.
func ValidateIdeaSize(idea string, maxBytes int) error {
	if maxBytes > 0 && len(idea) > maxBytes {
		return fmt.Errorf("idea is too long (max %d bytes)", maxBytes)
	}
	return nil
}

// ValidateAnalysisID checks the id is a UUID.
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage clamps the page number to >= 1.
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

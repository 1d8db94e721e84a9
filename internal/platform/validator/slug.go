package validator

import (
	"errors"
	"regexp"
	"strings"
)

// Slug validation errors
var (
	ErrInvalidSlugFormat = errors.New("slug must contain only lowercase letters, numbers, hyphens, and underscores")
	ErrSlugEmpty         = errors.New("slug cannot be empty")
	ErrSlugTooLong       = errors.New("slug is too long")
)

// MaxSlugLength bounds slugs arriving from the directory API.
const MaxSlugLength = 100

// Compile regex patterns once at package level for performance
var (
	slugValidationRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)
	slugSeparatorRegex  = regexp.MustCompile(`[_-]+`)
)

// ValidateSlugFormat checks if a slug has valid format. Slugs are produced
// by the backend, so a failure here means malformed upstream data, not user
// input.
func ValidateSlugFormat(slug string) error {
	if slug == "" {
		return ErrSlugEmpty
	}

	if len(slug) > MaxSlugLength {
		return ErrSlugTooLong
	}

	if !slugValidationRegex.MatchString(slug) {
		return ErrInvalidSlugFormat
	}

	return nil
}

// DisplayName converts a machine slug into a human-readable fallback name,
// used when the catalog entry behind the slug is not cached yet
// (e.g. "super_admin" -> "Super Admin", "section-types" -> "Section Types").
func DisplayName(slug string) string {
	words := slugSeparatorRegex.Split(strings.TrimSpace(slug), -1)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

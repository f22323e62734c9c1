package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m3rciful/wishbot/internal/models"
)

const (
	// MinTitleLength applies to the trimmed title.
	MinTitleLength = 3
	// MaxTitleLength applies to the raw title.
	MaxTitleLength = 100
)

// Validation reasons.
const (
	ReasonTooShort  = "too short"
	ReasonTooLong   = "too long"
	ReasonBadScheme = "bad scheme"
)

// ValidateTitle checks title length in characters. Leading and trailing space
// does not count toward the minimum but does count toward the maximum.
func ValidateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < MinTitleLength {
		return &ValidationError{
			Field:   models.FieldTitle,
			Reason:  ReasonTooShort,
			Message: fmt.Sprintf("Title too short (min %d chars)", MinTitleLength),
		}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{
			Field:   models.FieldTitle,
			Reason:  ReasonTooLong,
			Message: fmt.Sprintf("Title too long (max %d chars)", MaxTitleLength),
		}
	}
	return nil
}

// ValidateURL accepts an empty value or one starting with http:// or https://.
func ValidateURL(url string) error {
	if url == "" {
		return nil
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return nil
	}
	return &ValidationError{
		Field:   models.FieldURL,
		Reason:  ReasonBadScheme,
		Message: "URL must start with http:// or https://",
	}
}

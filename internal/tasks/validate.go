package tasks

import (
	"strings"
	"unicode/utf8"

	"github.com/asalgado/tasq/internal/api"
)

const (
	// Server-enforced field limits, checked client-side so bad input never
	// leaves the process.
	TitleMaxLen       = 100
	DescriptionMaxLen = 500

	msgTitleRequired  = "Title is required"
	msgTitleTooLong   = "Title can't exceed 100 characters"
	msgDescUpperBound = "Description can't exceed 500 characters"
)

// ValidateTitle checks the title constraints: non-empty, at most 100 chars.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &api.Error{Kind: api.KindValidation, Message: msgTitleRequired}
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return &api.Error{Kind: api.KindValidation, Message: msgTitleTooLong}
	}
	return nil
}

// ValidateDescription checks the optional description stays under 500 chars.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > DescriptionMaxLen {
		return &api.Error{Kind: api.KindValidation, Message: msgDescUpperBound}
	}
	return nil
}

package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// boardIDRegex matches safe board identifiers. Board IDs become file names,
// redis keys, and URL path segments, so the alphabet is intentionally narrow.
var boardIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateBoardID validates a board identifier for safety and correctness.
// It rejects identifiers that could be used for path traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 128 characters
func ValidateBoardID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidBoard, "board id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidBoard, "board id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBoard, "board id contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidBoard, "board id cannot contain path traversal sequences (..)")
	}

	if !boardIDRegex.MatchString(id) {
		return New(ErrCodeInvalidBoard, "invalid board id: %q", id)
	}

	return nil
}

// ValidateItemID validates an item identifier.
// Item IDs are UUIDs in practice, but any non-empty printable token without
// separators is accepted so imported boards keep foreign IDs.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidItem, "item id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			return New(ErrCodeInvalidItem, "item id contains invalid characters")
		}
	}

	return nil
}

// ValidateFinite validates that a geometry value is a finite number.
// NaN or infinite coordinates would poison every downstream transform.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidPatch, "%s must be a finite number", name)
	}
	return nil
}

package errors

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// ValidateName validates a given or family name.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - Maximum length of 256 characters
//
// Empty names are allowed; a person may be recorded with only one of the two.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateCoordinates checks that a latitude/longitude pair is within the
// ranges of the geographic coordinate system.
func ValidateCoordinates(lat, lon float64) error {
	if lat != lat || lon != lon {
		return New(ErrCodeInvalidInput, "coordinates must be numbers")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidInput, "latitude %.6f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidInput, "longitude %.6f out of range [-180, 180]", lon)
	}
	return nil
}

// ValidateLifespan checks that a death date, when present, does not precede
// the birth date.
func ValidateLifespan(birth time.Time, death *time.Time) error {
	if death != nil && death.Before(birth) {
		return New(ErrCodeInvalidInput, "death date %s precedes birth date %s",
			death.Format(time.DateOnly), birth.Format(time.DateOnly))
	}
	return nil
}

// definitionKeyRegex matches keys used to reference people inside a family
// definition file.
var definitionKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey validates a person key of a family definition.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "person key cannot be empty")
	}
	if len(key) > 64 {
		return New(ErrCodeInvalidInput, "person key too long (max 64 characters)")
	}
	if !definitionKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid person key: %q", key)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateDatasetName validates the name a record list is stored under.
// It follows the person key rules so names are safe as file names and
// document identifiers.
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dataset name cannot be empty")
	}
	if len(name) > 64 || !definitionKeyRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid dataset name: %q", name)
	}
	return nil
}

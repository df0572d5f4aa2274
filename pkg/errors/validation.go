package errors

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ValidateLayoutID checks that id is a canonical UUID string. Layout IDs are
// used as file names and document keys, so anything else is rejected.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "layout ID cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid layout ID %q", id)
	}
	if parsed.String() != id {
		return New(ErrCodeInvalidID, "layout ID must be in canonical form: %q", id)
	}
	return nil
}

// ValidateURI checks that a backend connection string uses one of the
// allowed schemes.
func ValidateURI(rawURI string, schemes ...string) error {
	if rawURI == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}
	scheme, _, ok := strings.Cut(rawURI, "://")
	if !ok {
		return New(ErrCodeInvalidInput, "URI must include a scheme: %q", rawURI)
	}
	if len(schemes) > 0 && !slices.Contains(schemes, scheme) {
		return New(ErrCodeInvalidInput, "URI scheme %q not allowed (want one of %s)", scheme, strings.Join(schemes, ", "))
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

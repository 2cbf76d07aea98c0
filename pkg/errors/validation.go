package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateLabel validates a node label for safety and correctness.
// It rejects labels that could not be stored or displayed cleanly.
//
// The validation rules are intentionally conservative:
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Empty labels are allowed; unlabeled nodes get placeholder names when a
// graph is written out. Whether a label survives serialization is a
// separate question, checked by [ValidateSerializableLabel].
func ValidateLabel(label string) error {
	if len(label) > 256 {
		return New(ErrCodeInvalidLabel, "label too long (max 256 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label contains control characters")
		}
	}

	return nil
}

// ValidateSerializableLabel validates a node label against the graph file
// format, where labels are whitespace-separated tokens. Labels containing
// whitespace, and labels that read as edge arrows, cannot be written out.
func ValidateSerializableLabel(label string) error {
	if err := ValidateLabel(label); err != nil {
		return err
	}

	if strings.ContainsFunc(label, unicode.IsSpace) {
		return New(ErrCodeInvalidLabel, "label %q contains whitespace", label)
	}

	if label == "->" || label == "<-" {
		return New(ErrCodeInvalidLabel, "label %q reads as an edge arrow", label)
	}

	return nil
}

// ValidateWeight validates an edge weight. Weights must be finite numbers
// so they can round-trip through the graph file format.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) {
		return New(ErrCodeInvalidWeight, "weight is NaN")
	}
	if math.IsInf(w, 0) {
		return New(ErrCodeInvalidWeight, "weight is infinite")
	}
	return nil
}

// ValidateGraphPath validates a graph file path before it is stored in a
// session or resolved by the server.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateGraphPath(path string) error {
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

	return nil
}

// ValidateSessionID validates a session identifier. Session IDs are
// UUIDs; anything else is rejected before it reaches a session store.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}

	return nil
}

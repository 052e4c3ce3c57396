// Package security provides input sanitization for user-supplied text.
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer strips all HTML from user-supplied text fields before
// they are persisted. Subjects and captions are plain text; markup in
// them is never legitimate.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer builds a sanitizer around bluemonday's strict policy.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean returns the input with all HTML removed and surrounding
// whitespace trimmed. Idempotent: sanitized input passes unchanged.
func (s *TextSanitizer) Clean(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

package out

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	analysisout "smarttrack/internal/modules/analysis/port/out"
)

// StrictSanitizer removes every HTML element from backend text. The result
// is shown in a terminal, so entities are decoded again after stripping.
type StrictSanitizer struct {
	policy *bluemonday.Policy
}

func NewStrictSanitizer() analysisout.Sanitizer {
	return StrictSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s StrictSanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

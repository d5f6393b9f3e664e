package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

const maxLen = 64

// Make turns a title into a file-name-safe slug, at most 64 bytes. Accented
// letters are transliterated. An empty result is "report".
func Make(title string) string {
	s := gosimple.Make(title)
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-_")
	}
	if s == "" {
		return "report"
	}
	return s
}

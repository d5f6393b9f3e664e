package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "smarttrack/internal/platform/errors"
)

type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	X         Platform = "x"
	TikTok    Platform = "tiktok"
)

// Platforms is the display order used by every panel.
var Platforms = []Platform{Facebook, Instagram, X, TikTok}

var platformColors = map[Platform]string{
	Facebook:  "#3b82f6",
	Instagram: "#ec4899",
	X:         "#111827",
	TikTok:    "#10b981",
}

func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := platformColors[p]; !ok {
		return "", fmt.Errorf("%w: unknown platform %q", apperrors.ErrInvalidInput, raw)
	}
	return p, nil
}

func (p Platform) Color() string {
	if c, ok := platformColors[p]; ok {
		return c
	}
	return "#6b7280"
}

// Label is the capitalised display name. It never changes the stored value.
func (p Platform) Label() string {
	if p == "" {
		return ""
	}
	s := string(p)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Totals maps a platform to an amount. Missing platforms read as zero.
type Totals map[Platform]float64

func (t Totals) Get(p Platform) float64 {
	return t[p]
}

func (t Totals) Sum() float64 {
	var sum float64
	for _, p := range Platforms {
		sum += t[p]
	}
	return sum
}

// Complete returns a copy holding an entry for every known platform.
func (t Totals) Complete() Totals {
	out := make(Totals, len(Platforms))
	for _, p := range Platforms {
		out[p] = t[p]
	}
	return out
}

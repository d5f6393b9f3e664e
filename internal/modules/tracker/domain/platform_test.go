package domain_test

import (
	"errors"
	"testing"
	"time"

	"smarttrack/internal/modules/tracker/domain"
	apperrors "smarttrack/internal/platform/errors"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()
	p, err := domain.ParsePlatform(" TikTok ")
	if err != nil {
		t.Fatalf("parse platform: %v", err)
	}
	if p != domain.TikTok {
		t.Fatalf("expected tiktok, got %q", p)
	}
	if _, err := domain.ParsePlatform("myspace"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestLabelCapitalisesWithoutMutating(t *testing.T) {
	t.Parallel()
	p := domain.Instagram
	if got := p.Label(); got != "Instagram" {
		t.Fatalf("unexpected label %q", got)
	}
	if p != "instagram" {
		t.Fatalf("label mutated platform: %q", p)
	}
	if got := domain.X.Label(); got != "X" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestLabelHandlesMultiByteFirstRune(t *testing.T) {
	t.Parallel()
	if got := domain.Platform("édu").Label(); got != "Édu" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := domain.Platform("ñ").Label(); got != "Ñ" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := domain.Platform("").Label(); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

func TestNewSessionValidate(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	ok := domain.NewSession{Platform: domain.TikTok, Seconds: 600, Start: start, End: start.Add(10 * time.Minute)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	bad := map[string]domain.NewSession{
		"platform": {Platform: "myspace", Seconds: 600, Start: start, End: start},
		"seconds":  {Platform: domain.X, Seconds: 0, Start: start, End: start},
		"order":    {Platform: domain.X, Seconds: 60, Start: start, End: start.Add(-time.Minute)},
		"missing":  {Platform: domain.X, Seconds: 60},
		"date":     {Platform: domain.X, Seconds: 60, Start: start, End: start, Date: "09/03/2026"},
	}
	for name, s := range bad {
		if err := s.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestColors(t *testing.T) {
	t.Parallel()
	want := map[domain.Platform]string{
		domain.Facebook:  "#3b82f6",
		domain.Instagram: "#ec4899",
		domain.X:         "#111827",
		domain.TikTok:    "#10b981",
	}
	for p, c := range want {
		if p.Color() != c {
			t.Fatalf("%s: expected %s, got %s", p, c, p.Color())
		}
	}
}

func TestTotalsCompleteAndSum(t *testing.T) {
	t.Parallel()
	totals := domain.Totals{domain.Facebook: 60, domain.X: 30, "myspace": 1000}
	full := totals.Complete()
	if len(full) != len(domain.Platforms) {
		t.Fatalf("expected %d entries, got %d", len(domain.Platforms), len(full))
	}
	if full.Get(domain.TikTok) != 0 {
		t.Fatalf("missing platform should be zero")
	}
	if totals.Sum() != 90 {
		t.Fatalf("expected sum 90, got %v", totals.Sum())
	}
}

func TestClampSessionLimit(t *testing.T) {
	t.Parallel()
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 10: 10, 50: 50, 51: 50}
	for in, want := range cases {
		if got := domain.ClampSessionLimit(in); got != want {
			t.Fatalf("clamp(%d) = %d, want %d", in, got, want)
		}
	}
}

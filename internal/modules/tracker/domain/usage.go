package domain

import (
	"fmt"
	"time"

	apperrors "smarttrack/internal/platform/errors"
)

// Session is one tracked usage session as recorded by the backend.
// Timestamps are kept exactly as the backend formats them.
type Session struct {
	ID       int64
	Platform Platform
	Seconds  float64
	Date     string
	StartTS  string
	EndTS    string
}

// NewSession is a manually logged session. Date is optional; the backend
// uses its current day when it is empty.
type NewSession struct {
	Platform Platform
	Seconds  float64
	Date     string
	Start    time.Time
	End      time.Time
}

func (n NewSession) Validate() error {
	if _, err := ParsePlatform(string(n.Platform)); err != nil {
		return err
	}
	if n.Seconds <= 0 {
		return fmt.Errorf("%w: session time must be positive, got %v", apperrors.ErrInvalidInput, n.Seconds)
	}
	if n.Start.IsZero() || n.End.IsZero() {
		return fmt.Errorf("%w: session needs a start and an end", apperrors.ErrInvalidInput)
	}
	if n.End.Before(n.Start) {
		return fmt.Errorf("%w: session ends before it starts", apperrors.ErrInvalidInput)
	}
	if n.Date != "" {
		if _, err := time.Parse(time.DateOnly, n.Date); err != nil {
			return fmt.Errorf("%w: session date %q is not YYYY-MM-DD", apperrors.ErrInvalidInput, n.Date)
		}
	}
	return nil
}

// DailyUsage is the time spent on one platform on one calendar day
// (YYYY-MM-DD). An absent (date, platform) pair means zero usage.
type DailyUsage struct {
	Date     string
	Platform Platform
	Seconds  float64
}

type Today struct {
	Date   string
	Totals Totals
}

type AllTime struct {
	TotalsSec     Totals
	GrandTotalSec float64
}

type Health struct {
	OK        bool
	Timezone  string
	Timestamp string
}

const (
	MinSessionLimit = 1
	MaxSessionLimit = 50
)

// ClampSessionLimit bounds a recent-sessions request the way the backend does.
func ClampSessionLimit(limit int) int {
	if limit < MinSessionLimit {
		return MinSessionLimit
	}
	if limit > MaxSessionLimit {
		return MaxSessionLimit
	}
	return limit
}

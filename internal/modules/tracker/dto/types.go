package dto

import (
	"time"

	"smarttrack/internal/modules/tracker/domain"
)

type TodayOutput struct {
	Date   string
	Totals map[domain.Platform]float64
}

type AllTimeOutput struct {
	TotalsSec     map[domain.Platform]float64
	GrandTotalSec float64
}

type DailyUsageOutput struct {
	Date     string
	Platform domain.Platform
	Seconds  float64
}

type SessionOutput struct {
	ID       int64
	Platform domain.Platform
	Seconds  float64
	Date     string
	StartTS  string
	EndTS    string
}

// AddSessionInput logs a session by hand. Platform is parsed case-insensitively.
type AddSessionInput struct {
	Platform string
	Seconds  float64
	Date     string
	Start    time.Time
	End      time.Time
}

type HealthOutput struct {
	OK        bool
	Timezone  string
	Timestamp string
}

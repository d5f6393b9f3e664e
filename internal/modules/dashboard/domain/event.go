package domain

import "time"

type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

const (
	MsgRefreshFailed  = "Failed to refresh data"
	MsgGPAFailed      = "Failed to calculate GPA"
	MsgAnalysisFailed = "Failed to run analysis"
)

// Notification is a transient, non-blocking message. Sinks drop it after TTL.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	TTL       time.Duration
	CreatedAt time.Time
}

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Cycle is the record of one refresh attempt.
type Cycle struct {
	ID           string
	Trigger      string
	StartedAt    time.Time
	Duration     time.Duration
	Outcome      Outcome
	FailedPanels []string
	Error        string
}

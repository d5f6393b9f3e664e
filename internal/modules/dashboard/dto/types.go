package dto

import "time"

// Trigger says what started a refresh cycle.
type Trigger string

const (
	TriggerStartup Trigger = "startup"
	TriggerTimer   Trigger = "timer"
	TriggerManual  Trigger = "manual"
)

type CycleOutput struct {
	ID           string
	Trigger      Trigger
	StartedAt    time.Time
	Duration     time.Duration
	Outcome      string
	FailedPanels []string
	Error        string
}

type ExportOutput struct {
	Path string
}

package domain

import (
	"fmt"
	"math"

	trackerdomain "smarttrack/internal/modules/tracker/domain"
)

// DonutEpsilon keeps the remaining slice strictly positive so a ring whose
// target is met still draws.
const DonutEpsilon = 0.0001

const remainingColor = "#e5e7eb"

// DonutSlices clamps usage against the daily target. Negative usage counts
// as zero.
func DonutSlices(used, target float64) (shown, remaining float64) {
	if used < 0 {
		used = 0
	}
	shown = math.Min(used, target)
	if shown < 0 {
		shown = 0
	}
	remaining = math.Max(target-shown, DonutEpsilon)
	return shown, remaining
}

// UsageDonut is the per-platform average hours per day against the target.
func UsageDonut(p trackerdomain.Platform, hoursPerDay, target float64) DonutSpec {
	shown, remaining := DonutSlices(hoursPerDay, target)
	if hoursPerDay < 0 {
		hoursPerDay = 0
	}
	return DonutSpec{
		Title: p.Label(),
		Slices: []Slice{
			{Label: "Used", Value: shown, Color: p.Color()},
			{Label: "Remaining", Value: remaining, Color: remainingColor},
		},
		CenterText: fmt.Sprintf("%.2fh", hoursPerDay),
		CenterSub:  fmt.Sprintf("of %.2fh", target),
	}
}

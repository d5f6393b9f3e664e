package domain

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	trackerdomain "smarttrack/internal/modules/tracker/domain"
)

// AggregateTotals turns all-time seconds per platform into the total donut
// and its breakdown lines. Seconds are rounded to whole numbers first so the
// chart, the lines and the grand total agree. All-zero input still yields a
// chart with one zero slice per platform.
func AggregateTotals(totalsSec map[trackerdomain.Platform]float64) (DonutSpec, Document) {
	spec := DonutSpec{Title: "All time"}
	breakdown := Document{Title: "Breakdown"}
	lines := make([]string, 0, len(trackerdomain.Platforms))

	var grand int64
	for _, p := range trackerdomain.Platforms {
		sec := int64(math.Round(math.Max(totalsSec[p], 0)))
		grand += sec
		spec.Slices = append(spec.Slices, Slice{Label: p.Label(), Value: float64(sec), Color: p.Color()})
		lines = append(lines, fmt.Sprintf("%s: %s s (%s ms, %.2f h)",
			p.Label(), humanize.Comma(sec), humanize.Comma(sec*1000), float64(sec)/3600))
	}
	spec.CenterText = fmt.Sprintf("%.2f h", float64(grand)/3600)
	spec.CenterSub = "total"

	breakdown.List(lines...)
	breakdown.Text(fmt.Sprintf("Total: %s s (%.2f h)", humanize.Comma(grand), float64(grand)/3600))
	return spec, breakdown
}

package domain

import (
	"math"
	"sort"

	trackerdomain "smarttrack/internal/modules/tracker/domain"
	trackerdto "smarttrack/internal/modules/tracker/dto"
)

// AlignDailySeries builds the stacked last-7-days chart. The axis is the
// sorted set of distinct dates; YYYY-MM-DD sorts lexically in calendar
// order. Each platform gets one value per axis date, 0 where no point exists.
// When a (date, platform) pair repeats, the first point wins.
func AlignDailySeries(points []trackerdto.DailyUsageOutput) BarSeriesSpec {
	type pair struct {
		date     string
		platform trackerdomain.Platform
	}
	seen := make(map[string]struct{})
	values := make(map[pair]float64)
	axis := make([]string, 0)
	for _, pt := range points {
		if _, ok := seen[pt.Date]; !ok {
			seen[pt.Date] = struct{}{}
			axis = append(axis, pt.Date)
		}
		k := pair{date: pt.Date, platform: pt.Platform}
		if _, ok := values[k]; !ok {
			values[k] = math.Round(pt.Seconds)
		}
	}
	sort.Strings(axis)

	spec := BarSeriesSpec{Title: "Last 7 days", Axis: axis, YTitle: "Seconds", Stacked: true}
	for _, p := range trackerdomain.Platforms {
		s := Series{Label: p.Label(), Color: p.Color(), Values: make([]float64, len(axis))}
		for i, date := range axis {
			s.Values[i] = values[pair{date: date, platform: p}]
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}

package domain

import (
	"strings"

	trackerdomain "smarttrack/internal/modules/tracker/domain"
)

// PanelKey names one independently rendered unit of the dashboard.
type PanelKey string

const (
	PanelDonutTotal     PanelKey = "donut.total"
	PanelTotalBreakdown PanelKey = "total.breakdown"
	PanelLast7          PanelKey = "chart.last7"
	PanelSessions       PanelKey = "table.sessions"
	PanelGPAReport      PanelKey = "gpa.report"
	PanelGPASummary     PanelKey = "gpa.summary"
	PanelGPAKPI         PanelKey = "kpi.gpa"
	PanelAnalysis       PanelKey = "analysis.report"
)

func KPIKey(p trackerdomain.Platform) PanelKey {
	return PanelKey("kpi." + string(p))
}

func DonutKey(p trackerdomain.Platform) PanelKey {
	return PanelKey("donut." + string(p))
}

// IsChart reports whether the panel is drawn through a disposable chart handle.
func (k PanelKey) IsChart() bool {
	return strings.HasPrefix(string(k), "donut.") || k == PanelLast7
}

// Group is the key's prefix, e.g. "kpi" for "kpi.facebook".
func (k PanelKey) Group() string {
	s := string(k)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

// RefreshPanels lists every panel a refresh cycle writes, in display order.
func RefreshPanels() []PanelKey {
	keys := make([]PanelKey, 0, 2*len(trackerdomain.Platforms)+4)
	for _, p := range trackerdomain.Platforms {
		keys = append(keys, KPIKey(p))
	}
	for _, p := range trackerdomain.Platforms {
		keys = append(keys, DonutKey(p))
	}
	return append(keys, PanelDonutTotal, PanelTotalBreakdown, PanelLast7, PanelSessions)
}

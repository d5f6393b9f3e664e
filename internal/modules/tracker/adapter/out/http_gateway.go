package out

import (
	"context"
	"net/url"
	"strconv"

	"smarttrack/internal/modules/tracker/domain"
	trackerout "smarttrack/internal/modules/tracker/port/out"
)

// JSONFetcher is the subset of the API client the gateway needs.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, path string, query url.Values, out any) error
}

type HTTPGateway struct {
	api JSONFetcher
}

func NewHTTPGateway(api JSONFetcher) trackerout.Gateway {
	return &HTTPGateway{api: api}
}

type todayPayload struct {
	Date   string             `json:"date"`
	Totals map[string]float64 `json:"totals"`
}

type totalAllPayload struct {
	TotalsSec     map[string]float64 `json:"totals_sec"`
	GrandTotalSec float64            `json:"grand_total_sec"`
}

type dailyPayload struct {
	Date     string  `json:"date"`
	Platform string  `json:"platform"`
	Seconds  float64 `json:"seconds"`
}

type sessionPayload struct {
	ID       int64   `json:"id"`
	Platform string  `json:"platform"`
	Time     float64 `json:"time"`
	Date     string  `json:"date"`
	StartTS  string  `json:"start_ts"`
	EndTS    string  `json:"end_ts"`
}

type healthPayload struct {
	OK        bool   `json:"ok"`
	Timezone  string `json:"timezone"`
	Timestamp string `json:"timestamp"`
}

func (g *HTTPGateway) Today(ctx context.Context) (domain.Today, error) {
	var payload todayPayload
	if err := g.api.FetchJSON(ctx, "summary/today/", nil, &payload); err != nil {
		return domain.Today{}, err
	}
	return domain.Today{Date: payload.Date, Totals: toTotals(payload.Totals)}, nil
}

func (g *HTTPGateway) AverageHoursPerDay(ctx context.Context) (domain.Totals, error) {
	var payload map[string]float64
	if err := g.api.FetchJSON(ctx, "summary/avg_hours_per_day/", nil, &payload); err != nil {
		return nil, err
	}
	return toTotals(payload), nil
}

func (g *HTTPGateway) TotalAll(ctx context.Context) (domain.AllTime, error) {
	var payload totalAllPayload
	if err := g.api.FetchJSON(ctx, "summary/total_all/", nil, &payload); err != nil {
		return domain.AllTime{}, err
	}
	return domain.AllTime{TotalsSec: toTotals(payload.TotalsSec), GrandTotalSec: payload.GrandTotalSec}, nil
}

func (g *HTTPGateway) Last7(ctx context.Context) ([]domain.DailyUsage, error) {
	var payload []dailyPayload
	if err := g.api.FetchJSON(ctx, "summary/last7/", nil, &payload); err != nil {
		return nil, err
	}
	points := make([]domain.DailyUsage, 0, len(payload))
	for _, p := range payload {
		points = append(points, domain.DailyUsage{Date: p.Date, Platform: domain.Platform(p.Platform), Seconds: p.Seconds})
	}
	return points, nil
}

func (g *HTTPGateway) RecentSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	return g.sessions(ctx, "sessions/recent/", url.Values{"limit": {strconv.Itoa(limit)}})
}

func (g *HTTPGateway) TodaySessions(ctx context.Context) ([]domain.Session, error) {
	return g.sessions(ctx, "sessions/today/", nil)
}

func (g *HTTPGateway) Health(ctx context.Context) (domain.Health, error) {
	var payload healthPayload
	if err := g.api.FetchJSON(ctx, "health/", nil, &payload); err != nil {
		return domain.Health{}, err
	}
	return domain.Health{OK: payload.OK, Timezone: payload.Timezone, Timestamp: payload.Timestamp}, nil
}

func (g *HTTPGateway) sessions(ctx context.Context, path string, query url.Values) ([]domain.Session, error) {
	var payload []sessionPayload
	if err := g.api.FetchJSON(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	sessions := make([]domain.Session, 0, len(payload))
	for _, s := range payload {
		sessions = append(sessions, domain.Session{
			ID:       s.ID,
			Platform: domain.Platform(s.Platform),
			Seconds:  s.Time,
			Date:     s.Date,
			StartTS:  s.StartTS,
			EndTS:    s.EndTS,
		})
	}
	return sessions, nil
}

func toTotals(raw map[string]float64) domain.Totals {
	totals := make(domain.Totals, len(raw))
	for k, v := range raw {
		totals[domain.Platform(k)] = v
	}
	return totals
}

package out

import (
	"context"
	"fmt"

	"smarttrack/internal/modules/tracker/domain"
	trackerout "smarttrack/internal/modules/tracker/port/out"
)

// timestampLayout is accepted by the backend's ISO parser.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// JSONWriter is the subset of the API client used for state-changing calls.
type JSONWriter interface {
	PostJSON(ctx context.Context, path string, body any, out any) error
	DeleteJSON(ctx context.Context, path string, out any) error
}

type HTTPSessionWriter struct {
	api JSONWriter
}

func NewHTTPSessionWriter(api JSONWriter) trackerout.SessionWriter {
	return &HTTPSessionWriter{api: api}
}

type addSessionBody struct {
	Platform    string  `json:"platform"`
	TimeSeconds float64 `json:"time_seconds"`
	Date        string  `json:"date,omitempty"`
	Start       string  `json:"start_timestamp"`
	End         string  `json:"end_timestamp"`
}

// addedSessionPayload uses the long field names of the add endpoint, not the
// short ones of the session lists.
type addedSessionPayload struct {
	ID          int64   `json:"id"`
	Platform    string  `json:"platform"`
	TimeSeconds float64 `json:"time_seconds"`
	Date        string  `json:"date"`
	Start       string  `json:"start_timestamp"`
	End         string  `json:"end_timestamp"`
}

func (w *HTTPSessionWriter) AddSession(ctx context.Context, session domain.NewSession) (domain.Session, error) {
	body := addSessionBody{
		Platform:    string(session.Platform),
		TimeSeconds: session.Seconds,
		Date:        session.Date,
		Start:       session.Start.Format(timestampLayout),
		End:         session.End.Format(timestampLayout),
	}
	var payload addedSessionPayload
	if err := w.api.PostJSON(ctx, "sessions/add/", body, &payload); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		ID:       payload.ID,
		Platform: domain.Platform(payload.Platform),
		Seconds:  payload.TimeSeconds,
		Date:     payload.Date,
		StartTS:  payload.Start,
		EndTS:    payload.End,
	}, nil
}

func (w *HTTPSessionWriter) DeleteSession(ctx context.Context, id int64) error {
	return w.api.DeleteJSON(ctx, fmt.Sprintf("sessions/%d/delete/", id), nil)
}

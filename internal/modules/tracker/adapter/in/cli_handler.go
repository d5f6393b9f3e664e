package in

import (
	"context"

	trackerdto "smarttrack/internal/modules/tracker/dto"
	trackerin "smarttrack/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) RecentSessions(ctx context.Context, limit int) ([]trackerdto.SessionOutput, error) {
	return h.usecase.RecentSessions(ctx, limit)
}

func (h CLIHandler) TodaySessions(ctx context.Context) ([]trackerdto.SessionOutput, error) {
	return h.usecase.TodaySessions(ctx)
}

func (h CLIHandler) Health(ctx context.Context) (trackerdto.HealthOutput, error) {
	return h.usecase.Health(ctx)
}

func (h CLIHandler) AddSession(ctx context.Context, input trackerdto.AddSessionInput) (trackerdto.SessionOutput, error) {
	return h.usecase.AddSession(ctx, input)
}

func (h CLIHandler) DeleteSession(ctx context.Context, id int64) error {
	return h.usecase.DeleteSession(ctx, id)
}

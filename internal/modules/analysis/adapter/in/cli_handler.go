package in

import (
	"context"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	analysisin "smarttrack/internal/modules/analysis/port/in"
)

type CLIHandler struct {
	usecase analysisin.Usecase
}

func NewCLIHandler(usecase analysisin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Run(ctx context.Context, cat, exam string) (analysisdto.ReportOutput, error) {
	return h.usecase.Run(ctx, analysisdto.RunInput{Cat: cat, Exam: exam})
}

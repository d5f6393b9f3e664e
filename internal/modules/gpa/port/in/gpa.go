package in

import (
	"context"

	"smarttrack/internal/modules/gpa/dto"
)

type Usecase interface {
	Calculate(ctx context.Context, input dto.CalculateInput) (dto.ReportOutput, error)
	LoadCourses(ctx context.Context, path string) ([]dto.CourseInput, error)
	ParseCourses(specs []string) ([]dto.CourseInput, error)
	SampleCourses() []dto.CourseInput
	SavedCourses(ctx context.Context) ([]dto.SavedCourseOutput, error)
	AddCourse(ctx context.Context, input dto.AddCourseInput) (dto.SavedCourseOutput, error)
	DeleteCourse(ctx context.Context, id int64) error
}

package in

import (
	"context"

	gpadto "smarttrack/internal/modules/gpa/dto"
	gpain "smarttrack/internal/modules/gpa/port/in"
)

type CLIHandler struct {
	usecase gpain.Usecase
}

func NewCLIHandler(usecase gpain.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Courses resolves the course list for a calculation: a course file when
// given, then any name:credits:grade specs, else the sample table.
func (h CLIHandler) Courses(ctx context.Context, file string, specs []string) ([]gpadto.CourseInput, error) {
	var courses []gpadto.CourseInput
	if file != "" {
		loaded, err := h.usecase.LoadCourses(ctx, file)
		if err != nil {
			return nil, err
		}
		courses = append(courses, loaded...)
	}
	if len(specs) > 0 {
		parsed, err := h.usecase.ParseCourses(specs)
		if err != nil {
			return nil, err
		}
		courses = append(courses, parsed...)
	}
	if file == "" && len(specs) == 0 {
		return h.usecase.SampleCourses(), nil
	}
	return courses, nil
}

func (h CLIHandler) LoadCourses(ctx context.Context, path string) ([]gpadto.CourseInput, error) {
	return h.usecase.LoadCourses(ctx, path)
}

func (h CLIHandler) ParseCourses(specs []string) ([]gpadto.CourseInput, error) {
	return h.usecase.ParseCourses(specs)
}

func (h CLIHandler) SampleCourses() []gpadto.CourseInput {
	return h.usecase.SampleCourses()
}

func (h CLIHandler) SavedCourses(ctx context.Context) ([]gpadto.SavedCourseOutput, error) {
	return h.usecase.SavedCourses(ctx)
}

func (h CLIHandler) AddCourse(ctx context.Context, input gpadto.AddCourseInput) (gpadto.SavedCourseOutput, error) {
	return h.usecase.AddCourse(ctx, input)
}

func (h CLIHandler) DeleteCourse(ctx context.Context, id int64) error {
	return h.usecase.DeleteCourse(ctx, id)
}

package usecase

import (
	"context"
	"strings"

	"smarttrack/internal/modules/gpa/domain"
	gpadto "smarttrack/internal/modules/gpa/dto"
	gpain "smarttrack/internal/modules/gpa/port/in"
	"smarttrack/internal/modules/gpa/service"
)

type Interactor struct {
	svc *service.GPAService
}

func NewInteractor(svc *service.GPAService) gpain.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Calculate(ctx context.Context, input gpadto.CalculateInput) (gpadto.ReportOutput, error) {
	courses := make([]domain.Course, 0, len(input.Courses))
	for _, c := range input.Courses {
		// Rows without positive credits are dropped whatever their grade.
		if c.Credits <= 0 {
			continue
		}
		grade, err := domain.ParseGrade(c.Grade)
		if err != nil {
			return gpadto.ReportOutput{}, err
		}
		courses = append(courses, domain.Course{Name: c.Name, Credits: c.Credits, Grade: grade})
	}
	report, submitted, err := i.svc.Calculate(ctx, courses)
	if err != nil {
		return gpadto.ReportOutput{}, err
	}
	rows := make([]gpadto.ReportRowOutput, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, gpadto.ReportRowOutput{Name: r.Name, Credits: r.Credits, Grade: r.Grade, Explain: r.Explain})
	}
	return gpadto.ReportOutput{
		GPA:          report.GPA,
		TotalCredits: report.TotalCredits,
		Rows:         rows,
		Submitted:    submitted,
	}, nil
}

func (i *Interactor) LoadCourses(ctx context.Context, path string) ([]gpadto.CourseInput, error) {
	courses, err := i.svc.LoadCourses(ctx, path)
	if err != nil {
		return nil, err
	}
	return toInputs(courses), nil
}

func (i *Interactor) ParseCourses(specs []string) ([]gpadto.CourseInput, error) {
	courses := make([]domain.Course, 0, len(specs))
	for _, spec := range specs {
		c, err := domain.ParseCourse(spec)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return toInputs(domain.FilterCourses(courses)), nil
}

func (i *Interactor) SampleCourses() []gpadto.CourseInput {
	return toInputs(domain.SampleCourses())
}

func (i *Interactor) SavedCourses(ctx context.Context) ([]gpadto.SavedCourseOutput, error) {
	saved, err := i.svc.SavedCourses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]gpadto.SavedCourseOutput, 0, len(saved))
	for _, s := range saved {
		out = append(out, toSavedOutput(s))
	}
	return out, nil
}

func (i *Interactor) AddCourse(ctx context.Context, input gpadto.AddCourseInput) (gpadto.SavedCourseOutput, error) {
	grade, err := domain.ParseGrade(input.Grade)
	if err != nil {
		return gpadto.SavedCourseOutput{}, err
	}
	course := domain.Course{Name: strings.TrimSpace(input.Name), Credits: input.Credits, Grade: grade}
	saved, err := i.svc.AddCourse(ctx, course, strings.TrimSpace(input.Semester))
	if err != nil {
		return gpadto.SavedCourseOutput{}, err
	}
	return toSavedOutput(saved), nil
}

func (i *Interactor) DeleteCourse(ctx context.Context, id int64) error {
	return i.svc.DeleteCourse(ctx, id)
}

func toSavedOutput(s domain.SavedCourse) gpadto.SavedCourseOutput {
	return gpadto.SavedCourseOutput{
		ID:        s.ID,
		Name:      s.Course.Name,
		Credits:   s.Course.Credits,
		Grade:     string(s.Course.Grade),
		Semester:  s.Semester,
		CreatedAt: s.CreatedAt,
	}
}

func toInputs(courses []domain.Course) []gpadto.CourseInput {
	out := make([]gpadto.CourseInput, 0, len(courses))
	for _, c := range courses {
		out = append(out, gpadto.CourseInput{Name: c.Name, Credits: c.Credits, Grade: string(c.Grade)})
	}
	return out
}

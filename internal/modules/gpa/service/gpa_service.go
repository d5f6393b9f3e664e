package service

import (
	"context"
	"errors"
	"fmt"

	"smarttrack/internal/modules/gpa/domain"
	gpaout "smarttrack/internal/modules/gpa/port/out"
	apperrors "smarttrack/internal/platform/errors"
)

var errNoStore = errors.New("course store is not configured")

type GPAService struct {
	calculator gpaout.Calculator
	files      gpaout.CourseFile
	store      gpaout.CourseStore
}

func NewGPAService(calculator gpaout.Calculator, files gpaout.CourseFile, store gpaout.CourseStore) *GPAService {
	return &GPAService{calculator: calculator, files: files, store: store}
}

// Calculate filters out courses without positive credits and submits the
// rest. An empty list is still submitted.
func (s *GPAService) Calculate(ctx context.Context, courses []domain.Course) (domain.Report, int, error) {
	kept := domain.FilterCourses(courses)
	report, err := s.calculator.Calculate(ctx, kept)
	if err != nil {
		return domain.Report{}, 0, fmt.Errorf("calculate gpa: %w", err)
	}
	return report, len(kept), nil
}

func (s *GPAService) LoadCourses(ctx context.Context, path string) ([]domain.Course, error) {
	if s.files == nil {
		return nil, fmt.Errorf("course file store is not configured")
	}
	courses, err := s.files.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return courses, nil
}

func (s *GPAService) SavedCourses(ctx context.Context) ([]domain.SavedCourse, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	courses, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list saved courses: %w", err)
	}
	return courses, nil
}

func (s *GPAService) AddCourse(ctx context.Context, course domain.Course, semester string) (domain.SavedCourse, error) {
	if s.store == nil {
		return domain.SavedCourse{}, errNoStore
	}
	if err := course.Validate(); err != nil {
		return domain.SavedCourse{}, err
	}
	saved, err := s.store.Add(ctx, course, semester)
	if err != nil {
		return domain.SavedCourse{}, fmt.Errorf("add course: %w", err)
	}
	return saved, nil
}

func (s *GPAService) DeleteCourse(ctx context.Context, id int64) error {
	if s.store == nil {
		return errNoStore
	}
	if id <= 0 {
		return fmt.Errorf("%w: course id %d", apperrors.ErrInvalidInput, id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return nil
}

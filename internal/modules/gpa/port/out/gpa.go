package out

import (
	"context"

	"smarttrack/internal/modules/gpa/domain"
)

// Calculator submits courses to the backend scoring endpoint.
type Calculator interface {
	Calculate(ctx context.Context, courses []domain.Course) (domain.Report, error)
}

type CourseFile interface {
	Load(ctx context.Context, path string) ([]domain.Course, error)
}

// CourseStore keeps named courses on the backend, newest first.
type CourseStore interface {
	List(ctx context.Context) ([]domain.SavedCourse, error)
	Add(ctx context.Context, course domain.Course, semester string) (domain.SavedCourse, error)
	Delete(ctx context.Context, id int64) error
}

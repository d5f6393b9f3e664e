package out

import (
	"context"
	"fmt"
	"net/url"

	"smarttrack/internal/modules/gpa/domain"
	gpaout "smarttrack/internal/modules/gpa/port/out"
)

// CourseAPI is the subset of the API client the course store needs.
type CourseAPI interface {
	JSONPoster
	FetchJSON(ctx context.Context, path string, query url.Values, out any) error
	DeleteJSON(ctx context.Context, path string, out any) error
}

type HTTPCourseStore struct {
	api CourseAPI
}

func NewHTTPCourseStore(api CourseAPI) gpaout.CourseStore {
	return &HTTPCourseStore{api: api}
}

type addCourseBody struct {
	Name     string  `json:"name"`
	Credits  float64 `json:"credits"`
	Grade    string  `json:"grade"`
	Semester string  `json:"semester"`
}

type savedCoursePayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Credits   float64 `json:"credits"`
	Grade     string  `json:"grade"`
	Semester  string  `json:"semester"`
	CreatedAt string  `json:"created_at"`
}

func (p savedCoursePayload) toDomain() domain.SavedCourse {
	return domain.SavedCourse{
		ID:        p.ID,
		Course:    domain.Course{Name: p.Name, Credits: p.Credits, Grade: domain.Grade(p.Grade)},
		Semester:  p.Semester,
		CreatedAt: p.CreatedAt,
	}
}

func (s *HTTPCourseStore) List(ctx context.Context) ([]domain.SavedCourse, error) {
	var payload []savedCoursePayload
	if err := s.api.FetchJSON(ctx, "gpa/courses/", nil, &payload); err != nil {
		return nil, err
	}
	courses := make([]domain.SavedCourse, 0, len(payload))
	for _, p := range payload {
		courses = append(courses, p.toDomain())
	}
	return courses, nil
}

func (s *HTTPCourseStore) Add(ctx context.Context, course domain.Course, semester string) (domain.SavedCourse, error) {
	body := addCourseBody{Name: course.Name, Credits: course.Credits, Grade: string(course.Grade), Semester: semester}
	var payload savedCoursePayload
	if err := s.api.PostJSON(ctx, "gpa/courses/add/", body, &payload); err != nil {
		return domain.SavedCourse{}, err
	}
	return payload.toDomain(), nil
}

func (s *HTTPCourseStore) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteJSON(ctx, fmt.Sprintf("gpa/courses/%d/delete/", id), nil)
}

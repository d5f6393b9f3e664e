package out

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"smarttrack/internal/modules/gpa/domain"
	gpaout "smarttrack/internal/modules/gpa/port/out"
)

// YAMLCourseFile reads course lists of the form
//
//	courses:
//	  - name: Math
//	    credits: 3
//	    grade: A
type YAMLCourseFile struct{}

func NewYAMLCourseFile() gpaout.CourseFile {
	return YAMLCourseFile{}
}

type courseFile struct {
	Courses []struct {
		Name    string  `yaml:"name"`
		Credits float64 `yaml:"credits"`
		Grade   string  `yaml:"grade"`
	} `yaml:"courses"`
}

func (YAMLCourseFile) Load(_ context.Context, path string) ([]domain.Course, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course file: %w", err)
	}
	var file courseFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode course file %s: %w", path, err)
	}
	courses := make([]domain.Course, 0, len(file.Courses))
	for i, c := range file.Courses {
		grade, err := domain.ParseGrade(c.Grade)
		if err != nil {
			return nil, fmt.Errorf("course %d in %s: %w", i+1, path, err)
		}
		courses = append(courses, domain.Course{Name: c.Name, Credits: c.Credits, Grade: grade})
	}
	return courses, nil
}

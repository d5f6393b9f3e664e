package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "smarttrack/internal/platform/errors"
)

type Grade string

// Grades lists the letter grades the backend scale knows, best first.
var Grades = []Grade{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}

func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Grades {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, raw)
}

type Course struct {
	Name    string
	Credits float64
	Grade   Grade
}

// FilterCourses drops every course without positive credits. The order of
// the remaining courses is kept.
func FilterCourses(courses []Course) []Course {
	kept := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.Credits > 0 {
			kept = append(kept, c)
		}
	}
	return kept
}

// ParseCourse reads "name:credits:grade". The name may be empty or contain
// colons; credits and grade are always the last two fields. Blank credits
// read as zero. A row without positive credits is returned with its grade
// unchecked, since it is never submitted.
func ParseCourse(spec string) (Course, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return Course{}, fmt.Errorf("%w: course %q must look like name:credits:grade", apperrors.ErrInvalidInput, spec)
	}
	n := len(parts)
	course := Course{Name: strings.TrimSpace(strings.Join(parts[:n-2], ":"))}
	if raw := strings.TrimSpace(parts[n-2]); raw != "" {
		credits, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Course{}, fmt.Errorf("%w: credits %q in course %q", apperrors.ErrInvalidInput, parts[n-2], spec)
		}
		course.Credits = credits
	}
	if course.Credits <= 0 {
		course.Grade = Grade(strings.ToUpper(strings.TrimSpace(parts[n-1])))
		return course, nil
	}
	grade, err := ParseGrade(parts[n-1])
	if err != nil {
		return Course{}, err
	}
	course.Grade = grade
	return course, nil
}

// SavedCourse is a course row stored by the backend.
type SavedCourse struct {
	ID        int64
	Course    Course
	Semester  string
	CreatedAt string
}

// Validate checks a course before it is stored. Unlike a calculation row it
// must carry positive credits and a known grade.
func (c Course) Validate() error {
	if c.Credits <= 0 {
		return fmt.Errorf("%w: course %q needs positive credits", apperrors.ErrInvalidInput, c.Name)
	}
	_, err := ParseGrade(string(c.Grade))
	return err
}

// SampleCourses is the starter table shown before the user enters anything.
func SampleCourses() []Course {
	return []Course{
		{Name: "Math", Credits: 3, Grade: "A"},
		{Name: "English", Credits: 3, Grade: "B+"},
		{Name: "History", Credits: 2, Grade: "A-"},
		{Name: "CRE", Credits: 3, Grade: "A"},
		{Name: "SSC", Credits: 3.5, Grade: "A+"},
	}
}

type ReportRow struct {
	Name    string
	Credits float64
	Grade   string
	Explain string
}

// Report is the backend's GPA computation. The client never recomputes it.
type Report struct {
	GPA          float64
	TotalCredits float64
	Rows         []ReportRow
}

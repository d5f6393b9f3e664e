package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "smarttrack/internal/platform/errors"
)

const (
	DefaultCatWeight  = 0.4
	DefaultExamWeight = 0.6
)

// Weights splits a semester grade between continuous assessment and the
// exam. The backend decides whether a pair is acceptable.
type Weights struct {
	Cat  float64
	Exam float64
}

func DefaultWeights() Weights {
	return Weights{Cat: DefaultCatWeight, Exam: DefaultExamWeight}
}

// ParseWeights reads user-entered weights; an empty field takes its default.
func ParseWeights(cat, exam string) (Weights, error) {
	c, err := parseWeight("cat", cat, DefaultCatWeight)
	if err != nil {
		return Weights{}, err
	}
	e, err := parseWeight("exam", exam, DefaultExamWeight)
	if err != nil {
		return Weights{}, err
	}
	return Weights{Cat: c, Exam: e}, nil
}

func parseWeight(name, raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s weight %q is not a number", apperrors.ErrInvalidInput, name, raw)
	}
	return v, nil
}

type SemesterGPA struct {
	SemesterID string
	Start      string
	End        string
	GPA        float64
}

type Correlation struct {
	SemesterID  string
	GPA         float64
	Correlation float64
}

type Semester struct {
	ID                string
	Start             string
	End               string
	GPA               float64
	DaysSeen          int
	AvgHoursPerDay    map[string]float64
	PlatformTotalsSec map[string]float64
	Recommendations   []string
}

type Report struct {
	GPABySemester []SemesterGPA
	TimeVsGPA     []Correlation
	Semesters     []Semester
	Note          string
}

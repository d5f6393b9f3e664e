package dto

type RunInput struct {
	Cat  string
	Exam string
}

type SemesterGPAOutput struct {
	SemesterID string
	Start      string
	End        string
	GPA        float64
}

type CorrelationOutput struct {
	SemesterID  string
	GPA         float64
	Correlation float64
}

type SemesterOutput struct {
	ID                string
	Start             string
	End               string
	GPA               float64
	DaysSeen          int
	AvgHoursPerDay    map[string]float64
	PlatformTotalsSec map[string]float64
	Recommendations   []string
}

type ReportOutput struct {
	CatWeight     float64
	ExamWeight    float64
	GPABySemester []SemesterGPAOutput
	TimeVsGPA     []CorrelationOutput
	Semesters     []SemesterOutput
	Note          string
}

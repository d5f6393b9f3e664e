package dto

type CourseInput struct {
	Name    string
	Credits float64
	Grade   string
}

type CalculateInput struct {
	Courses []CourseInput
}

type ReportRowOutput struct {
	Name    string
	Credits float64
	Grade   string
	Explain string
}

type ReportOutput struct {
	GPA          float64
	TotalCredits float64
	Rows         []ReportRowOutput
	// Submitted is the number of courses sent after filtering.
	Submitted int
}

// AddCourseInput stores one course on the backend. Semester is free text.
type AddCourseInput struct {
	Name     string
	Credits  float64
	Grade    string
	Semester string
}

type SavedCourseOutput struct {
	ID        int64
	Name      string
	Credits   float64
	Grade     string
	Semester  string
	CreatedAt string
}

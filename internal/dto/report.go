package dto

// ProgressReportRequest progress report query. SchoolID is honoured for
// super admins only; everyone else is pinned to their own school.
type ProgressReportRequest struct {
	DeploymentID string `form:"deploymentId" binding:"omitempty,uuid"`
	SchoolID     string `form:"schoolId"     binding:"omitempty,uuid"`
}

// StudentProgressRow one student line of the progress report.
type StudentProgressRow struct {
	StudentID       string  `json:"studentId"`
	StudentName     string  `json:"studentName"`
	StudentEmail    string  `json:"studentEmail"`
	Assignments     int64   `json:"assignments"`
	Completed       int64   `json:"completed"`
	InProgress      int64   `json:"inProgress"`
	Overdue         int64   `json:"overdue"`
	AverageProgress float64 `json:"averageProgress"`
}

// ProgressReportResponse progress report payload.
type ProgressReportResponse struct {
	SchoolID     string               `json:"schoolId,omitempty"`
	DeploymentID string               `json:"deploymentId,omitempty"`
	Rows         []StudentProgressRow `json:"rows"`
	GeneratedAt  string               `json:"generatedAt"`
}

// CalendarRequest GET /api/rotations/calendar.ics query.
type CalendarRequest struct {
	StudentID string `form:"studentId" binding:"omitempty,uuid"`
}

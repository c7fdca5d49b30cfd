package dto

// StudentDashboardRequest GET /api/dashboard/student query. Staff pass the
// student; students get their own dashboard.
type StudentDashboardRequest struct {
	StudentID string `form:"studentId" binding:"omitempty,uuid"`
}

// AssignmentSummary assignment counts by status.
type AssignmentSummary struct {
	Total           int64   `json:"total"`
	Assigned        int64   `json:"assigned"`
	InProgress      int64   `json:"inProgress"`
	Completed       int64   `json:"completed"`
	Overdue         int64   `json:"overdue"`
	AverageProgress float64 `json:"averageProgress"`
}

// RotationSummary a rotation as shown on dashboards.
type RotationSummary struct {
	ID        string `json:"id"`
	Specialty string `json:"specialty"`
	SiteName  string `json:"siteName,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// EvaluationSummary a recent evaluation.
type EvaluationSummary struct {
	ID              string  `json:"id"`
	AssignmentID    string  `json:"assignmentId"`
	EvaluatorID     string  `json:"evaluatorId"`
	EvaluatorName   string  `json:"evaluatorName,omitempty"`
	Type            string  `json:"type"`
	OverallRating   float64 `json:"overallRating"`
	ApprovalStatus  string  `json:"approvalStatus"`
	ObservationDate string  `json:"observationDate"`
}

// StudentDashboardResponse GET /api/dashboard/student payload.
type StudentDashboardResponse struct {
	StudentID         string               `json:"studentId"`
	Assignments       AssignmentSummary    `json:"assignments"`
	CurrentRotation   *RotationSummary     `json:"currentRotation"`
	RecentEvaluations []EvaluationSummary  `json:"recentEvaluations"`
	RecentSubmissions []SubmissionResponse `json:"recentSubmissions"`
	GeneratedAt       string               `json:"generatedAt"`
}

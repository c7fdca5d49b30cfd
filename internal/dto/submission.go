package dto

import "time"

// MaxBatchSize most items accepted in one batch submission.
const MaxBatchSize = 50

// SubmissionItem one student-competency evaluation inside a submission.
type SubmissionItem struct {
	StudentID           string     `json:"studentId"           binding:"required,uuid"`
	CompetencyID        string     `json:"competencyId"        binding:"required,uuid"`
	AssignmentID        string     `json:"assignmentId"        binding:"required,uuid"`
	RotationID          *string    `json:"rotationId"          binding:"omitempty,uuid"`
	Rating              int        `json:"rating"              binding:"required,min=1,max=5"`
	Feedback            string     `json:"feedback"            binding:"omitempty,max=5000"`
	Strengths           string     `json:"strengths"           binding:"omitempty,max=2000"`
	AreasForImprovement string     `json:"areasForImprovement" binding:"omitempty,max=2000"`
	EvaluationType      string     `json:"evaluationType"      binding:"omitempty,oneof=FORMATIVE SUMMATIVE MIDTERM FINAL"`
	ObservationDate     *time.Time `json:"observationDate"`
	Notes               string     `json:"notes"               binding:"omitempty,max=2000"`
}

// BatchSubmissionRequest the {"submissions": [...]} body shape.
type BatchSubmissionRequest struct {
	Submissions []SubmissionItem `json:"submissions" binding:"required,min=1,max=50,dive"`
}

// SubmissionSuccess a persisted item.
type SubmissionSuccess struct {
	Index            int     `json:"index"`
	SubmissionID     string  `json:"submissionId"`
	EvaluationID     string  `json:"evaluationId"`
	StudentID        string  `json:"studentId"`
	CompetencyID     string  `json:"competencyId"`
	AssignmentID     string  `json:"assignmentId"`
	PassRate         float64 `json:"passRate"`
	AssignmentStatus string  `json:"assignmentStatus"`
}

// Failure codes carried by SubmissionFailure.Code.
const (
	FailureNotFound     = "NOT_FOUND"
	FailureForbidden    = "FORBIDDEN"
	FailureBusinessRule = "BUSINESS_RULE_VIOLATION"
	FailureDuplicate    = "DUPLICATE"
	FailureInternal     = "INTERNAL_ERROR"
)

// SubmissionFailure a rejected item. Index is the item's position in the
// request array.
type SubmissionFailure struct {
	Index        int    `json:"index"`
	Error        string `json:"error"`
	Code         string `json:"code"`
	StudentID    string `json:"studentId"`
	CompetencyID string `json:"competencyId"`
	AssignmentID string `json:"assignmentId"`
}

// SubmissionSummary counts.
type SubmissionSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchSubmissionResult per-item outcomes of a submission request.
type BatchSubmissionResult struct {
	Successful []SubmissionSuccess `json:"successful"`
	Failed     []SubmissionFailure `json:"failed"`
	Summary    SubmissionSummary   `json:"summary"`
}

// SubmissionMeta response metadata.
type SubmissionMeta struct {
	Timestamp      string `json:"timestamp"`
	RequestID      string `json:"requestId"`
	SubmissionType string `json:"submissionType"`
}

// SubmissionListRequest GET /api/competency-submissions query.
type SubmissionListRequest struct {
	PaginationRequest
	StudentID    string     `form:"studentId"    binding:"omitempty,uuid"`
	CompetencyID string     `form:"competencyId" binding:"omitempty,uuid"`
	AssignmentID string     `form:"assignmentId" binding:"omitempty,uuid"`
	SubmittedBy  string     `form:"submittedBy"  binding:"omitempty,uuid"`
	Status       string     `form:"status"       binding:"omitempty,oneof=SUBMITTED UNDER_REVIEW APPROVED REJECTED REQUIRES_REVISION"`
	DateFrom     *time.Time `form:"dateFrom"     time_format:"2006-01-02"`
	DateTo       *time.Time `form:"dateTo"       time_format:"2006-01-02"`
	Search       string     `form:"search"       binding:"omitempty,max=100"`
}

// SubmissionResponse one listed submission.
type SubmissionResponse struct {
	ID             string  `json:"id"`
	StudentID      string  `json:"studentId"`
	StudentName    string  `json:"studentName,omitempty"`
	CompetencyID   string  `json:"competencyId"`
	CompetencyName string  `json:"competencyName,omitempty"`
	AssignmentID   *string `json:"assignmentId,omitempty"`
	EvaluationID   *string `json:"evaluationId,omitempty"`
	SubmittedBy    string  `json:"submittedBy"`
	SubmitterName  string  `json:"submitterName,omitempty"`
	Status         string  `json:"status"`
	SubmissionType string  `json:"submissionType"`
	RotationID     *string `json:"rotationId,omitempty"`
	Rating         *int    `json:"rating,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	SubmittedAt    string  `json:"submittedAt"`
}

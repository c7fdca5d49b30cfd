package dto

import "time"

// CreateEvaluationRequest POST /api/competency-evaluations body.
type CreateEvaluationRequest struct {
	AssignmentID    string             `json:"assignmentId"    binding:"required,uuid"`
	EvaluatorID     string             `json:"evaluatorId"     binding:"required,uuid"`
	CriterionScores map[string]float64 `json:"criterionScores" binding:"required,dive,keys,min=1,max=100,endkeys,min=0,max=5"`
	OverallScore    *float64           `json:"overallScore"    binding:"required,min=0,max=5"`
	Feedback        string             `json:"feedback"        binding:"omitempty,max=5000"`
	Status          string             `json:"status"          binding:"required,oneof=approved needs_revision incomplete"`
	Recommendations string             `json:"recommendations" binding:"omitempty,max=5000"`
	EvaluationDate  *time.Time         `json:"evaluationDate"`
}

// EvaluationCreatedResponse POST /api/competency-evaluations result.
type EvaluationCreatedResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EvaluationID string `json:"evaluationId"`
}

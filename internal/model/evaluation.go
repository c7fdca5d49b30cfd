package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EvaluationType kind of assessment.
type EvaluationType string

const (
	EvaluationFormative EvaluationType = "FORMATIVE"
	EvaluationSummative EvaluationType = "SUMMATIVE"
	EvaluationMidterm   EvaluationType = "MIDTERM"
	EvaluationFinal     EvaluationType = "FINAL"
)

// Approval statuses of an evaluation.
const (
	ApprovalApproved      = "approved"
	ApprovalNeedsRevision = "needs_revision"
	ApprovalIncomplete    = "incomplete"
)

// PassingRating lowest overall rating that counts toward an assignment's
// evaluation pass rate.
const PassingRating = 3

// Evaluation per-rotation assessment of a student (table evaluations).
// At most one row per (assignment_id, evaluator_id), enforced by
// uq_evaluations_assignment_evaluator.
type Evaluation struct {
	ID                  string         `gorm:"type:uuid;primaryKey"                                        json:"id"`
	AssignmentID        string         `gorm:"type:uuid;not null;uniqueIndex:uq_evaluations_assignment_evaluator" json:"assignmentId"`
	EvaluatorID         string         `gorm:"type:uuid;not null;uniqueIndex:uq_evaluations_assignment_evaluator" json:"evaluatorId"`
	RotationID          string         `gorm:"type:uuid;not null;index"                                    json:"rotationId"`
	StudentID           string         `gorm:"type:uuid;not null;index"                                    json:"studentId"`
	Type                EvaluationType `gorm:"column:evaluation_type;type:varchar(20);not null;default:'FORMATIVE'" json:"type"`
	OverallRating       float64        `gorm:"type:numeric(3,1);not null"                                  json:"overallRating"`
	ClinicalSkills      float64        `gorm:"type:numeric(3,1);not null"                                  json:"clinicalSkills"`
	Communication       float64        `gorm:"type:numeric(3,1);not null"                                  json:"communication"`
	Professionalism     float64        `gorm:"type:numeric(3,1);not null"                                  json:"professionalism"`
	CriticalThinking    float64        `gorm:"type:numeric(3,1);not null"                                  json:"criticalThinking"`
	CriterionScores     datatypes.JSON `json:"criterionScores,omitempty"`
	Feedback            string         `gorm:"type:text"                                                   json:"feedback,omitempty"`
	Strengths           string         `gorm:"type:text"                                                   json:"strengths,omitempty"`
	AreasForImprovement string         `gorm:"type:text"                                                   json:"areasForImprovement,omitempty"`
	Recommendations     string         `gorm:"type:text"                                                   json:"recommendations,omitempty"`
	ApprovalStatus      string         `gorm:"type:varchar(20);not null;default:'approved'"                json:"approvalStatus"`
	ObservationDate     time.Time      `gorm:"not null"                                                    json:"observationDate"`
	EvaluatorSignedAt   *time.Time     `json:"evaluatorSignedAt,omitempty"`
	BaseModel

	Evaluator *User `gorm:"foreignKey:EvaluatorID;references:ID" json:"evaluator,omitempty"`
}

// TableName table name.
func (Evaluation) TableName() string { return "evaluations" }

// BeforeCreate assigns the primary key.
func (e *Evaluation) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// SetUniformRating fans a single score across every skill dimension.
func (e *Evaluation) SetUniformRating(score float64) {
	e.OverallRating = score
	e.ClinicalSkills = score
	e.Communication = score
	e.Professionalism = score
	e.CriticalThinking = score
}

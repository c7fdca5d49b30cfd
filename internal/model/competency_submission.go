package model

import (
	"time"

	"gorm.io/gorm"
)

// SubmissionStatus review state of a submission.
type SubmissionStatus string

const (
	SubmissionSubmitted        SubmissionStatus = "SUBMITTED"
	SubmissionUnderReview      SubmissionStatus = "UNDER_REVIEW"
	SubmissionApproved         SubmissionStatus = "APPROVED"
	SubmissionRejected         SubmissionStatus = "REJECTED"
	SubmissionRequiresRevision SubmissionStatus = "REQUIRES_REVISION"
)

// SubmissionType how the submission arrived.
type SubmissionType string

const (
	SubmissionIndividual SubmissionType = "INDIVIDUAL"
	SubmissionBatch      SubmissionType = "BATCH"
)

// CompetencySubmission evidence that a student was evaluated on one
// competency (table competency_submissions). Written once per evaluator event;
// the reconciler only counts these rows.
type CompetencySubmission struct {
	ID             string           `gorm:"type:uuid;primaryKey"                           json:"id"`
	StudentID      string           `gorm:"type:uuid;not null;index"                       json:"studentId"`
	CompetencyID   string           `gorm:"type:uuid;not null;index"                       json:"competencyId"`
	AssignmentID   *string          `gorm:"type:uuid;index"                                json:"assignmentId,omitempty"`
	EvaluationID   *string          `gorm:"type:uuid"                                      json:"evaluationId,omitempty"`
	SubmittedBy    string           `gorm:"type:uuid;not null;index"                       json:"submittedBy"`
	Status         SubmissionStatus `gorm:"type:varchar(20);not null;default:'SUBMITTED'"  json:"status"`
	RotationID     *string          `gorm:"type:uuid"                                      json:"rotationId,omitempty"`
	SubmissionType SubmissionType   `gorm:"type:varchar(20);not null;default:'INDIVIDUAL'" json:"submissionType"`
	Rating         *int             `json:"rating,omitempty"`
	Notes          string           `gorm:"type:text"                                      json:"notes,omitempty"`
	SubmittedAt    time.Time        `gorm:"not null;index"                                 json:"submittedAt"`
	BaseModel

	Student    *User       `gorm:"foreignKey:StudentID;references:ID"    json:"student,omitempty"`
	Submitter  *User       `gorm:"foreignKey:SubmittedBy;references:ID"  json:"submitter,omitempty"`
	Competency *Competency `gorm:"foreignKey:CompetencyID;references:ID" json:"competency,omitempty"`
}

// TableName table name.
func (CompetencySubmission) TableName() string { return "competency_submissions" }

// BeforeCreate assigns the primary key.
func (s *CompetencySubmission) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// AssignmentStatus lifecycle: ASSIGNED → IN_PROGRESS → COMPLETED, with
// OVERDUE as a time-based side state.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "ASSIGNED"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentOverdue    AssignmentStatus = "OVERDUE"
)

// CompetencyAssignment per-student obligation to complete a competency
// (table competency_assignments).
//
// Status and ProgressPercentage are owned by the progress reconciliation
// paths and are only made consistent when those run; readers must tolerate
// a stale pair between a submission and its reconciliation.
type CompetencyAssignment struct {
	ID                 string           `gorm:"type:uuid;primaryKey"                         json:"id"`
	UserID             string           `gorm:"type:uuid;not null;index:idx_assignment_user_competency" json:"userId"`
	CompetencyID       string           `gorm:"type:uuid;not null;index:idx_assignment_user_competency" json:"competencyId"`
	DeploymentID       *string          `gorm:"type:uuid;index"                              json:"deploymentId,omitempty"`
	Status             AssignmentStatus `gorm:"type:varchar(20);not null;default:'ASSIGNED'" json:"status"`
	ProgressPercentage float64          `gorm:"type:numeric(5,2);not null;default:0"         json:"progressPercentage"`
	DueDate            *time.Time       `json:"dueDate,omitempty"`
	CompletionDate     *time.Time       `json:"completionDate,omitempty"`
	AssignedBy         *string          `gorm:"type:uuid"                                    json:"assignedBy,omitempty"`
	BaseModel

	User       *User       `gorm:"foreignKey:UserID;references:ID"       json:"user,omitempty"`
	Competency *Competency `gorm:"foreignKey:CompetencyID;references:ID" json:"competency,omitempty"`
}

// TableName table name.
func (CompetencyAssignment) TableName() string { return "competency_assignments" }

// BeforeCreate assigns the primary key.
func (a *CompetencyAssignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

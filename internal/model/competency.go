package model

import (
	"time"

	"gorm.io/gorm"
)

// CompetencyLevel required proficiency, ordered.
type CompetencyLevel string

const (
	LevelFundamental  CompetencyLevel = "FUNDAMENTAL"
	LevelIntermediate CompetencyLevel = "INTERMEDIATE"
	LevelAdvanced     CompetencyLevel = "ADVANCED"
	LevelExpert       CompetencyLevel = "EXPERT"
)

// Rank orders levels FUNDAMENTAL(1) < INTERMEDIATE < ADVANCED < EXPERT(4).
// Unknown levels rank 0.
func (l CompetencyLevel) Rank() int {
	switch l {
	case LevelFundamental:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	case LevelExpert:
		return 4
	}
	return 0
}

// Competency a gradable clinical skill (table competencies).
type Competency struct {
	ID           string          `gorm:"type:uuid;primaryKey"                             json:"id"`
	Name         string          `gorm:"type:varchar(200);not null"                       json:"name"`
	Description  string          `gorm:"type:text"                                        json:"description,omitempty"`
	Category     string          `gorm:"type:varchar(100);not null"                       json:"category"`
	Level        CompetencyLevel `gorm:"type:varchar(20);not null;default:'FUNDAMENTAL'"  json:"level"`
	IsDeployed   bool            `gorm:"not null;default:false"                           json:"isDeployed"`
	DeploymentID *string         `gorm:"type:uuid;index"                                  json:"deploymentId,omitempty"`
	SchoolID     *string         `gorm:"type:uuid;index"                                  json:"schoolId,omitempty"`
	BaseModel

	Deployment *CompetencyDeployment `gorm:"foreignKey:DeploymentID;references:ID" json:"deployment,omitempty"`
}

// TableName table name.
func (Competency) TableName() string { return "competencies" }

// BeforeCreate assigns the primary key.
func (c *Competency) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Deployment statuses.
const (
	DeploymentDraft    = "DRAFT"
	DeploymentActive   = "ACTIVE"
	DeploymentArchived = "ARCHIVED"
)

// CompetencyDeployment a bundle of competencies published to a school or
// program; progress is measured against it (table competency_deployments).
type CompetencyDeployment struct {
	ID         string     `gorm:"type:uuid;primaryKey"                      json:"id"`
	Name       string     `gorm:"type:varchar(200);not null"                json:"name"`
	SchoolID   *string    `gorm:"type:uuid;index"                           json:"schoolId,omitempty"`
	ProgramID  *string    `gorm:"type:uuid"                                 json:"programId,omitempty"`
	Status     string     `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	DeployedAt *time.Time `json:"deployedAt,omitempty"`
	BaseModel
}

// TableName table name.
func (CompetencyDeployment) TableName() string { return "competency_deployments" }

// BeforeCreate assigns the primary key.
func (d *CompetencyDeployment) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

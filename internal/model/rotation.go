package model

import (
	"time"

	"gorm.io/gorm"
)

// Rotation statuses.
const (
	RotationScheduled = "SCHEDULED"
	RotationActive    = "ACTIVE"
	RotationCompleted = "COMPLETED"
	RotationCancelled = "CANCELLED"
)

// Rotation time-boxed clinical placement of a student (table rotations).
type Rotation struct {
	ID             string    `gorm:"type:uuid;primaryKey"                          json:"id"`
	StudentID      string    `gorm:"type:uuid;not null;index"                      json:"studentId"`
	ClinicalSiteID *string   `gorm:"type:uuid"                                     json:"clinicalSiteId,omitempty"`
	SiteName       string    `gorm:"type:varchar(200)"                             json:"siteName,omitempty"`
	PreceptorID    *string   `gorm:"type:uuid"                                     json:"preceptorId,omitempty"`
	Specialty      string    `gorm:"type:varchar(100);not null"                    json:"specialty"`
	StartDate      time.Time `gorm:"not null;index"                                json:"startDate"`
	EndDate        time.Time `gorm:"not null"                                      json:"endDate"`
	Status         string    `gorm:"type:varchar(20);not null;default:'SCHEDULED'" json:"status"`
	BaseModel
}

// TableName table name.
func (Rotation) TableName() string { return "rotations" }

// BeforeCreate assigns the primary key.
func (r *Rotation) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit outcome and severity values.
const (
	AuditSuccess = "SUCCESS"
	AuditFailure = "FAILURE"

	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// AuditLog append-only action record (table audit_logs). IntegrityHash covers
// user, action, details, resource id, target user and timestamp.
type AuditLog struct {
	ID            string         `gorm:"type:uuid;primaryKey"                       json:"id"`
	UserID        *string        `gorm:"type:uuid;index"                            json:"userId,omitempty"`
	Action        string         `gorm:"type:varchar(100);not null;index"           json:"action"`
	Resource      string         `gorm:"type:varchar(100)"                          json:"resource,omitempty"`
	ResourceID    *string        `gorm:"type:varchar(100)"                          json:"resourceId,omitempty"`
	TargetUserID  *string        `gorm:"type:uuid"                                  json:"targetUserId,omitempty"`
	Details       datatypes.JSON `json:"details,omitempty"`
	IPAddress     string         `gorm:"type:varchar(64)"                           json:"ipAddress,omitempty"`
	UserAgent     string         `gorm:"type:varchar(512)"                          json:"userAgent,omitempty"`
	Status        string         `gorm:"type:varchar(10);not null;default:'SUCCESS'" json:"status"`
	Severity      string         `gorm:"type:varchar(10);not null;default:'LOW'"    json:"severity"`
	IntegrityHash string         `gorm:"type:varchar(128);not null"                 json:"integrityHash"`
	CreatedAt     time.Time      `gorm:"not null;index"                             json:"createdAt"`
}

// TableName table name.
func (AuditLog) TableName() string { return "audit_logs" }

// BeforeCreate assigns the primary key.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

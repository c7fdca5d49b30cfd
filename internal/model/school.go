package model

import "gorm.io/gorm"

// School tenant (table schools).
type School struct {
	ID       string `gorm:"type:uuid;primaryKey"       json:"id"`
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true"      json:"isActive"`
	BaseModel
}

// TableName table name.
func (School) TableName() string { return "schools" }

// BeforeCreate assigns the primary key.
func (s *School) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

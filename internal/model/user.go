package model

import "gorm.io/gorm"

// User local mirror of an identity-provider account (table users).
type User struct {
	ID       string  `gorm:"type:uuid;primaryKey"                          json:"id"`
	Name     string  `gorm:"type:varchar(200);not null"                    json:"name"`
	Email    string  `gorm:"type:varchar(255);not null;uniqueIndex"        json:"email"`
	Role     Role    `gorm:"type:varchar(32);not null;default:'STUDENT'"   json:"role"`
	SchoolID *string `gorm:"type:uuid;index"                               json:"schoolId,omitempty"`
	IsActive bool    `gorm:"not null;default:true"                         json:"isActive"`
	BaseModel

	School *School `gorm:"foreignKey:SchoolID;references:ID" json:"school,omitempty"`
}

// TableName table name.
func (User) TableName() string { return "users" }

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// InSchool reports whether the user belongs to schoolID.
func (u *User) InSchool(schoolID string) bool {
	return u.SchoolID != nil && *u.SchoolID == schoolID
}

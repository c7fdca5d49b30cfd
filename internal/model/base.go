package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel audit timestamps embedded in every mutable table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// ensureID assigns a random UUID when the primary key was left empty.
// Keys are generated in the application so inserts do not depend on a
// database-side uuid function.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

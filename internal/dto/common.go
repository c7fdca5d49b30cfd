package dto

import "github.com/joban727/medstintapp-sub005/internal/model"

// Caller the authenticated user, taken from the bearer token.
type Caller struct {
	UserID   string
	Role     model.Role
	SchoolID string // empty when the user has no school affiliation

	ClientIP  string
	UserAgent string
}

// HasSchool reports whether the caller is affiliated with a school.
func (c Caller) HasSchool() bool {
	return c.SchoolID != ""
}

// ── pagination ──

// PaginationRequest shared page/limit query parameters.
type PaginationRequest struct {
	Page  int `form:"page"  binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetLimit page size with default.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 20
	}
	return p.Limit
}

// GetOffset row offset.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

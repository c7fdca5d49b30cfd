package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository.
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Competency CompetencyRepository
	Assignment AssignmentRepository
	Submission SubmissionRepository
	Evaluation EvaluationRepository
	Rotation   RotationRepository
	AuditLog   AuditLogRepository
}

// NewRepository builds the aggregate on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Competency: NewCompetencyRepo(db),
		Assignment: NewAssignmentRepo(db),
		Submission: NewSubmissionRepo(db),
		Evaluation: NewEvaluationRepo(db),
		Rotation:   NewRotationRepo(db),
		AuditLog:   NewAuditLogRepo(db),
	}
}

// Transaction runs fn with repositories bound to one database transaction.
// fn's error rolls the transaction back. An aggregate assembled without a
// database (service tests) runs fn against itself.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

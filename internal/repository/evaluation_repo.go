package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
	pkgerrors "github.com/joban727/medstintapp-sub005/pkg/errors"
)

// PassRate evaluation counts of one assignment.
type PassRate struct {
	Total  int64
	Passed int64
}

// EvaluationRepository evaluation access.
type EvaluationRepository interface {
	// Create inserts the evaluation. A second row for the same assignment
	// and evaluator fails with pkgerrors.ErrDuplicateKey.
	Create(ctx context.Context, evaluation *model.Evaluation) error
	ExistsForAssignmentAndEvaluator(ctx context.Context, assignmentID, evaluatorID string) (bool, error)
	// PassRateStats counts the assignment's evaluations and those with an
	// overall rating of at least passing.
	PassRateStats(ctx context.Context, assignmentID string, passing float64) (PassRate, error)
	ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.Evaluation, error)
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo creates an EvaluationRepository.
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	err := r.db.WithContext(ctx).Create(evaluation).Error
	if pkgerrors.IsDuplicateKey(err) {
		return pkgerrors.ErrDuplicateKey
	}
	return err
}

func (r *evaluationRepo) ExistsForAssignmentAndEvaluator(ctx context.Context, assignmentID, evaluatorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("assignment_id = ? AND evaluator_id = ?", assignmentID, evaluatorID).
		Count(&count).Error
	return count > 0, err
}

func (r *evaluationRepo) PassRateStats(ctx context.Context, assignmentID string, passing float64) (PassRate, error) {
	var stats PassRate
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN overall_rating >= ? THEN 1 ELSE 0 END), 0) AS passed", passing).
		Where("assignment_id = ?", assignmentID).
		Scan(&stats).Error
	return stats, err
}

func (r *evaluationRepo) ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Evaluator").
		Where("student_id = ?", studentID).
		Order("observation_date DESC").
		Limit(limit).
		Find(&evaluations).Error
	return evaluations, err
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
)

// RotationRepository rotation access.
type RotationRepository interface {
	Create(ctx context.Context, rotation *model.Rotation) error
	GetByID(ctx context.Context, id string) (*model.Rotation, error)
	// LatestByStudent returns the student's rotation with the latest start
	// date regardless of status, or nil when the student has none.
	LatestByStudent(ctx context.Context, studentID string) (*model.Rotation, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Rotation, error)
}

type rotationRepo struct {
	db *gorm.DB
}

// NewRotationRepo creates a RotationRepository.
func NewRotationRepo(db *gorm.DB) RotationRepository {
	return &rotationRepo{db: db}
}

func (r *rotationRepo) Create(ctx context.Context, rotation *model.Rotation) error {
	return r.db.WithContext(ctx).Create(rotation).Error
}

func (r *rotationRepo) GetByID(ctx context.Context, id string) (*model.Rotation, error) {
	var rotation model.Rotation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rotation).Error; err != nil {
		return nil, err
	}
	return &rotation, nil
}

func (r *rotationRepo) LatestByStudent(ctx context.Context, studentID string) (*model.Rotation, error) {
	var rotation model.Rotation
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("start_date DESC").
		First(&rotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rotation, nil
}

func (r *rotationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Rotation, error) {
	var rotations []model.Rotation
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("start_date").
		Find(&rotations).Error
	return rotations, err
}

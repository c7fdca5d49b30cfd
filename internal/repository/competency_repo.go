package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
)

// CompetencyRepository competencies and their deployments.
type CompetencyRepository interface {
	Create(ctx context.Context, competency *model.Competency) error
	GetByID(ctx context.Context, id string) (*model.Competency, error)
	CreateDeployment(ctx context.Context, deployment *model.CompetencyDeployment) error
	GetDeployment(ctx context.Context, id string) (*model.CompetencyDeployment, error)
	// CountDeployedInDeployment counts competencies of the deployment that
	// are marked deployed.
	CountDeployedInDeployment(ctx context.Context, deploymentID string) (int64, error)
}

type competencyRepo struct {
	db *gorm.DB
}

// NewCompetencyRepo creates a CompetencyRepository.
func NewCompetencyRepo(db *gorm.DB) CompetencyRepository {
	return &competencyRepo{db: db}
}

func (r *competencyRepo) Create(ctx context.Context, competency *model.Competency) error {
	return r.db.WithContext(ctx).Create(competency).Error
}

func (r *competencyRepo) GetByID(ctx context.Context, id string) (*model.Competency, error) {
	var competency model.Competency
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&competency).Error
	if err != nil {
		return nil, err
	}
	return &competency, nil
}

func (r *competencyRepo) CreateDeployment(ctx context.Context, deployment *model.CompetencyDeployment) error {
	return r.db.WithContext(ctx).Create(deployment).Error
}

func (r *competencyRepo) GetDeployment(ctx context.Context, id string) (*model.CompetencyDeployment, error) {
	var deployment model.CompetencyDeployment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

func (r *competencyRepo) CountDeployedInDeployment(ctx context.Context, deploymentID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Competency{}).
		Where("deployment_id = ? AND is_deployed = ?", deploymentID, true).
		Count(&total).Error
	return total, err
}

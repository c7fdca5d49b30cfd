package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
)

// ProgressUpdate the fields progress reconciliation is allowed to write.
type ProgressUpdate struct {
	ProgressPercentage float64
	Status             model.AssignmentStatus
	CompletionDate     *time.Time // written only when non-nil
}

// StatusCount assignments per status.
type StatusCount struct {
	Status model.AssignmentStatus
	Count  int64
}

// StudentProgressRow per-student assignment aggregate used by reports.
type StudentProgressRow struct {
	StudentID       string
	StudentName     string
	StudentEmail    string
	Total           int64
	Completed       int64
	InProgress      int64
	Overdue         int64
	AverageProgress float64
}

// ProgressReportFilter narrows the progress report.
type ProgressReportFilter struct {
	SchoolID     string
	DeploymentID string
}

// AssignmentRepository competency assignment access.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.CompetencyAssignment) error
	GetByID(ctx context.Context, id string) (*model.CompetencyAssignment, error)
	// FindByStudentAndCompetency returns the newest assignment of the pair.
	FindByStudentAndCompetency(ctx context.Context, studentID, competencyID string) (*model.CompetencyAssignment, error)
	UpdateProgress(ctx context.Context, id string, update ProgressUpdate) error
	CountByStatus(ctx context.Context, studentID string) ([]StatusCount, error)
	AverageProgress(ctx context.Context, studentID string) (float64, error)
	ProgressReport(ctx context.Context, filter ProgressReportFilter) ([]StudentProgressRow, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.CompetencyAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.CompetencyAssignment, error) {
	var assignment model.CompetencyAssignment
	err := r.db.WithContext(ctx).
		Preload("Competency").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) FindByStudentAndCompetency(ctx context.Context, studentID, competencyID string) (*model.CompetencyAssignment, error) {
	var assignment model.CompetencyAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND competency_id = ?", studentID, competencyID).
		Order("created_at DESC").
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) UpdateProgress(ctx context.Context, id string, update ProgressUpdate) error {
	fields := map[string]interface{}{
		"progress_percentage": update.ProgressPercentage,
		"status":              update.Status,
		"updated_at":          time.Now().UTC(),
	}
	if update.CompletionDate != nil {
		fields["completion_date"] = *update.CompletionDate
	}

	result := r.db.WithContext(ctx).
		Model(&model.CompetencyAssignment{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) CountByStatus(ctx context.Context, studentID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.CompetencyAssignment{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", studentID).
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

func (r *assignmentRepo) AverageProgress(ctx context.Context, studentID string) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&model.CompetencyAssignment{}).
		Select("AVG(progress_percentage)").
		Where("user_id = ?", studentID).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *assignmentRepo) ProgressReport(ctx context.Context, filter ProgressReportFilter) ([]StudentProgressRow, error) {
	q := r.db.WithContext(ctx).
		Table("competency_assignments AS a").
		Select(`u.id AS student_id, u.name AS student_name, u.email AS student_email,
			COUNT(a.id) AS total,
			SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS completed,
			SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS in_progress,
			SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS overdue,
			AVG(a.progress_percentage) AS average_progress`,
			model.AssignmentCompleted, model.AssignmentInProgress, model.AssignmentOverdue).
		Joins("JOIN users AS u ON u.id = a.user_id")

	if filter.SchoolID != "" {
		q = q.Where("u.school_id = ?", filter.SchoolID)
	}
	if filter.DeploymentID != "" {
		q = q.Where("a.deployment_id = ?", filter.DeploymentID)
	}

	var rows []StudentProgressRow
	err := q.Group("u.id, u.name, u.email").
		Order("u.name").
		Scan(&rows).Error
	return rows, err
}

package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
)

// SubmissionFilter list filters; empty fields are ignored.
type SubmissionFilter struct {
	StudentID    string
	CompetencyID string
	AssignmentID string
	SubmittedBy  string
	Status       string
	From         *time.Time
	To           *time.Time
	Search       string
	// SchoolID restricts rows to students of one school.
	SchoolID string
	Offset   int
	Limit    int
}

// SubmissionRepository competency submission access.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.CompetencySubmission) error
	// CountSubmittedInDeployment counts the student's SUBMITTED rows whose
	// competency belongs to the deployment.
	CountSubmittedInDeployment(ctx context.Context, studentID, deploymentID string) (int64, error)
	List(ctx context.Context, filter SubmissionFilter) ([]model.CompetencySubmission, int64, error)
	ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.CompetencySubmission, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo creates a SubmissionRepository.
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.CompetencySubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) CountSubmittedInDeployment(ctx context.Context, studentID, deploymentID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.CompetencySubmission{}).
		Joins("JOIN competencies ON competencies.id = competency_submissions.competency_id").
		Where("competency_submissions.student_id = ?", studentID).
		Where("competency_submissions.status = ?", model.SubmissionSubmitted).
		Where("competencies.deployment_id = ?", deploymentID).
		Count(&total).Error
	return total, err
}

func (r *submissionRepo) List(ctx context.Context, filter SubmissionFilter) ([]model.CompetencySubmission, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.CompetencySubmission{}).
		Joins("JOIN users AS students ON students.id = competency_submissions.student_id").
		Joins("JOIN competencies ON competencies.id = competency_submissions.competency_id")

	if filter.StudentID != "" {
		q = q.Where("competency_submissions.student_id = ?", filter.StudentID)
	}
	if filter.CompetencyID != "" {
		q = q.Where("competency_submissions.competency_id = ?", filter.CompetencyID)
	}
	if filter.AssignmentID != "" {
		q = q.Where("competency_submissions.assignment_id = ?", filter.AssignmentID)
	}
	if filter.SubmittedBy != "" {
		q = q.Where("competency_submissions.submitted_by = ?", filter.SubmittedBy)
	}
	if filter.Status != "" {
		q = q.Where("competency_submissions.status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("competency_submissions.submitted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("competency_submissions.submitted_at <= ?", *filter.To)
	}
	if filter.SchoolID != "" {
		q = q.Where("students.school_id = ?", filter.SchoolID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(competencies.name) LIKE ? OR LOWER(students.name) LIKE ? OR LOWER(competency_submissions.notes) LIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.CompetencySubmission
	err := q.Preload("Competency").
		Preload("Student").
		Preload("Submitter").
		Order("competency_submissions.submitted_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepo) ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.CompetencySubmission, error) {
	var submissions []model.CompetencySubmission
	err := r.db.WithContext(ctx).
		Preload("Competency").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

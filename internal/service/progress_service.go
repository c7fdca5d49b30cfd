package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/repository"
)

// ProgressOutcome what a reconciliation run did.
type ProgressOutcome string

const (
	OutcomeNoAssignment ProgressOutcome = "no_assignment"
	OutcomeNoDeployment ProgressOutcome = "no_deployment"
	OutcomeUnchanged    ProgressOutcome = "unchanged"
	OutcomeUpdated      ProgressOutcome = "updated"
	OutcomeFailed       ProgressOutcome = "failed"
)

// ProgressResult result of UpdateAssignmentProgress. Callers on the write
// path discard it; Err is set only for OutcomeFailed and has already been
// logged.
type ProgressResult struct {
	Outcome            ProgressOutcome
	AssignmentID       string
	PreviousPercentage float64
	Percentage         float64
	PreviousStatus     model.AssignmentStatus
	Status             model.AssignmentStatus
	Err                error
}

// ProgressService deployment-level assignment reconciliation.
type ProgressService interface {
	// UpdateAssignmentProgress recomputes the deployment coverage of the
	// student's assignment for competencyID and moves its status forward.
	//
	// submissionStatus is logged but does not take part in the computation:
	// coverage is always derived from the stored SUBMITTED rows.
	UpdateAssignmentProgress(ctx context.Context, studentID, competencyID, submissionStatus string) ProgressResult
}

type progressService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewProgressService creates a ProgressService.
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, logger: logger, now: time.Now}
}

// DeploymentCoverage share of a deployment's deployed competencies the
// student has SUBMITTED evidence for, as a whole percentage in [0, 100].
//
// Not to be confused with EvaluationPassRate, which measures how many of one
// assignment's evaluations passed.
func DeploymentCoverage(submitted, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := math.Round(100 * float64(submitted) / float64(total))
	return math.Min(pct, 100)
}

// NextAssignmentStatus the forward-only status transition for a recomputed
// coverage percentage. COMPLETED never moves back.
func NextAssignmentStatus(current model.AssignmentStatus, pct float64) model.AssignmentStatus {
	switch {
	case current == model.AssignmentInProgress && pct >= 100:
		return model.AssignmentCompleted
	case current == model.AssignmentAssigned && pct > 0 && pct < 100:
		return model.AssignmentInProgress
	}
	return current
}

func (s *progressService) UpdateAssignmentProgress(ctx context.Context, studentID, competencyID, submissionStatus string) ProgressResult {
	log := s.logger.With(
		zap.String("student_id", studentID),
		zap.String("competency_id", competencyID),
		zap.String("submission_status", submissionStatus),
	)

	assignment, err := s.repo.Assignment.FindByStudentAndCompetency(ctx, studentID, competencyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("no competency assignment to reconcile")
			return ProgressResult{Outcome: OutcomeNoAssignment}
		}
		return s.failed(log, ProgressResult{}, "load assignment", err)
	}

	result := ProgressResult{
		AssignmentID:       assignment.ID,
		PreviousPercentage: assignment.ProgressPercentage,
		Percentage:         assignment.ProgressPercentage,
		PreviousStatus:     assignment.Status,
		Status:             assignment.Status,
	}

	if assignment.DeploymentID == nil || *assignment.DeploymentID == "" {
		log.Info("assignment has no deployment, progress not tracked", zap.String("assignment_id", assignment.ID))
		result.Outcome = OutcomeNoDeployment
		return result
	}
	deploymentID := *assignment.DeploymentID

	total, err := s.repo.Competency.CountDeployedInDeployment(ctx, deploymentID)
	if err != nil {
		return s.failed(log, result, "count deployed competencies", err)
	}
	submitted, err := s.repo.Submission.CountSubmittedInDeployment(ctx, studentID, deploymentID)
	if err != nil {
		return s.failed(log, result, "count submitted competencies", err)
	}

	pct := DeploymentCoverage(submitted, total)
	status := NextAssignmentStatus(assignment.Status, pct)
	result.Percentage = pct
	result.Status = status

	if pct == assignment.ProgressPercentage && status == assignment.Status {
		result.Outcome = OutcomeUnchanged
		return result
	}

	update := repository.ProgressUpdate{ProgressPercentage: pct, Status: status}
	if status == model.AssignmentCompleted && assignment.Status != model.AssignmentCompleted {
		now := s.now().UTC()
		update.CompletionDate = &now
	}
	if err := s.repo.Assignment.UpdateProgress(ctx, assignment.ID, update); err != nil {
		return s.failed(log, result, "write assignment progress", err)
	}

	log.Info("assignment progress reconciled",
		zap.String("assignment_id", assignment.ID),
		zap.Int64("submitted", submitted),
		zap.Int64("total", total),
		zap.Float64("progress", pct),
		zap.String("status", string(status)),
	)
	result.Outcome = OutcomeUpdated
	return result
}

func (s *progressService) failed(log *zap.Logger, result ProgressResult, step string, err error) ProgressResult {
	log.Error("assignment progress reconciliation failed", zap.String("step", step), zap.Error(err))
	result.Outcome = OutcomeFailed
	result.Err = err
	return result
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/policy"
	"github.com/joban727/medstintapp-sub005/internal/repository"
	pkgerrors "github.com/joban727/medstintapp-sub005/pkg/errors"
)

// ── competency evaluation errors ──

var (
	ErrEvaluatorMismatch      = errors.New("only administrators may record an evaluation for another evaluator")
	ErrEvaluateForbidden      = errors.New("insufficient permissions to evaluate competencies")
	ErrNoRotationToEvaluateIn = errors.New("student must be assigned to a rotation before evaluation")
)

// EvaluationService single-record evaluation ingestion.
type EvaluationService interface {
	// Create records one evaluation and returns its id.
	Create(ctx context.Context, caller dto.Caller, req *dto.CreateEvaluationRequest) (string, error)
}

type evaluationService struct {
	repo     *repository.Repository
	progress ProgressService
	audit    AuditService
	logger   *zap.Logger
	now      func() time.Time
}

// NewEvaluationService creates an EvaluationService.
func NewEvaluationService(repo *repository.Repository, progress ProgressService, audit AuditService, logger *zap.Logger) EvaluationService {
	return &evaluationService{
		repo:     repo,
		progress: progress,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// progressHint status hint handed to the reconciler for an approval status.
func progressHint(approvalStatus string) string {
	if approvalStatus == model.ApprovalApproved {
		return "completed"
	}
	return "submitted"
}

func (s *evaluationService) Create(ctx context.Context, caller dto.Caller, req *dto.CreateEvaluationRequest) (string, error) {
	if caller.UserID != req.EvaluatorID && !policy.CanEvaluateOnBehalf(caller.Role) {
		s.logDenied(ctx, caller, req, "evaluator_mismatch")
		return "", ErrEvaluatorMismatch
	}
	if !policy.CanSubmitCompetencies(caller.Role) {
		s.logDenied(ctx, caller, req, "role")
		return "", ErrEvaluateForbidden
	}

	assignment, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAssignmentNotFound
		}
		s.logger.Error("load assignment failed", zap.String("assignment_id", req.AssignmentID), zap.Error(err))
		return "", err
	}

	if !policy.ValidateSubmissionTarget(req.EvaluatorID, assignment.UserID, caller.Role) {
		return "", ErrSelfEvaluation
	}

	rotation, err := s.repo.Rotation.LatestByStudent(ctx, assignment.UserID)
	if err != nil {
		s.logger.Error("load rotation failed", zap.String("student_id", assignment.UserID), zap.Error(err))
		return "", err
	}
	if rotation == nil {
		return "", ErrNoRotationToEvaluateIn
	}

	exists, err := s.repo.Evaluation.ExistsForAssignmentAndEvaluator(ctx, assignment.ID, req.EvaluatorID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateEvaluation
	}

	scores, err := json.Marshal(req.CriterionScores)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	observed := now
	if req.EvaluationDate != nil {
		observed = req.EvaluationDate.UTC()
	}

	evaluation := &model.Evaluation{
		AssignmentID:    assignment.ID,
		EvaluatorID:     req.EvaluatorID,
		RotationID:      rotation.ID,
		StudentID:       assignment.UserID,
		Type:            model.EvaluationFormative,
		CriterionScores: datatypes.JSON(scores),
		Feedback:        req.Feedback,
		Recommendations: req.Recommendations,
		ApprovalStatus:  req.Status,
		ObservationDate: observed,
	}
	evaluation.SetUniformRating(*req.OverallScore)
	if req.Status == model.ApprovalApproved {
		evaluation.EvaluatorSignedAt = &now
	}

	if err := s.repo.Evaluation.Create(ctx, evaluation); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return "", ErrDuplicateEvaluation
		}
		s.logger.Error("create evaluation failed", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return "", err
	}

	_ = s.progress.UpdateAssignmentProgress(ctx, assignment.UserID, assignment.CompetencyID, progressHint(req.Status))

	if err := s.audit.Log(ctx, AuditEntry{
		UserID:       caller.UserID,
		Action:       ActionEvaluationCreated,
		Resource:     "evaluation",
		ResourceID:   evaluation.ID,
		TargetUserID: assignment.UserID,
		Details: map[string]interface{}{
			"assignmentId": assignment.ID,
			"evaluatorId":  req.EvaluatorID,
			"overallScore": *req.OverallScore,
			"status":       req.Status,
		},
		IPAddress: caller.ClientIP,
		UserAgent: caller.UserAgent,
	}); err != nil {
		s.logger.Warn("audit evaluation failed", zap.String("evaluation_id", evaluation.ID), zap.Error(err))
	}

	return evaluation.ID, nil
}

func (s *evaluationService) logDenied(ctx context.Context, caller dto.Caller, req *dto.CreateEvaluationRequest, reason string) {
	if err := s.audit.Log(ctx, AuditEntry{
		UserID:     caller.UserID,
		Action:     ActionEvaluationDenied,
		Resource:   "evaluation",
		ResourceID: req.AssignmentID,
		Details: map[string]interface{}{
			"reason":      reason,
			"role":        string(caller.Role),
			"evaluatorId": req.EvaluatorID,
		},
		IPAddress: caller.ClientIP,
		UserAgent: caller.UserAgent,
		Status:    model.AuditFailure,
		Severity:  model.SeverityMedium,
	}); err != nil {
		s.logger.Warn("audit denied evaluation failed", zap.Error(err))
	}
}

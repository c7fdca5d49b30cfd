package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/policy"
	"github.com/joban727/medstintapp-sub005/internal/repository"
	pkgerrors "github.com/joban727/medstintapp-sub005/pkg/errors"
)

// ── competency submission errors ──

var (
	ErrSubmitForbidden      = errors.New("insufficient permissions to submit competency evaluations")
	ErrEmptySubmission      = errors.New("at least one submission is required")
	ErrTooManySubmissions   = errors.New("a batch may contain at most 50 submissions")
	ErrAssignmentNotFound   = errors.New("competency assignment not found")
	ErrAssignmentMismatch   = errors.New("assignment does not match the submitted student and competency")
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentOutsideSchool = errors.New("student does not belong to your school")
	ErrNotAStudent          = errors.New("target user is not a student")
	ErrSelfEvaluation       = errors.New("cannot submit a competency evaluation for yourself")
	ErrDuplicateEvaluation  = errors.New("an evaluation already exists for this assignment and evaluator")
	ErrNoRotation           = errors.New("student must be assigned to a rotation")
	ErrRotationMismatch     = errors.New("rotation does not belong to the student")
	ErrViewForbidden        = errors.New("insufficient permissions to view these competencies")
)

// SubmissionService competency submission ingestion and listing.
type SubmissionService interface {
	// Submit processes items in order. One failing item never aborts the
	// others; the returned error is reserved for request-level rejections
	// (permissions, batch size).
	Submit(ctx context.Context, caller dto.Caller, items []dto.SubmissionItem, submissionType model.SubmissionType) (*dto.BatchSubmissionResult, error)
	List(ctx context.Context, caller dto.Caller, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error)
}

type submissionService struct {
	repo     *repository.Repository
	progress ProgressService
	audit    AuditService
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(repo *repository.Repository, progress ProgressService, audit AuditService, logger *zap.Logger) SubmissionService {
	return &submissionService{
		repo:     repo,
		progress: progress,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// EvaluationPassRate share of an assignment's evaluations rated at or above
// model.PassingRating, as a whole percentage. 0 without evaluations.
//
// This is the assignment-level pass rate written by the submission path. It
// is a different measure from DeploymentCoverage and the two must stay
// separate.
func EvaluationPassRate(passed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(100 * float64(passed) / float64(total))
}

// passRateStatus assignment status written alongside a pass rate.
func passRateStatus(current model.AssignmentStatus, rate float64) model.AssignmentStatus {
	if rate >= 100 || current == model.AssignmentCompleted {
		return model.AssignmentCompleted
	}
	return model.AssignmentInProgress
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, caller dto.Caller, items []dto.SubmissionItem, submissionType model.SubmissionType) (*dto.BatchSubmissionResult, error) {
	if !policy.CanSubmitCompetencies(caller.Role) {
		s.logDenied(ctx, caller, ActionCompetencySubmitDenied, len(items))
		return nil, ErrSubmitForbidden
	}
	if len(items) == 0 {
		return nil, ErrEmptySubmission
	}
	if len(items) > dto.MaxBatchSize {
		return nil, ErrTooManySubmissions
	}

	result := &dto.BatchSubmissionResult{
		Successful: make([]dto.SubmissionSuccess, 0, len(items)),
		Failed:     make([]dto.SubmissionFailure, 0),
	}

	for i := range items {
		item := &items[i]
		ok, err := s.processItem(ctx, caller, i, item, submissionType)
		if err != nil {
			if code := failureCode(err); code == dto.FailureInternal {
				s.logger.Error("process competency submission failed",
					zap.Int("index", i),
					zap.String("assignment_id", item.AssignmentID),
					zap.Error(err),
				)
				err = errors.New("failed to process submission")
			}
			result.Failed = append(result.Failed, dto.SubmissionFailure{
				Index:        i,
				Error:        err.Error(),
				Code:         failureCode(err),
				StudentID:    item.StudentID,
				CompetencyID: item.CompetencyID,
				AssignmentID: item.AssignmentID,
			})
			continue
		}
		result.Successful = append(result.Successful, *ok)
	}

	result.Summary = dto.SubmissionSummary{
		Total:      len(items),
		Successful: len(result.Successful),
		Failed:     len(result.Failed),
	}
	return result, nil
}

// validateItem runs the per-item checks and resolves the rotation the
// evaluation will reference.
func (s *submissionService) validateItem(ctx context.Context, caller dto.Caller, item *dto.SubmissionItem) (*model.CompetencyAssignment, *model.Rotation, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, item.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, err
	}
	if assignment.UserID != item.StudentID || assignment.CompetencyID != item.CompetencyID {
		return nil, nil, ErrAssignmentMismatch
	}

	if caller.Role != model.RoleSuperAdmin && caller.HasSchool() {
		student, err := s.repo.User.GetByID(ctx, item.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrStudentNotFound
			}
			return nil, nil, err
		}
		if !student.InSchool(caller.SchoolID) {
			return nil, nil, ErrStudentOutsideSchool
		}
		if student.Role != model.RoleStudent {
			return nil, nil, ErrNotAStudent
		}
	}

	if !policy.ValidateSubmissionTarget(caller.UserID, item.StudentID, caller.Role) {
		return nil, nil, ErrSelfEvaluation
	}

	exists, err := s.repo.Evaluation.ExistsForAssignmentAndEvaluator(ctx, assignment.ID, caller.UserID)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrDuplicateEvaluation
	}

	rotation, err := s.resolveRotation(ctx, item)
	if err != nil {
		return nil, nil, err
	}
	return assignment, rotation, nil
}

func (s *submissionService) resolveRotation(ctx context.Context, item *dto.SubmissionItem) (*model.Rotation, error) {
	if item.RotationID != nil && *item.RotationID != "" {
		rotation, err := s.repo.Rotation.GetByID(ctx, *item.RotationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoRotation
			}
			return nil, err
		}
		if rotation.StudentID != item.StudentID {
			return nil, ErrRotationMismatch
		}
		return rotation, nil
	}

	rotation, err := s.repo.Rotation.LatestByStudent(ctx, item.StudentID)
	if err != nil {
		return nil, err
	}
	if rotation == nil {
		return nil, ErrNoRotation
	}
	return rotation, nil
}

func (s *submissionService) processItem(ctx context.Context, caller dto.Caller, index int, item *dto.SubmissionItem, submissionType model.SubmissionType) (*dto.SubmissionSuccess, error) {
	assignment, rotation, err := s.validateItem(ctx, caller, item)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	observed := now
	if item.ObservationDate != nil {
		observed = item.ObservationDate.UTC()
	}
	evalType := model.EvaluationFormative
	if item.EvaluationType != "" {
		evalType = model.EvaluationType(item.EvaluationType)
	}

	evaluation := &model.Evaluation{
		AssignmentID:        assignment.ID,
		EvaluatorID:         caller.UserID,
		RotationID:          rotation.ID,
		StudentID:           item.StudentID,
		Type:                evalType,
		Feedback:            item.Feedback,
		Strengths:           item.Strengths,
		AreasForImprovement: item.AreasForImprovement,
		ApprovalStatus:      model.ApprovalApproved,
		ObservationDate:     observed,
		EvaluatorSignedAt:   &now,
	}
	evaluation.SetUniformRating(float64(item.Rating))

	rating := item.Rating
	rotationID := rotation.ID
	submission := &model.CompetencySubmission{
		StudentID:      item.StudentID,
		CompetencyID:   item.CompetencyID,
		AssignmentID:   &assignment.ID,
		SubmittedBy:    caller.UserID,
		Status:         model.SubmissionSubmitted,
		RotationID:     &rotationID,
		SubmissionType: submissionType,
		Rating:         &rating,
		Notes:          item.Notes,
		SubmittedAt:    now,
	}

	var (
		passRate float64
		status   model.AssignmentStatus
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Evaluation.Create(ctx, evaluation); err != nil {
			if errors.Is(err, pkgerrors.ErrDuplicateKey) {
				return ErrDuplicateEvaluation
			}
			return err
		}

		stats, err := tx.Evaluation.PassRateStats(ctx, assignment.ID, model.PassingRating)
		if err != nil {
			return err
		}
		passRate = EvaluationPassRate(stats.Passed, stats.Total)
		status = passRateStatus(assignment.Status, passRate)

		update := repository.ProgressUpdate{ProgressPercentage: passRate, Status: status}
		if status == model.AssignmentCompleted && assignment.Status != model.AssignmentCompleted {
			update.CompletionDate = &now
		}
		if err := tx.Assignment.UpdateProgress(ctx, assignment.ID, update); err != nil {
			return err
		}

		submission.EvaluationID = &evaluation.ID
		return tx.Submission.Create(ctx, submission)
	})
	if err != nil {
		return nil, err
	}

	// Deployment coverage is tracked separately and never fails the item.
	_ = s.progress.UpdateAssignmentProgress(ctx, item.StudentID, item.CompetencyID, string(model.SubmissionSubmitted))

	if err := s.audit.Log(ctx, AuditEntry{
		UserID:       caller.UserID,
		Action:       ActionCompetencySubmitted,
		Resource:     "competency_submission",
		ResourceID:   submission.ID,
		TargetUserID: item.StudentID,
		Details: map[string]interface{}{
			"assignmentId":   assignment.ID,
			"competencyId":   item.CompetencyID,
			"evaluationId":   evaluation.ID,
			"rating":         item.Rating,
			"passRate":       passRate,
			"submissionType": string(submissionType),
		},
		IPAddress: caller.ClientIP,
		UserAgent: caller.UserAgent,
	}); err != nil {
		s.logger.Warn("audit competency submission failed", zap.String("submission_id", submission.ID), zap.Error(err))
	}

	return &dto.SubmissionSuccess{
		Index:            index,
		SubmissionID:     submission.ID,
		EvaluationID:     evaluation.ID,
		StudentID:        item.StudentID,
		CompetencyID:     item.CompetencyID,
		AssignmentID:     assignment.ID,
		PassRate:         passRate,
		AssignmentStatus: string(status),
	}, nil
}

func (s *submissionService) logDenied(ctx context.Context, caller dto.Caller, action string, items int) {
	if err := s.audit.Log(ctx, AuditEntry{
		UserID:    caller.UserID,
		Action:    action,
		Resource:  "competency_submission",
		Details:   map[string]interface{}{"role": string(caller.Role), "items": items},
		IPAddress: caller.ClientIP,
		UserAgent: caller.UserAgent,
		Status:    model.AuditFailure,
		Severity:  model.SeverityMedium,
	}); err != nil {
		s.logger.Warn("audit denied request failed", zap.String("action", action), zap.Error(err))
	}
}

// failureCode maps an item error to SubmissionFailure.Code.
func failureCode(err error) string {
	switch {
	case errors.Is(err, ErrAssignmentNotFound), errors.Is(err, ErrStudentNotFound):
		return dto.FailureNotFound
	case errors.Is(err, ErrStudentOutsideSchool), errors.Is(err, ErrSelfEvaluation):
		return dto.FailureForbidden
	case errors.Is(err, ErrDuplicateEvaluation):
		return dto.FailureDuplicate
	case errors.Is(err, ErrAssignmentMismatch), errors.Is(err, ErrNotAStudent),
		errors.Is(err, ErrNoRotation), errors.Is(err, ErrRotationMismatch):
		return dto.FailureBusinessRule
	}
	return dto.FailureInternal
}

// ────────────────────── List ──────────────────────

func (s *submissionService) List(ctx context.Context, caller dto.Caller, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error) {
	filter := repository.SubmissionFilter{
		StudentID:    req.StudentID,
		CompetencyID: req.CompetencyID,
		AssignmentID: req.AssignmentID,
		SubmittedBy:  req.SubmittedBy,
		Status:       req.Status,
		From:         req.DateFrom,
		Search:       req.Search,
		Offset:       req.GetOffset(),
		Limit:        req.GetLimit(),
	}
	if req.DateTo != nil {
		// dateTo names a day; include all of it.
		end := req.DateTo.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	switch {
	case caller.Role == model.RoleStudent:
		if filter.StudentID != "" && filter.StudentID != caller.UserID {
			return nil, 0, ErrViewForbidden
		}
		filter.StudentID = caller.UserID
	case caller.Role == model.RoleSuperAdmin:
	case caller.HasSchool():
		filter.SchoolID = caller.SchoolID
	case policy.CanSubmitCompetencies(caller.Role):
		// Staff without a school see what they submitted themselves.
		filter.SubmittedBy = caller.UserID
	default:
		return nil, 0, ErrViewForbidden
	}

	submissions, total, err := s.repo.Submission.List(ctx, filter)
	if err != nil {
		s.logger.Error("list competency submissions failed", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		items = append(items, toSubmissionResponse(&submissions[i]))
	}
	return items, total, nil
}

func toSubmissionResponse(sub *model.CompetencySubmission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:             sub.ID,
		StudentID:      sub.StudentID,
		CompetencyID:   sub.CompetencyID,
		AssignmentID:   sub.AssignmentID,
		EvaluationID:   sub.EvaluationID,
		SubmittedBy:    sub.SubmittedBy,
		Status:         string(sub.Status),
		SubmissionType: string(sub.SubmissionType),
		RotationID:     sub.RotationID,
		Rating:         sub.Rating,
		Notes:          sub.Notes,
		SubmittedAt:    sub.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if sub.Student != nil {
		resp.StudentName = sub.Student.Name
	}
	if sub.Competency != nil {
		resp.CompetencyName = sub.Competency.Name
	}
	if sub.Submitter != nil {
		resp.SubmitterName = sub.Submitter.Name
	}
	return resp
}

package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/config"
	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/policy"
	"github.com/joban727/medstintapp-sub005/internal/repository"
)

// ErrQueryTimeout an aggregation ran past the configured query timeout.
var ErrQueryTimeout = errors.New("the request took too long to complete")

var tracer = otel.Tracer("github.com/joban727/medstintapp-sub005/internal/service")

// DashboardService read-only student dashboard.
type DashboardService interface {
	StudentDashboard(ctx context.Context, caller dto.Caller, studentID string) (*dto.StudentDashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cfg    config.DashboardConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(cfg config.DashboardConfig, repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

func (s *dashboardService) StudentDashboard(ctx context.Context, caller dto.Caller, studentID string) (*dto.StudentDashboardResponse, error) {
	if studentID == "" {
		studentID = caller.UserID
	}
	if err := authorizeStudentView(ctx, s.repo, caller, studentID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "DashboardService.StudentDashboard")
	defer span.End()
	span.SetAttributes(attribute.String("student.id", studentID))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	var (
		counts      []repository.StatusCount
		average     float64
		evaluations []model.Evaluation
		rotations   []model.Rotation
		submissions []model.CompetencySubmission
	)

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	g.Go(func() error {
		var err error
		counts, err = s.repo.Assignment.CountByStatus(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		average, err = s.repo.Assignment.AverageProgress(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		evaluations, err = s.repo.Evaluation.ListRecentByStudent(gctx, studentID, s.recentItems())
		return err
	})
	g.Go(func() error {
		var err error
		rotations, err = s.repo.Rotation.ListByStudent(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = s.repo.Submission.ListRecentByStudent(gctx, studentID, s.recentItems())
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("student dashboard timed out",
				zap.String("student_id", studentID),
				zap.Duration("timeout", s.cfg.QueryTimeout),
			)
			return nil, ErrQueryTimeout
		}
		s.logger.Error("student dashboard query failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	now := s.now().UTC()
	resp := &dto.StudentDashboardResponse{
		StudentID:         studentID,
		Assignments:       summarizeAssignments(counts, average),
		CurrentRotation:   currentRotation(rotations, now),
		RecentEvaluations: make([]dto.EvaluationSummary, 0, len(evaluations)),
		RecentSubmissions: make([]dto.SubmissionResponse, 0, len(submissions)),
		GeneratedAt:       now.Format(time.RFC3339),
	}
	for i := range evaluations {
		e := &evaluations[i]
		summary := dto.EvaluationSummary{
			ID:              e.ID,
			AssignmentID:    e.AssignmentID,
			EvaluatorID:     e.EvaluatorID,
			Type:            string(e.Type),
			OverallRating:   e.OverallRating,
			ApprovalStatus:  e.ApprovalStatus,
			ObservationDate: e.ObservationDate.UTC().Format(time.RFC3339),
		}
		if e.Evaluator != nil {
			summary.EvaluatorName = e.Evaluator.Name
		}
		resp.RecentEvaluations = append(resp.RecentEvaluations, summary)
	}
	for i := range submissions {
		resp.RecentSubmissions = append(resp.RecentSubmissions, toSubmissionResponse(&submissions[i]))
	}
	return resp, nil
}

func (s *dashboardService) recentItems() int {
	if s.cfg.RecentItems <= 0 {
		return 10
	}
	return s.cfg.RecentItems
}

// authorizeStudentView applies the role predicate and, for staff tied to a
// school, the tenant boundary.
func authorizeStudentView(ctx context.Context, repo *repository.Repository, caller dto.Caller, studentID string) error {
	if !policy.CanViewCompetencies(caller.Role, caller.UserID, studentID) {
		return ErrViewForbidden
	}
	if caller.Role == model.RoleStudent || caller.Role == model.RoleSuperAdmin || !caller.HasSchool() {
		return nil
	}
	student, err := repo.User.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if !student.InSchool(caller.SchoolID) {
		return ErrStudentOutsideSchool
	}
	return nil
}

func summarizeAssignments(counts []repository.StatusCount, average float64) dto.AssignmentSummary {
	var summary dto.AssignmentSummary
	for _, c := range counts {
		summary.Total += c.Count
		switch c.Status {
		case model.AssignmentAssigned:
			summary.Assigned = c.Count
		case model.AssignmentInProgress:
			summary.InProgress = c.Count
		case model.AssignmentCompleted:
			summary.Completed = c.Count
		case model.AssignmentOverdue:
			summary.Overdue = c.Count
		}
	}
	summary.AverageProgress = average
	return summary
}

// currentRotation picks the active rotation spanning now, falling back to
// the most recently started one. rotations are ordered by start date.
func currentRotation(rotations []model.Rotation, now time.Time) *dto.RotationSummary {
	if len(rotations) == 0 {
		return nil
	}
	pick := &rotations[len(rotations)-1]
	for i := range rotations {
		r := &rotations[i]
		if r.Status == model.RotationActive && !now.Before(r.StartDate) && now.Before(r.EndDate) {
			pick = r
			break
		}
	}
	return &dto.RotationSummary{
		ID:        pick.ID,
		Specialty: pick.Specialty,
		SiteName:  pick.SiteName,
		StartDate: pick.StartDate.Format("2006-01-02"),
		EndDate:   pick.EndDate.Format("2006-01-02"),
		Status:    pick.Status,
	}
}

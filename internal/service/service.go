package service

import (
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/config"
	"github.com/joban727/medstintapp-sub005/internal/repository"
)

// Service aggregates every service.
type Service struct {
	Progress   ProgressService
	Audit      AuditService
	Submission SubmissionService
	Evaluation EvaluationService
	Dashboard  DashboardService
	Report     ReportService
	Calendar   CalendarService
}

// NewService wires the services on one repository aggregate.
func NewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *Service {
	progress := NewProgressService(repo, logger.Named("progress"))
	audit := NewAuditService(repo, logger.Named("audit"))
	return &Service{
		Progress:   progress,
		Audit:      audit,
		Submission: NewSubmissionService(repo, progress, audit, logger.Named("submission")),
		Evaluation: NewEvaluationService(repo, progress, audit, logger.Named("evaluation")),
		Dashboard:  NewDashboardService(cfg.Dashboard, repo, logger.Named("dashboard")),
		Report:     NewReportService(cfg.Dashboard, repo, audit, logger.Named("report")),
		Calendar:   NewCalendarService(repo, cfg.Server.BaseURL, logger.Named("calendar")),
	}
}

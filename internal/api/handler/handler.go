package handler

import (
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/service"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Submission *CompetencySubmissionHandler
	Evaluation *CompetencyEvaluationHandler
	Dashboard  *DashboardHandler
	Report     *ReportHandler
	Calendar   *CalendarHandler
}

// NewHandler builds the handler aggregate.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Submission: NewCompetencySubmissionHandler(svc.Submission, logger.Named("submission")),
		Evaluation: NewCompetencyEvaluationHandler(svc.Evaluation, logger.Named("evaluation")),
		Dashboard:  NewDashboardHandler(svc.Dashboard, logger.Named("dashboard")),
		Report:     NewReportHandler(svc.Report, logger.Named("report")),
		Calendar:   NewCalendarHandler(svc.Calendar, logger.Named("calendar")),
	}
}

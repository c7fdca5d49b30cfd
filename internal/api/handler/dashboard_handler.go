package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/service"
	"github.com/joban727/medstintapp-sub005/pkg/response"
	"github.com/joban727/medstintapp-sub005/pkg/validation"
)

// DashboardHandler student dashboard.
type DashboardHandler struct {
	dashboardSvc service.DashboardService
	logger       *zap.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboardSvc service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, logger: logger}
}

// StudentDashboard GET /api/dashboard/student?studentId=
func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.StudentDashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters", validation.Describe(err))
		return
	}

	dashboard, err := h.dashboardSvc.StudentDashboard(c.Request.Context(), caller, req.StudentID)
	if err != nil {
		handleReadError(c, h.logger, err)
		return
	}

	response.OK(c, "success", dashboard)
}

// handleReadError maps errors shared by the dashboard, report and calendar
// endpoints.
func handleReadError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrViewForbidden),
		errors.Is(err, service.ErrReportForbidden),
		errors.Is(err, service.ErrStudentOutsideSchool):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrQueryTimeout):
		response.GatewayTimeout(c)
	default:
		logger.Error("read request failed", append(logFields(c), zap.String("path", c.FullPath()), zap.Error(err))...)
		response.InternalError(c)
	}
}

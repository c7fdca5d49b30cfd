package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/service"
	"github.com/joban727/medstintapp-sub005/pkg/response"
	"github.com/joban727/medstintapp-sub005/pkg/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler competency progress reports.
type ReportHandler struct {
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// ProgressReport GET /api/reports/competency-progress
func (h *ReportHandler) ProgressReport(c *gin.Context) {
	caller, req, ok := h.bind(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.ProgressReport(c.Request.Context(), caller, req)
	if err != nil {
		handleReadError(c, h.logger, err)
		return
	}

	response.OK(c, "success", report)
}

// ExportProgressReport GET /api/reports/competency-progress/export
func (h *ReportHandler) ExportProgressReport(c *gin.Context) {
	caller, req, ok := h.bind(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.ExportProgressReport(c.Request.Context(), caller, req)
	if err != nil {
		handleReadError(c, h.logger, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) bind(c *gin.Context) (dto.Caller, *dto.ProgressReportRequest, bool) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return dto.Caller{}, nil, false
	}

	var req dto.ProgressReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters", validation.Describe(err))
		return dto.Caller{}, nil, false
	}
	return caller, &req, true
}

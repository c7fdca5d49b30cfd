package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/service"
	"github.com/joban727/medstintapp-sub005/pkg/response"
	"github.com/joban727/medstintapp-sub005/pkg/validation"
)

// CalendarHandler rotation calendar feed.
type CalendarHandler struct {
	calendarSvc service.CalendarService
	logger      *zap.Logger
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(calendarSvc service.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc, logger: logger}
}

// RotationCalendar GET /api/rotations/calendar.ics?studentId=
func (h *CalendarHandler) RotationCalendar(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters", validation.Describe(err))
		return
	}

	feed, err := h.calendarSvc.RotationCalendar(c.Request.Context(), caller, req.StudentID)
	if err != nil {
		handleReadError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="rotations.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", feed)
}

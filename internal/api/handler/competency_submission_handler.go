package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/service"
	"github.com/joban727/medstintapp-sub005/pkg/response"
	"github.com/joban727/medstintapp-sub005/pkg/validation"
)

// CompetencySubmissionHandler competency submission endpoints.
type CompetencySubmissionHandler struct {
	submissionSvc service.SubmissionService
	logger        *zap.Logger
}

// NewCompetencySubmissionHandler creates a CompetencySubmissionHandler.
func NewCompetencySubmissionHandler(submissionSvc service.SubmissionService, logger *zap.Logger) *CompetencySubmissionHandler {
	return &CompetencySubmissionHandler{submissionSvc: submissionSvc, logger: logger}
}

// Submit accepts one submission object or {"submissions": [...]}.
// POST /api/competency-submissions
func (h *CompetencySubmissionHandler) Submit(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
			return
		}
		response.BadRequest(c, response.CodeValidation, "Unable to read request body")
		return
	}

	items, submissionType, err := decodeSubmissions(body)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid submission data", validation.Describe(err))
		return
	}

	result, err := h.submissionSvc.Submit(c.Request.Context(), caller, items, submissionType)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	meta := dto.SubmissionMeta{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		RequestID:      requestID(c),
		SubmissionType: string(submissionType),
	}

	status, message := batchOutcome(result)
	response.JSON(c, status, message, result, meta)
}

// decodeSubmissions binds and validates either body shape. A top-level
// "submissions" key selects the batch form.
func decodeSubmissions(body []byte) ([]dto.SubmissionItem, model.SubmissionType, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		if _, batch := probe["submissions"]; batch {
			var req dto.BatchSubmissionRequest
			if err := binding.JSON.BindBody(body, &req); err != nil {
				return nil, "", err
			}
			return req.Submissions, model.SubmissionBatch, nil
		}
	}

	var item dto.SubmissionItem
	if err := binding.JSON.BindBody(body, &item); err != nil {
		return nil, "", err
	}
	return []dto.SubmissionItem{item}, model.SubmissionIndividual, nil
}

// batchOutcome 201 when every item succeeded, 400 when none did, 207 otherwise.
func batchOutcome(result *dto.BatchSubmissionResult) (int, string) {
	switch {
	case result.Summary.Failed == 0:
		return http.StatusCreated, fmt.Sprintf("Successfully submitted %d competency evaluation(s)", result.Summary.Successful)
	case result.Summary.Successful == 0:
		return http.StatusBadRequest, "All submissions failed"
	default:
		return http.StatusMultiStatus, fmt.Sprintf("%d of %d submissions succeeded", result.Summary.Successful, result.Summary.Total)
	}
}

// List competency submissions visible to the caller.
// GET /api/competency-submissions
func (h *CompetencySubmissionHandler) List(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters", validation.Describe(err))
		return
	}

	items, total, err := h.submissionSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetLimit())
}

func (h *CompetencySubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmitForbidden),
		errors.Is(err, service.ErrViewForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrEmptySubmission),
		errors.Is(err, service.ErrTooManySubmissions):
		response.BadRequest(c, response.CodeValidation, err.Error())
	default:
		h.logger.Error("competency submission request failed", append(logFields(c), zap.Error(err))...)
		response.InternalError(c)
	}
}

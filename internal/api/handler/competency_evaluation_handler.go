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

// CompetencyEvaluationHandler single evaluation ingestion.
type CompetencyEvaluationHandler struct {
	evaluationSvc service.EvaluationService
	logger        *zap.Logger
}

// NewCompetencyEvaluationHandler creates a CompetencyEvaluationHandler.
func NewCompetencyEvaluationHandler(evaluationSvc service.EvaluationService, logger *zap.Logger) *CompetencyEvaluationHandler {
	return &CompetencyEvaluationHandler{evaluationSvc: evaluationSvc, logger: logger}
}

// Create records one competency evaluation.
// POST /api/competency-evaluations
func (h *CompetencyEvaluationHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid evaluation data", validation.Describe(err))
		return
	}

	id, err := h.evaluationSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EvaluationCreatedResponse{
		Success:      true,
		Message:      "Competency evaluation recorded",
		EvaluationID: id,
	})
}

func (h *CompetencyEvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEvaluatorMismatch),
		errors.Is(err, service.ErrEvaluateForbidden),
		errors.Is(err, service.ErrSelfEvaluation):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNoRotationToEvaluateIn):
		response.BadRequest(c, response.CodeBusinessRule, err.Error())
	case errors.Is(err, service.ErrDuplicateEvaluation):
		response.BadRequest(c, response.CodeDuplicate, err.Error())
	default:
		h.logger.Error("competency evaluation request failed", append(logFields(c), zap.Error(err))...)
		response.InternalError(c)
	}
}

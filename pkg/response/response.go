package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope shared by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Pagination page metadata.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// PageData paginated payload.
type PageData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// Error codes carried in the "error" field.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeBusinessRule = "BUSINESS_RULE_VIOLATION"
	CodeDuplicate    = "DUPLICATE"
	CodeRateLimited  = "RATE_LIMITED"
	CodeTimeout      = "TIMEOUT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBodyTooLarge = "PAYLOAD_TOO_LARGE"
)

// ── success ──

// OK 200.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data, nil)
}

// Created 201.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data, nil)
}

// JSON writes a success-shaped envelope with an explicit status; used where
// the status depends on the outcome (207 multi-status, 400 all-failed batch).
func JSON(c *gin.Context, httpStatus int, message string, data, meta interface{}) {
	c.JSON(httpStatus, Response{
		Success: httpStatus < http.StatusBadRequest,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// OKPage 200 with pagination metadata.
func OKPage(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "success",
		Data: PageData{
			Items:      items,
			Pagination: NewPagination(total, page, limit),
		},
	})
}

// NewPagination computes page metadata.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ── errors ──

// Error generic error envelope.
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, Response{
		Success: false,
		Message: message,
		Error:   code,
	})
}

// ErrorWithDetails error envelope with structured details (field errors etc).
func ErrorWithDetails(c *gin.Context, httpStatus int, code, message string, details interface{}) {
	c.JSON(httpStatus, Response{
		Success: false,
		Message: message,
		Error:   code,
		Details: details,
	})
}

// BadRequest 400.
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden 403.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

// NotFound 404.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// TooManyRequests 429.
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, CodeRateLimited, "Too many requests, please try again later")
}

// GatewayTimeout 504.
func GatewayTimeout(c *gin.Context) {
	Error(c, http.StatusGatewayTimeout, CodeTimeout, "The request took too long to complete")
}

// InternalError 500. Never carries internal detail.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
}

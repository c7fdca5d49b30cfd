package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/pkg/response"
)

// Context keys written by middleware.JWTAuth and middleware.RequestID.
const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxSchoolID  = "school_id"
	ctxRequestID = "request_id"
)

// MustGetCaller builds the authenticated caller from the gin context.
// If JWTAuth did not inject a user it writes a 401 and returns false;
// callers should return straight away.
func MustGetCaller(c *gin.Context) (dto.Caller, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return dto.Caller{}, false
	}

	return dto.Caller{
		UserID:    userID,
		Role:      model.Role(c.GetString(ctxRole)),
		SchoolID:  c.GetString(ctxSchoolID),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, true
}

// requestID the id assigned by middleware.RequestID, empty outside it.
func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// logFields request correlation fields for error logs. The trace id is
// present only when tracing is enabled.
func logFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", requestID(c))}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	return fields
}

package middleware

import (
	"context"
	"net/http"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
)

// ErrorReporter receives server side failures, e.g. the Sentry service
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

// ErrorHandler renders the last error attached to the context. Server side
// failures are logged with the full error and sent to reporter when one is
// given; clients only see the hint.
func ErrorHandler(logger *logger.Logger, reporter ErrorReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"request_id", types.GetRequestID(c.Request.Context()),
				"error", err)
			if reporter != nil {
				ctx := c.Request.Context()
				reporter.CaptureException(ctx, err, map[string]string{
					"method":     c.Request.Method,
					"path":       c.FullPath(),
					"request_id": types.GetRequestID(ctx),
					"tenant_id":  types.GetTenantID(ctx),
				})
			}
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(status, ierr.NewErrorResponse(err))
	}
}

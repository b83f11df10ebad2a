package middleware

import (
	"crypto/subtle"

	"github.com/flexprice/gstbill/internal/config"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
)

// CronSecretMiddleware guards scheduler callbacks. With no secret configured
// the cron routes are closed.
func CronSecretMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	secret := []byte(cfg.Auth.CronSecret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(types.HeaderCronSecret))
		if len(secret) == 0 || subtle.ConstantTimeCompare(got, secret) != 1 {
			abort(c, ierr.NewError("invalid cron secret").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthorized))
			return
		}
		c.Next()
	}
}

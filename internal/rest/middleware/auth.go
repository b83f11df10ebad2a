package middleware

import (
	"strings"

	"github.com/flexprice/gstbill/internal/auth"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// AuthenticateMiddleware validates the bearer token and puts the user, tenant
// and role in the request context for downstream handlers
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abort(c, ierr.NewError("missing authorization header").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthorized))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, ierr.NewError("malformed authorization header").
				WithHint("Invalid authorization header format").
				Mark(ierr.ErrUnauthorized))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := provider.ValidateToken(tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abort(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.Subject)
		ctx = types.SetRole(ctx, claims.Role)
		if claims.TenantID != "" {
			ctx = types.SetTenantID(ctx, claims.TenantID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole lets the request through only for the given roles
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := types.GetRole(c.Request.Context())
		if !lo.Contains(roles, role) {
			abort(c, ierr.NewErrorf("role %q not allowed", role).
				WithHint("You are not allowed to perform this action").
				WithReportableDetails(map[string]any{
					"path": c.FullPath(),
				}).
				Mark(ierr.ErrPermissionDenied))
			return
		}
		c.Next()
	}
}

// TenantAccessMiddleware refuses owners whose tenant was locked or suspended
// after their token was issued
func TenantAccessMiddleware(tenants service.TenantService, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tenantID := types.GetTenantID(ctx)
		if tenantID == "" {
			c.Next()
			return
		}

		t, err := tenants.GetTenant(ctx, tenantID)
		if err != nil {
			if ierr.IsNotFound(err) {
				err = ierr.WithError(err).
					WithHint("Unauthorized").
					Mark(ierr.ErrUnauthorized)
			}
			abort(c, err)
			return
		}

		if err := t.CanSignIn(); err != nil {
			logger.Warnw("tenant access denied",
				"tenant_id", tenantID,
				"locked", t.IsLocked,
				"suspended", t.IsSuspended)
			abort(c, err)
			return
		}
		c.Next()
	}
}

// abort hands err to ErrorHandler and stops the chain
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

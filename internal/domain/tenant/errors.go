package tenant

import (
	ierr "github.com/flexprice/gstbill/internal/errors"
)

func NewTenantNotFoundError(id string) error {
	return ierr.NewError("tenant not found").
		WithHintf("tenant not found for id: %s", id).
		Mark(ierr.ErrNotFound)
}

// NewTenantAccessError is returned when an administrative flag blocks the tenant
func NewTenantAccessError(id, reason string) error {
	return ierr.NewErrorf("tenant %s is %s", id, reason).
		WithHintf("This account is %s, please contact support", reason).
		WithReportableDetails(map[string]any{
			"tenant_id": id,
			"reason":    reason,
		}).
		Mark(ierr.ErrPermissionDenied)
}

// NewInvalidCredentialsError hides whether the email or the password was wrong
func NewInvalidCredentialsError() error {
	return ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrUnauthorized)
}

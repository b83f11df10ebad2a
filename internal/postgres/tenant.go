package postgres

import (
	"context"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
)

// TenantID returns the tenant of the request. Tenant scoped queries refuse to
// run without one so a missing middleware never widens a query to every tenant.
func TenantID(ctx context.Context) (string, error) {
	tenantID := types.GetTenantID(ctx)
	if tenantID == "" {
		return "", ierr.NewError("tenant id missing from context").
			WithHint("Authentication required").
			Mark(ierr.ErrUnauthorized)
	}
	return tenantID, nil
}

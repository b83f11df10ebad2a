package testutil

import (
	"context"

	"github.com/flexprice/gstbill/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRole, types.RoleOwner)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// WithTenant returns ctx acting as the owner of tenantID
func WithTenant(ctx context.Context, tenantID string) context.Context {
	ctx = types.SetTenantID(ctx, tenantID)
	ctx = types.SetUserID(ctx, tenantID)
	return types.SetRole(ctx, types.RoleOwner)
}

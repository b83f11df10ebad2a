package settings

import (
	"context"
)

// Repository defines the interface for settings persistence operations
type Repository interface {
	// Get returns ErrNotFound when the tenant never saved settings
	Get(ctx context.Context, tenantID string) (*Settings, error)
	Upsert(ctx context.Context, settings *Settings) error
	DeleteByTenant(ctx context.Context, tenantID string) (int64, error)
}

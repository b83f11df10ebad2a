package item

import (
	"context"

	"github.com/flexprice/gstbill/internal/types"
)

// Repository defines the interface for inventory data access
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	GetByCode(ctx context.Context, itemCode string) (*Item, error)
	List(ctx context.Context, filter *types.ItemFilter) ([]*Item, error)
	Count(ctx context.Context, filter *types.ItemFilter) (int, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	DeleteByTenant(ctx context.Context, tenantID string) (int64, error)
}

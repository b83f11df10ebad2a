package testutil

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/item"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryItemStore implements item.Repository
type InMemoryItemStore struct {
	*InMemoryStore[*item.Item]
}

func NewInMemoryItemStore() *InMemoryItemStore {
	return &InMemoryItemStore{
		InMemoryStore: NewInMemoryStore[*item.Item](),
	}
}

func copyItem(i *item.Item) *item.Item {
	if i == nil {
		return nil
	}
	c := *i
	c.PricingTiers = append(item.PricingTiers{}, i.PricingTiers...)
	return &c
}

func itemNotFound(id string) error {
	return ierr.NewErrorf("item %s not found", id).
		WithHint("Item not found").
		WithReportableDetails(map[string]any{
			"item_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryItemStore) Create(ctx context.Context, i *item.Item) error {
	if _, err := s.GetByCode(ctx, i.ItemCode); err == nil {
		return ierr.NewErrorf("item code %s already exists", i.ItemCode).
			WithHint("An item with this code already exists").
			WithReportableDetails(map[string]any{
				"item_code": i.ItemCode,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, i.ID, copyItem(i))
}

func (s *InMemoryItemStore) Get(ctx context.Context, id string) (*item.Item, error) {
	i, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, i.TenantID) || i.Status == types.StatusDeleted {
		return nil, itemNotFound(id)
	}
	return copyItem(i), nil
}

func (s *InMemoryItemStore) GetByCode(ctx context.Context, itemCode string) (*item.Item, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, i *item.Item, _ interface{}) bool {
		return CheckTenantFilter(ctx, i.TenantID) && i.Status != types.StatusDeleted && i.ItemCode == itemCode
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, itemNotFound(itemCode)
	}
	return copyItem(items[0]), nil
}

func (s *InMemoryItemStore) List(ctx context.Context, filter *types.ItemFilter) ([]*item.Item, error) {
	items, err := s.InMemoryStore.List(ctx, filter, itemFilterFn, func(a, b *item.Item) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(i *item.Item, _ int) *item.Item { return copyItem(i) }), nil
}

func (s *InMemoryItemStore) Count(ctx context.Context, filter *types.ItemFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, itemFilterFn)
}

func (s *InMemoryItemStore) Update(ctx context.Context, i *item.Item) error {
	if _, err := s.Get(ctx, i.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, i.ID, copyItem(i))
}

func (s *InMemoryItemStore) Delete(ctx context.Context, id string) error {
	i, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	i.Status = types.StatusDeleted
	i.Touch(ctx)
	return s.InMemoryStore.Update(ctx, id, i)
}

func (s *InMemoryItemStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	return s.DeleteWhere(func(i *item.Item) bool { return i.TenantID == tenantID }), nil
}

func itemFilterFn(ctx context.Context, i *item.Item, filter interface{}) bool {
	if !CheckTenantFilter(ctx, i.TenantID) || i.Status == types.StatusDeleted {
		return false
	}
	f, ok := filter.(*types.ItemFilter)
	if !ok || f == nil {
		return true
	}
	if len(f.ItemIDs) > 0 && !lo.Contains(f.ItemIDs, i.ID) {
		return false
	}
	if f.HSNCode != "" && i.HSNCode != f.HSNCode {
		return false
	}
	if f.LowStock && !i.IsLowStock() {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(i.Name), q) &&
			!strings.Contains(strings.ToLower(i.ItemCode), q) &&
			!strings.Contains(strings.ToLower(i.PartNumber), q) {
			return false
		}
	}
	return true
}

package testutil

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/customer"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

// NewInMemoryCustomerStore creates a new in-memory customer store
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

// Helper to copy customer
func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func customerNotFound(id string) error {
	return ierr.NewErrorf("customer %s not found", id).
		WithHint("Customer not found").
		WithReportableDetails(map[string]any{
			"customer_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, c.TenantID) || c.Status == types.StatusDeleted {
		return nil, customerNotFound(id)
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	customers, err := s.InMemoryStore.List(ctx, filter, customerFilterFn, customerSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(customers, func(c *customer.Customer, _ int) *customer.Customer { return copyCustomer(c) }), nil
}

func (s *InMemoryCustomerStore) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, customerFilterFn)
}

func (s *InMemoryCustomerStore) ListAll(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}
	unlimited := *filter
	unlimited.QueryFilter = types.NewNoLimitQueryFilter()
	return s.List(ctx, &unlimited)
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	if _, err := s.Get(ctx, c.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	c.Status = types.StatusDeleted
	c.Touch(ctx)
	return s.InMemoryStore.Update(ctx, id, c)
}

func (s *InMemoryCustomerStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	return s.DeleteWhere(func(c *customer.Customer) bool { return c.TenantID == tenantID }), nil
}

func customerFilterFn(ctx context.Context, c *customer.Customer, filter interface{}) bool {
	if !CheckTenantFilter(ctx, c.TenantID) || c.Status == types.StatusDeleted {
		return false
	}
	f, ok := filter.(*types.CustomerFilter)
	if !ok || f == nil {
		return true
	}
	if len(f.CustomerIDs) > 0 && !lo.Contains(f.CustomerIDs, c.ID) {
		return false
	}
	if f.GSTIN != "" && !strings.EqualFold(c.GSTIN, f.GSTIN) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(c.Phone, q) &&
			!strings.Contains(strings.ToLower(c.Email), q) {
			return false
		}
	}
	return true
}

func customerSortFn(a, b *customer.Customer) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

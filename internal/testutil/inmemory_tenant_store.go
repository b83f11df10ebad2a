package testutil

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/tenant"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryTenantStore implements tenant.Repository
type InMemoryTenantStore struct {
	*InMemoryStore[*tenant.Tenant]
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		InMemoryStore: NewInMemoryStore[*tenant.Tenant](),
	}
}

func copyTenant(t *tenant.Tenant) *tenant.Tenant {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	if _, err := s.GetByEmail(ctx, t.Email); err == nil {
		return ierr.NewError("tenant email already registered").
			WithHint("An account with this email already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyTenant(t))
}

func (s *InMemoryTenantStore) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, tenant.NewTenantNotFoundError(id)
	}
	return copyTenant(t), nil
}

func (s *InMemoryTenantStore) GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	tenants, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, t *tenant.Tenant, _ interface{}) bool {
		return strings.EqualFold(t.Email, email)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, tenant.NewTenantNotFoundError(email)
	}
	return copyTenant(tenants[0]), nil
}

func (s *InMemoryTenantStore) List(ctx context.Context, filter *types.TenantFilter) ([]*tenant.Tenant, error) {
	tenants, err := s.InMemoryStore.List(ctx, filter, tenantFilterFn, func(a, b *tenant.Tenant) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(tenants, func(t *tenant.Tenant, _ int) *tenant.Tenant { return copyTenant(t) }), nil
}

func (s *InMemoryTenantStore) Count(ctx context.Context, filter *types.TenantFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, tenantFilterFn)
}

func (s *InMemoryTenantStore) Update(ctx context.Context, t *tenant.Tenant) error {
	if _, err := s.InMemoryStore.Get(ctx, t.ID); err != nil {
		return tenant.NewTenantNotFoundError(t.ID)
	}
	return s.InMemoryStore.Update(ctx, t.ID, copyTenant(t))
}

func (s *InMemoryTenantStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return tenant.NewTenantNotFoundError(id)
	}
	return nil
}

func tenantFilterFn(_ context.Context, t *tenant.Tenant, filter interface{}) bool {
	f, ok := filter.(*types.TenantFilter)
	if !ok || f == nil {
		return true
	}
	if len(f.TenantIDs) > 0 && !lo.Contains(f.TenantIDs, t.ID) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.BusinessName), q) &&
			!strings.Contains(strings.ToLower(t.OwnerName), q) &&
			!strings.Contains(strings.ToLower(t.Email), q) {
			return false
		}
	}
	if f.Locked != nil && t.IsLocked != *f.Locked {
		return false
	}
	if f.Suspended != nil && t.IsSuspended != *f.Suspended {
		return false
	}
	return true
}

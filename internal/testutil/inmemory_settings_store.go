package testutil

import (
	"context"

	"github.com/flexprice/gstbill/internal/domain/settings"
	ierr "github.com/flexprice/gstbill/internal/errors"
)

// InMemorySettingsStore implements settings.Repository, keyed by tenant id
type InMemorySettingsStore struct {
	*InMemoryStore[*settings.Settings]
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		InMemoryStore: NewInMemoryStore[*settings.Settings](),
	}
}

func copySettings(s *settings.Settings) *settings.Settings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *InMemorySettingsStore) Get(ctx context.Context, tenantID string) (*settings.Settings, error) {
	st, err := s.InMemoryStore.Get(ctx, tenantID)
	if err != nil {
		return nil, ierr.NewErrorf("settings for tenant %s not found", tenantID).
			WithHint("Settings not found").
			Mark(ierr.ErrNotFound)
	}
	return copySettings(st), nil
}

func (s *InMemorySettingsStore) Upsert(ctx context.Context, st *settings.Settings) error {
	if existing, err := s.InMemoryStore.Get(ctx, st.TenantID); err == nil {
		updated := copySettings(st)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		return s.InMemoryStore.Update(ctx, st.TenantID, updated)
	}
	return s.InMemoryStore.Create(ctx, st.TenantID, copySettings(st))
}

func (s *InMemorySettingsStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	return s.DeleteWhere(func(st *settings.Settings) bool { return st.TenantID == tenantID }), nil
}

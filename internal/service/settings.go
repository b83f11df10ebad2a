package service

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/domain/settings"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

// SettingsService manages the per tenant invoicing configuration
type SettingsService interface {
	GetSettings(ctx context.Context) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)

	// GetInvoicePrefixByType satisfies invoice.PrefixResolver
	GetInvoicePrefixByType(ctx context.Context, tenantID string, invoiceType types.InvoiceType) (string, error)
	GetDefaultTaxRate(ctx context.Context, tenantID string) (decimal.Decimal, error)

	// Resolve returns the stored settings of a tenant, or its defaults
	Resolve(ctx context.Context, tenantID string) (*settings.Settings, error)
}

const settingsCacheTTL = 10 * time.Minute

type settingsService struct {
	ServiceParams
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{
		ServiceParams: params,
	}
}

func (s *settingsService) GetSettings(ctx context.Context) (*dto.SettingsResponse, error) {
	st, err := s.Resolve(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{Settings: st}, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tenantID := types.GetTenantID(ctx)
	st, err := s.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	req.Apply(st)
	if err := st.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if st.ID == "" {
		st.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTINGS)
		st.CreatedAt = now
	}
	st.UpdatedAt = now

	if err := s.SettingsRepo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixSettings, tenantID))

	s.Logger.Infow("updated settings", "tenant_id", tenantID)
	return &dto.SettingsResponse{Settings: st}, nil
}

func (s *settingsService) GetInvoicePrefixByType(ctx context.Context, tenantID string, invoiceType types.InvoiceType) (string, error) {
	st, err := s.Resolve(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return st.PrefixFor(invoiceType), nil
}

func (s *settingsService) GetDefaultTaxRate(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	st, err := s.Resolve(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	return st.DefaultTaxRate, nil
}

func (s *settingsService) Resolve(ctx context.Context, tenantID string) (*settings.Settings, error) {
	key := cache.GenerateKey(cache.PrefixSettings, tenantID)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if st, ok := cached.(*settings.Settings); ok {
			c := *st
			return &c, nil
		}
	}

	st, err := s.SettingsRepo.Get(ctx, tenantID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		st = s.defaults(tenantID)
	}

	c := *st
	s.Cache.Set(ctx, key, &c, settingsCacheTTL)
	return st, nil
}

// defaults applies the configured platform tax rate on top of settings.Defaults
func (s *settingsService) defaults(tenantID string) *settings.Settings {
	st := settings.Defaults(tenantID)
	if s.Config != nil && s.Config.Invoicing.DefaultTaxRate > 0 {
		st.DefaultTaxRate = decimal.NewFromFloat(s.Config.Invoicing.DefaultTaxRate)
	}
	return st
}

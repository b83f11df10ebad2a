package service

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	"github.com/flexprice/gstbill/internal/types"
)

// TenantService is the business profile of the signed in owner
type TenantService interface {
	GetProfile(ctx context.Context) (*dto.TenantResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.TenantResponse, error)

	// GetTenant is a cached lookup used on every authenticated request
	GetTenant(ctx context.Context, tenantID string) (*tenant.Tenant, error)
}

const tenantCacheTTL = 5 * time.Minute

type tenantService struct {
	ServiceParams
}

func NewTenantService(params ServiceParams) TenantService {
	return &tenantService{
		ServiceParams: params,
	}
}

func (s *tenantService) GetProfile(ctx context.Context) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}
	return &dto.TenantResponse{Tenant: t}, nil
}

func (s *tenantService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.GetByID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}

	req.Apply(t)
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		t.PasswordHash = hash
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixTenant, t.ID))

	s.Logger.Infow("updated tenant profile", "tenant_id", t.ID)
	return &dto.TenantResponse{Tenant: t}, nil
}

func (s *tenantService) GetTenant(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	key := cache.GenerateKey(cache.PrefixTenant, tenantID)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if t, ok := cached.(*tenant.Tenant); ok {
			c := *t
			return &c, nil
		}
	}

	t, err := s.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	c := *t
	s.Cache.Set(ctx, key, &c, tenantCacheTTL)
	return t, nil
}

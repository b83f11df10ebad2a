package service

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// AdminService is the platform operator's view over every tenant
type AdminService interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AuthResponse, error)
	ListTenants(ctx context.Context, filter *types.TenantFilter) (*dto.ListTenantsResponse, error)
	GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
	LockTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
	UnlockTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
	SuspendTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
	UnsuspendTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
	DeleteTenant(ctx context.Context, id string) (*dto.DeleteTenantResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type adminService struct {
	ServiceParams
}

func NewAdminService(params ServiceParams) AdminService {
	return &adminService{
		ServiceParams: params,
	}
}

func (s *adminService) Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := s.Config.Admin
	if req.Username != cfg.Username || !auth.CheckPassword(cfg.PasswordHash, req.Password) {
		s.Logger.Warnw("failed admin login", "username", req.Username)
		return nil, tenant.NewInvalidCredentialsError()
	}

	token, expiresAt, err := s.Auth.IssueToken(cfg.Username, "", types.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("admin signed in", "username", cfg.Username)
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      types.RoleAdmin,
	}, nil
}

func (s *adminService) ListTenants(ctx context.Context, filter *types.TenantFilter) (*dto.ListTenantsResponse, error) {
	if filter == nil {
		filter = types.NewTenantFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	tenants, err := s.TenantRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.TenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(tenants, func(t *tenant.Tenant, _ int) *dto.TenantResponse {
		return &dto.TenantResponse{Tenant: t}
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *adminService) GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TenantResponse{Tenant: t}, nil
}

func (s *adminService) LockTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return s.setFlags(ctx, id, "locked tenant", func(t *tenant.Tenant) { t.IsLocked = true })
}

func (s *adminService) UnlockTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return s.setFlags(ctx, id, "unlocked tenant", func(t *tenant.Tenant) { t.IsLocked = false })
}

func (s *adminService) SuspendTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return s.setFlags(ctx, id, "suspended tenant", func(t *tenant.Tenant) { t.IsSuspended = true })
}

func (s *adminService) UnsuspendTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return s.setFlags(ctx, id, "unsuspended tenant", func(t *tenant.Tenant) { t.IsSuspended = false })
}

// setFlags applies fn and drops the cached tenant so the next request sees the
// change straight away
func (s *adminService) setFlags(ctx context.Context, id, msg string, fn func(*tenant.Tenant)) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fn(t)
	t.UpdatedAt = time.Now().UTC()
	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixTenant, t.ID))

	s.Logger.Infow(msg,
		"tenant_id", t.ID,
		"locked", t.IsLocked,
		"suspended", t.IsSuspended)
	return &dto.TenantResponse{Tenant: t}, nil
}

// DeleteTenant removes the tenant and everything it owns in one transaction
func (s *adminService) DeleteTenant(ctx context.Context, id string) (*dto.DeleteTenantResponse, error) {
	if _, err := s.TenantRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	deleted := make(map[string]int64)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		steps := []struct {
			name string
			fn   func(context.Context, string) (int64, error)
		}{
			{"payments", s.PaymentRepo.DeleteByTenant},
			{"invoices", s.InvoiceRepo.DeleteByTenant},
			{"items", s.ItemRepo.DeleteByTenant},
			{"customers", s.CustomerRepo.DeleteByTenant},
			{"bank_accounts", s.BankAccountRepo.DeleteByTenant},
			{"settings", s.SettingsRepo.DeleteByTenant},
		}
		for _, step := range steps {
			n, err := step.fn(ctx, id)
			if err != nil {
				return ierr.WithError(err).
					WithHintf("Failed to delete %s", step.name).
					WithReportableDetails(map[string]any{
						"tenant_id": id,
					}).
					Mark(ierr.ErrDatabase)
			}
			deleted[step.name] = n
		}

		if err := s.Counter.DeleteByTenant(ctx, id); err != nil {
			return err
		}
		if err := s.TenantRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted["tenants"] = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, key := range cache.TenantKeys(id) {
		s.Cache.DeleteByPrefix(ctx, key)
	}

	s.Logger.Infow("deleted tenant", "tenant_id", id, "deleted", deleted)
	return &dto.DeleteTenantResponse{
		TenantID: id,
		Deleted:  deleted,
	}, nil
}

func (s *adminService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	tenants, err := s.TenantRepo.Count(ctx, types.NewNoLimitTenantFilter())
	if err != nil {
		return nil, err
	}

	locked := types.NewNoLimitTenantFilter()
	locked.Locked = lo.ToPtr(true)
	lockedCount, err := s.TenantRepo.Count(ctx, locked)
	if err != nil {
		return nil, err
	}

	suspended := types.NewNoLimitTenantFilter()
	suspended.Suspended = lo.ToPtr(true)
	suspendedCount, err := s.TenantRepo.Count(ctx, suspended)
	if err != nil {
		return nil, err
	}

	summary, err := s.InvoiceRepo.Summary(ctx, "")
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TenantCount:    tenants,
		LockedCount:    lockedCount,
		SuspendedCount: suspendedCount,
		Summary:        summary,
	}, nil
}

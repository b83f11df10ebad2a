package service

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/auth"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
)

// AuthService signs business owners up and in
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{
		ServiceParams: params,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.ToTenant(ctx)

	existing, err := s.TenantRepo.GetByEmail(ctx, t.Email)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("email already registered").
			WithHint("An account with this email already exists").
			WithReportableDetails(map[string]any{
				"email": t.Email,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	t.PasswordHash = hash

	if err := s.TenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.Logger.Infow("registered tenant", "tenant_id", t.ID, "email", t.Email)
	return s.issue(t)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, tenant.NewInvalidCredentialsError()
		}
		return nil, err
	}

	if !auth.CheckPassword(t.PasswordHash, req.Password) {
		s.Logger.Warnw("failed login", "tenant_id", t.ID)
		return nil, tenant.NewInvalidCredentialsError()
	}
	if err := t.CanSignIn(); err != nil {
		s.Logger.Warnw("refused login", "tenant_id", t.ID, "locked", t.IsLocked, "suspended", t.IsSuspended)
		return nil, err
	}

	return s.issue(t)
}

func (s *authService) issue(t *tenant.Tenant) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.Auth.IssueToken(t.ID, t.ID, types.RoleOwner)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      types.RoleOwner,
		Tenant:    &dto.TenantResponse{Tenant: t},
	}, nil
}

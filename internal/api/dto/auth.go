package dto

import (
	"context"
	"strings"
	"time"

	"github.com/flexprice/gstbill/internal/domain/tenant"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
)

// RegisterRequest signs up a new business owner
type RegisterRequest struct {
	BusinessName string   `json:"business_name" validate:"required,max=255"`
	OwnerName    string   `json:"owner_name" validate:"required,max=255"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=8,max=72"`
	Phone        string   `json:"phone" validate:"omitempty,phone"`
	GSTIN        string   `json:"gstin" validate:"omitempty,gstin"`
	StateCode    string   `json:"state_code" validate:"omitempty,len=2,numeric"`
	Address      *Address `json:"address,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToTenant builds the tenant record; the password hash is set by the caller
func (r *RegisterRequest) ToTenant(_ context.Context) *tenant.Tenant {
	now := time.Now().UTC()
	return &tenant.Tenant{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TENANT),
		BusinessName: strings.TrimSpace(r.BusinessName),
		OwnerName:    strings.TrimSpace(r.OwnerName),
		Email:        strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:        normalizePhone(r.Phone),
		GSTIN:        validator.NormalizeGSTIN(r.GSTIN),
		StateCode:    r.StateCode,
		Address:      r.Address.ToAddress(),
		Status:       types.StatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *AdminLoginRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// AuthResponse carries the bearer token. Tenant is omitted for admin logins.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Role      types.Role      `json:"role"`
	Tenant    *TenantResponse `json:"tenant,omitempty"`
}

type TenantResponse struct {
	*tenant.Tenant
}

// ListTenantsResponse represents the response for listing tenants
type ListTenantsResponse = types.ListResponse[*TenantResponse]

// UpdateProfileRequest changes the business details of the signed in owner.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	BusinessName *string  `json:"business_name" validate:"omitempty,min=1,max=255"`
	OwnerName    *string  `json:"owner_name" validate:"omitempty,min=1,max=255"`
	Phone        *string  `json:"phone" validate:"omitempty,phone"`
	GSTIN        *string  `json:"gstin" validate:"omitempty,gstin"`
	StateCode    *string  `json:"state_code" validate:"omitempty,len=2,numeric"`
	LogoURL      *string  `json:"logo_url" validate:"omitempty,url"`
	SignatureURL *string  `json:"signature_url" validate:"omitempty,url"`
	FooterNote   *string  `json:"footer_note" validate:"omitempty,max=1000"`
	Address      *Address `json:"address,omitempty"`
	Password     *string  `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the supplied fields onto t. The password is handled separately.
func (r *UpdateProfileRequest) Apply(t *tenant.Tenant) {
	if r.BusinessName != nil {
		t.BusinessName = strings.TrimSpace(*r.BusinessName)
	}
	if r.OwnerName != nil {
		t.OwnerName = strings.TrimSpace(*r.OwnerName)
	}
	if r.Phone != nil {
		t.Phone = normalizePhone(*r.Phone)
	}
	if r.GSTIN != nil {
		t.GSTIN = validator.NormalizeGSTIN(*r.GSTIN)
	}
	if r.StateCode != nil {
		t.StateCode = *r.StateCode
	}
	if r.LogoURL != nil {
		t.LogoURL = *r.LogoURL
	}
	if r.SignatureURL != nil {
		t.SignatureURL = *r.SignatureURL
	}
	if r.FooterNote != nil {
		t.FooterNote = *r.FooterNote
	}
	if r.Address != nil {
		t.Address = r.Address.ToAddress()
	}
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	return validator.NormalizePhone(phone)
}

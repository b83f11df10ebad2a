package tenant

import (
	"time"

	"github.com/flexprice/gstbill/internal/types"
)

// Tenant is a business owner account. Every other record is partitioned by its id.
type Tenant struct {
	ID           string        `db:"id" json:"id"`
	BusinessName string        `db:"business_name" json:"business_name"`
	OwnerName    string        `db:"owner_name" json:"owner_name"`
	Email        string        `db:"email" json:"email"`
	Phone        string        `db:"phone" json:"phone"`
	GSTIN        string        `db:"gstin" json:"gstin"`
	Address      types.Address `db:"address" json:"address"`
	StateCode    string        `db:"state_code" json:"state_code"`
	LogoURL      string        `db:"logo_url" json:"logo_url"`
	SignatureURL string        `db:"signature_url" json:"signature_url"`
	FooterNote   string        `db:"footer_note" json:"footer_note"`
	PasswordHash string        `db:"password_hash" json:"-"`
	IsLocked     bool          `db:"is_locked" json:"is_locked"`
	IsSuspended  bool          `db:"is_suspended" json:"is_suspended"`
	Status       types.Status  `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// CanSignIn refuses locked and suspended tenants
func (t *Tenant) CanSignIn() error {
	if t.IsLocked {
		return NewTenantAccessError(t.ID, "locked")
	}
	if t.IsSuspended {
		return NewTenantAccessError(t.ID, "suspended")
	}
	return nil
}

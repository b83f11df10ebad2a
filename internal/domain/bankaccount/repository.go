package bankaccount

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, account *BankAccount) error
	Get(ctx context.Context, id string) (*BankAccount, error)
	// GetDefault returns ErrNotFound when the tenant has no default account
	GetDefault(ctx context.Context) (*BankAccount, error)
	List(ctx context.Context) ([]*BankAccount, error)
	Update(ctx context.Context, account *BankAccount) error
	// ClearDefault unsets the default flag on every account of the tenant
	ClearDefault(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	DeleteByTenant(ctx context.Context, tenantID string) (int64, error)
}

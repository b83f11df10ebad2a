package testutil

import (
	"context"

	"github.com/flexprice/gstbill/internal/domain/bankaccount"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryBankAccountStore implements bankaccount.Repository
type InMemoryBankAccountStore struct {
	*InMemoryStore[*bankaccount.BankAccount]
}

func NewInMemoryBankAccountStore() *InMemoryBankAccountStore {
	return &InMemoryBankAccountStore{
		InMemoryStore: NewInMemoryStore[*bankaccount.BankAccount](),
	}
}

func copyBankAccount(b *bankaccount.BankAccount) *bankaccount.BankAccount {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func bankAccountNotFound(id string) error {
	return ierr.NewErrorf("bank_account %s not found", id).
		WithHint("Bank account not found").
		WithReportableDetails(map[string]any{
			"bank_account_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryBankAccountStore) Create(ctx context.Context, b *bankaccount.BankAccount) error {
	return s.InMemoryStore.Create(ctx, b.ID, copyBankAccount(b))
}

func (s *InMemoryBankAccountStore) Get(ctx context.Context, id string) (*bankaccount.BankAccount, error) {
	b, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !bankAccountVisible(ctx, b) {
		return nil, bankAccountNotFound(id)
	}
	return copyBankAccount(b), nil
}

func (s *InMemoryBankAccountStore) GetDefault(ctx context.Context) (*bankaccount.BankAccount, error) {
	accounts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 || !accounts[0].IsDefault {
		return nil, ierr.NewError("no default bank account").
			WithHint("No default bank account is configured").
			Mark(ierr.ErrNotFound)
	}
	return accounts[0], nil
}

// List orders the default account first, then by creation time
func (s *InMemoryBankAccountStore) List(ctx context.Context) ([]*bankaccount.BankAccount, error) {
	accounts, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, b *bankaccount.BankAccount, _ interface{}) bool {
		return bankAccountVisible(ctx, b)
	}, func(a, b *bankaccount.BankAccount) bool {
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(accounts, func(b *bankaccount.BankAccount, _ int) *bankaccount.BankAccount { return copyBankAccount(b) }), nil
}

func (s *InMemoryBankAccountStore) Update(ctx context.Context, b *bankaccount.BankAccount) error {
	if _, err := s.Get(ctx, b.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, b.ID, copyBankAccount(b))
}

func (s *InMemoryBankAccountStore) ClearDefault(ctx context.Context) error {
	accounts, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range accounts {
		if !b.IsDefault {
			continue
		}
		b.IsDefault = false
		if err := s.InMemoryStore.Update(ctx, b.ID, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryBankAccountStore) Delete(ctx context.Context, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b.Status = types.StatusDeleted
	b.IsDefault = false
	b.Touch(ctx)
	return s.InMemoryStore.Update(ctx, id, b)
}

func (s *InMemoryBankAccountStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	return s.DeleteWhere(func(b *bankaccount.BankAccount) bool { return b.TenantID == tenantID }), nil
}

func bankAccountVisible(ctx context.Context, b *bankaccount.BankAccount) bool {
	return CheckTenantFilter(ctx, b.TenantID) && b.Status == types.StatusPublished
}

package service

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/cache"
	"github.com/flexprice/gstbill/internal/domain/bankaccount"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// BankAccountService keeps at most one default account per tenant. The first
// account created becomes the default.
type BankAccountService interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error)
	GetBankAccount(ctx context.Context, id string) (*dto.BankAccountResponse, error)
	GetBankAccounts(ctx context.Context) (*dto.ListBankAccountsResponse, error)
	UpdateBankAccount(ctx context.Context, id string, req dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error)
	DeleteBankAccount(ctx context.Context, id string) error
	SetDefaultBankAccount(ctx context.Context, id string) (*dto.BankAccountResponse, error)

	// GetDefault returns nil without error when the tenant has no default
	GetDefault(ctx context.Context) (*bankaccount.BankAccount, error)
}

const bankDefaultCacheTTL = 10 * time.Minute

type bankAccountService struct {
	ServiceParams
}

func NewBankAccountService(params ServiceParams) BankAccountService {
	return &bankAccountService{
		ServiceParams: params,
	}
}

func (s *bankAccountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account := req.ToBankAccount(ctx)
	if err := account.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.BankAccountRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			account.IsDefault = true
		}
		if account.IsDefault {
			if err := s.BankAccountRepo.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.BankAccountRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDefault(ctx)
	return &dto.BankAccountResponse{BankAccount: account}, nil
}

func (s *bankAccountService) GetBankAccount(ctx context.Context, id string) (*dto.BankAccountResponse, error) {
	account, err := s.BankAccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.BankAccountResponse{BankAccount: account}, nil
}

func (s *bankAccountService) GetBankAccounts(ctx context.Context) (*dto.ListBankAccountsResponse, error) {
	accounts, err := s.BankAccountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(accounts, func(b *bankaccount.BankAccount, _ int) *dto.BankAccountResponse {
		return &dto.BankAccountResponse{BankAccount: b}
	})
	resp := types.NewListResponse(items, len(items), len(items), 0)
	return &resp, nil
}

func (s *bankAccountService) UpdateBankAccount(ctx context.Context, id string, req dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.BankAccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(account)
	if err := account.Validate(); err != nil {
		return nil, err
	}
	account.Touch(ctx)

	if err := s.BankAccountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	if account.IsDefault {
		s.invalidateDefault(ctx)
	}
	return &dto.BankAccountResponse{BankAccount: account}, nil
}

// DeleteBankAccount promotes the oldest remaining account when the default goes
func (s *bankAccountService) DeleteBankAccount(ctx context.Context, id string) error {
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		account, err := s.BankAccountRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.BankAccountRepo.Delete(ctx, id); err != nil {
			return err
		}
		if !account.IsDefault {
			return nil
		}

		remaining, err := s.BankAccountRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		next := remaining[0]
		next.IsDefault = true
		next.Touch(ctx)
		return s.BankAccountRepo.Update(ctx, next)
	})
	if err != nil {
		return err
	}

	s.invalidateDefault(ctx)
	return nil
}

func (s *bankAccountService) SetDefaultBankAccount(ctx context.Context, id string) (*dto.BankAccountResponse, error) {
	var account *bankaccount.BankAccount
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.BankAccountRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if account.IsDefault {
			return nil
		}
		if err := s.BankAccountRepo.ClearDefault(ctx); err != nil {
			return err
		}
		account.IsDefault = true
		account.Touch(ctx)
		return s.BankAccountRepo.Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDefault(ctx)
	s.Logger.Infow("set default bank account", "tenant_id", types.GetTenantID(ctx), "bank_account_id", id)
	return &dto.BankAccountResponse{BankAccount: account}, nil
}

func (s *bankAccountService) GetDefault(ctx context.Context) (*bankaccount.BankAccount, error) {
	key := cache.GenerateKey(cache.PrefixBankDefault, types.GetTenantID(ctx))
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if b, ok := cached.(*bankaccount.BankAccount); ok {
			c := *b
			return &c, nil
		}
	}

	account, err := s.BankAccountRepo.GetDefault(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	c := *account
	s.Cache.Set(ctx, key, &c, bankDefaultCacheTTL)
	return account, nil
}

func (s *bankAccountService) invalidateDefault(ctx context.Context) {
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixBankDefault, types.GetTenantID(ctx)))
}

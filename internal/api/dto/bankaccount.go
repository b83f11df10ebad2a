package dto

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/bankaccount"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
)

type CreateBankAccountRequest struct {
	AccountHolder string `json:"account_holder" validate:"omitempty,max=255"`
	BankName      string `json:"bank_name" validate:"required,max=255"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=34,alphanum"`
	IFSC          string `json:"ifsc" validate:"omitempty,len=11"`
	Branch        string `json:"branch" validate:"omitempty,max=255"`
	UPIID         string `json:"upi_id" validate:"omitempty,max=100"`
	IsDefault     bool   `json:"is_default"`
}

type UpdateBankAccountRequest struct {
	AccountHolder *string `json:"account_holder" validate:"omitempty,max=255"`
	BankName      *string `json:"bank_name" validate:"omitempty,min=1,max=255"`
	AccountNumber *string `json:"account_number" validate:"omitempty,min=6,max=34,alphanum"`
	IFSC          *string `json:"ifsc" validate:"omitempty,len=11"`
	Branch        *string `json:"branch" validate:"omitempty,max=255"`
	UPIID         *string `json:"upi_id" validate:"omitempty,max=100"`
}

type BankAccountResponse struct {
	*bankaccount.BankAccount
}

// ListBankAccountsResponse represents the response for listing bank accounts
type ListBankAccountsResponse = types.ListResponse[*BankAccountResponse]

func (r *CreateBankAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateBankAccountRequest) ToBankAccount(ctx context.Context) *bankaccount.BankAccount {
	return &bankaccount.BankAccount{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BANK_ACCOUNT),
		AccountHolder: strings.TrimSpace(r.AccountHolder),
		BankName:      strings.TrimSpace(r.BankName),
		AccountNumber: strings.TrimSpace(r.AccountNumber),
		IFSC:          strings.ToUpper(strings.TrimSpace(r.IFSC)),
		Branch:        strings.TrimSpace(r.Branch),
		UPIID:         strings.TrimSpace(r.UPIID),
		IsDefault:     r.IsDefault,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateBankAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateBankAccountRequest) Apply(b *bankaccount.BankAccount) {
	if r.AccountHolder != nil {
		b.AccountHolder = strings.TrimSpace(*r.AccountHolder)
	}
	if r.BankName != nil {
		b.BankName = strings.TrimSpace(*r.BankName)
	}
	if r.AccountNumber != nil {
		b.AccountNumber = strings.TrimSpace(*r.AccountNumber)
	}
	if r.IFSC != nil {
		b.IFSC = strings.ToUpper(strings.TrimSpace(*r.IFSC))
	}
	if r.Branch != nil {
		b.Branch = strings.TrimSpace(*r.Branch)
	}
	if r.UPIID != nil {
		b.UPIID = strings.TrimSpace(*r.UPIID)
	}
}

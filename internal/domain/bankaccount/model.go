package bankaccount

import (
	"regexp"
	"strings"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
)

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// BankAccount is where a tenant receives payments. At most one per tenant is the
// default, and the default is copied onto new invoices.
type BankAccount struct {
	ID            string `db:"id" json:"id"`
	AccountHolder string `db:"account_holder" json:"account_holder"`
	BankName      string `db:"bank_name" json:"bank_name"`
	AccountNumber string `db:"account_number" json:"account_number"`
	IFSC          string `db:"ifsc" json:"ifsc"`
	Branch        string `db:"branch" json:"branch"`
	UPIID         string `db:"upi_id" json:"upi_id"`
	IsDefault     bool   `db:"is_default" json:"is_default"`

	types.BaseModel
}

func (b *BankAccount) Validate() error {
	if strings.TrimSpace(b.BankName) == "" || strings.TrimSpace(b.AccountNumber) == "" {
		return ierr.NewError("bank name and account number are required").
			WithHint("Bank name and account number are required").
			Mark(ierr.ErrValidation)
	}
	if b.IFSC != "" && !ifscPattern.MatchString(strings.ToUpper(b.IFSC)) {
		return ierr.NewError("invalid ifsc").
			WithHint("IFSC must be 11 characters, e.g. HDFC0001234").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MaskedAccountNumber keeps only the last four digits visible
func (b *BankAccount) MaskedAccountNumber() string {
	n := len(b.AccountNumber)
	if n <= 4 {
		return b.AccountNumber
	}
	return strings.Repeat("X", n-4) + b.AccountNumber[n-4:]
}

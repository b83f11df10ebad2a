package settings

import (
	"strings"
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

// Settings is the per tenant invoicing configuration. A tenant without a stored
// row behaves as if it had Defaults.
type Settings struct {
	ID              string          `db:"id" json:"id"`
	TenantID        string          `db:"tenant_id" json:"tenant_id"`
	SalesPrefix     string          `db:"sales_prefix" json:"sales_prefix"`
	PurchasePrefix  string          `db:"purchase_prefix" json:"purchase_prefix"`
	QuotationPrefix string          `db:"quotation_prefix" json:"quotation_prefix"`
	DefaultTaxRate  decimal.Decimal `db:"default_tax_rate" json:"default_tax_rate" swaggertype:"string"`
	DefaultTaxType  types.TaxType   `db:"default_tax_type" json:"default_tax_type"`
	StateCode       string          `db:"state_code" json:"state_code"`
	DefaultTerms    string          `db:"default_terms" json:"default_terms"`
	FooterNote      string          `db:"footer_note" json:"footer_note"`
	SignatoryName   string          `db:"signatory_name" json:"signatory_name"`
	Designation     string          `db:"signatory_designation" json:"signatory_designation"`
	SignatureURL    string          `db:"signature_url" json:"signature_url"`
	DueDays         int             `db:"due_days" json:"due_days"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// DefaultDueDays is the payment window applied when a settings row does not set one
const DefaultDueDays = 30

// Defaults returns the settings of a tenant that never saved any
func Defaults(tenantID string) *Settings {
	return &Settings{
		TenantID:       tenantID,
		DefaultTaxRate: decimal.NewFromFloat(types.DefaultTaxRate),
		DefaultTaxType: types.TaxTypeIGST,
		DueDays:        DefaultDueDays,
	}
}

// PrefixFor returns the configured prefix for an invoice type, empty when unset
func (s *Settings) PrefixFor(invoiceType types.InvoiceType) string {
	switch invoiceType {
	case types.InvoiceTypePurchase:
		return s.PurchasePrefix
	case types.InvoiceTypeQuotation:
		return s.QuotationPrefix
	default:
		return s.SalesPrefix
	}
}

func (s *Settings) Validate() error {
	if s.DefaultTaxRate.IsNegative() || s.DefaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("invalid default tax rate").
			WithHint("Default tax rate must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if s.DefaultTaxType != "" {
		if err := s.DefaultTaxType.Validate(); err != nil {
			return err
		}
	}
	for field, prefix := range map[string]string{
		"sales_prefix":     s.SalesPrefix,
		"purchase_prefix":  s.PurchasePrefix,
		"quotation_prefix": s.QuotationPrefix,
	} {
		if len(prefix) > 20 || strings.ContainsAny(prefix, " \t\n/") {
			return ierr.NewErrorf("invalid %s", field).
				WithHintf("%s must be at most 20 characters without spaces or slashes", field).
				WithReportableDetails(map[string]any{
					"field": field,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	if s.DueDays < 0 {
		return ierr.NewError("invalid due days").
			WithHint("Due days must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

package invoice

import (
	"time"

	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Invoice is a sales, purchase or quotation document. Customer, business, bank,
// authorization and footer blocks are snapshots taken when the invoice is
// created; later edits to the source records never flow back into them.
type Invoice struct {
	ID            string              `json:"id"`
	CustomerID    string              `json:"customer_id"`
	InvoiceNumber string              `json:"invoice_number"`
	InvoiceType   types.InvoiceType   `json:"invoice_type"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	Tags          []string            `json:"tags"`

	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	SentDate   *time.Time `json:"sent_date,omitempty"`
	ViewedDate *time.Time `json:"viewed_date,omitempty"`
	PaidDate   *time.Time `json:"paid_date,omitempty"`

	Customer      CustomerSnapshot      `json:"customer"`
	Business      BusinessSnapshot      `json:"business"`
	Bank          BankSnapshot          `json:"bank"`
	Authorization AuthorizationSnapshot `json:"authorization"`
	Footer        FooterSnapshot        `json:"footer"`

	LineItems []*LineItem `json:"line_items"`

	TaxType            types.TaxType      `json:"tax_type"`
	TaxRate            decimal.Decimal    `json:"tax_rate" swaggertype:"string"`
	Subtotal           decimal.Decimal    `json:"subtotal" swaggertype:"string"`
	TotalTaxAmount     decimal.Decimal    `json:"total_tax_amount" swaggertype:"string"`
	TaxBreakdown       TaxBreakdown       `json:"tax_breakdown"`
	DiscountType       types.DiscountType `json:"discount_type"`
	DiscountValue      decimal.Decimal    `json:"discount_value" swaggertype:"string"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount" swaggertype:"string"`
	TransportCharges   decimal.Decimal    `json:"transport_charges" swaggertype:"string"`
	OtherCharges       decimal.Decimal    `json:"other_charges" swaggertype:"string"`
	RoundingAdjustment decimal.Decimal    `json:"rounding_adjustment" swaggertype:"string"`
	FinalAmount        decimal.Decimal    `json:"final_amount" swaggertype:"string"`
	PaidAmount         decimal.Decimal    `json:"paid_amount" swaggertype:"string"`
	BalanceAmount      decimal.Decimal    `json:"balance_amount" swaggertype:"string"`

	Notes string `json:"notes,omitempty"`
	Terms string `json:"terms,omitempty"`

	types.BaseModel
}

// LineItem is one priced row of an invoice
type LineItem struct {
	ID          string          `json:"id"`
	ItemID      *string         `json:"item_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	HSNCode     string          `json:"hsn_code,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	TaxRate     decimal.Decimal `json:"tax_rate" swaggertype:"string"`
	LineTotal   decimal.Decimal `json:"line_total" swaggertype:"string"`
	TaxAmount   decimal.Decimal `json:"tax_amount" swaggertype:"string"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"string"`
}

// TaxBreakdown holds exactly one populated regime: igst, or cgst and sgst
type TaxBreakdown struct {
	CGST decimal.Decimal `json:"cgst" swaggertype:"string"`
	SGST decimal.Decimal `json:"sgst" swaggertype:"string"`
	IGST decimal.Decimal `json:"igst" swaggertype:"string"`
}

// IsZero reports whether no regime carries an amount
func (b TaxBreakdown) IsZero() bool {
	return b.CGST.IsZero() && b.SGST.IsZero() && b.IGST.IsZero()
}

// Total is the tax the breakdown accounts for
func (b TaxBreakdown) Total() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

// CustomerSnapshot is the customer as it was when the invoice was issued
type CustomerSnapshot struct {
	Name            string        `json:"name"`
	Phone           string        `json:"phone,omitempty"`
	Email           string        `json:"email,omitempty"`
	GSTIN           string        `json:"gstin,omitempty"`
	VendorCode      string        `json:"vendor_code,omitempty"`
	BillingAddress  types.Address `json:"billing_address"`
	ShippingAddress types.Address `json:"shipping_address"`
}

// BusinessSnapshot is the issuing business as it was when the invoice was issued
type BusinessSnapshot struct {
	Name      string        `json:"name"`
	GSTIN     string        `json:"gstin,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Email     string        `json:"email,omitempty"`
	StateCode string        `json:"state_code,omitempty"`
	LogoURL   string        `json:"logo_url,omitempty"`
	Address   types.Address `json:"address"`
}

type BankSnapshot struct {
	AccountHolder string `json:"account_holder,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	Branch        string `json:"branch,omitempty"`
	UPIID         string `json:"upi_id,omitempty"`
}

func (b BankSnapshot) IsZero() bool {
	return b == BankSnapshot{}
}

type AuthorizationSnapshot struct {
	SignatoryName string `json:"signatory_name,omitempty"`
	Designation   string `json:"designation,omitempty"`
	SignatureURL  string `json:"signature_url,omitempty"`
}

func (a AuthorizationSnapshot) IsZero() bool {
	return a == AuthorizationSnapshot{}
}

type FooterSnapshot struct {
	Note  string `json:"note,omitempty"`
	Terms string `json:"terms,omitempty"`
}

func (f FooterSnapshot) IsZero() bool {
	return f == FooterSnapshot{}
}

// EnsureTypeTag keeps the invoice type in the tag set, without duplicates
func (i *Invoice) EnsureTypeTag() {
	i.Tags = lo.Uniq(append(lo.Filter(i.Tags, func(t string, _ int) bool {
		return t != ""
	}), string(i.InvoiceType)))
}

// IsOutstanding reports whether money is still owed
func (i *Invoice) IsOutstanding() bool {
	return i.BalanceAmount.GreaterThan(decimal.Zero) &&
		i.InvoiceStatus != types.InvoiceStatusCancelled &&
		i.InvoiceStatus != types.InvoiceStatusDraft
}

// IsOverdue reports whether the invoice is past due with a balance at now
func (i *Invoice) IsOverdue(now time.Time) bool {
	if !i.IsOutstanding() || !i.DueDate.Before(now) {
		return false
	}
	return i.PaymentStatus == types.PaymentStatusPending || i.PaymentStatus == types.PaymentStatusPartial
}

// Apply copies computed totals onto the invoice and rederives the payment status
func (i *Invoice) Apply(t *ComputedTotals) {
	i.LineItems = t.LineItems
	i.TaxType = t.TaxType
	i.TaxRate = t.TaxRate
	i.DiscountType = t.DiscountType
	i.DiscountValue = t.DiscountValue
	i.Subtotal = t.Subtotal
	i.TotalTaxAmount = t.TotalTaxAmount
	i.TaxBreakdown = t.TaxBreakdown
	i.DiscountAmount = t.DiscountAmount
	i.TransportCharges = t.TransportCharges
	i.OtherCharges = t.OtherCharges
	i.RoundingAdjustment = t.RoundingAdjustment
	i.FinalAmount = t.FinalAmount
	i.PaidAmount = t.PaidAmount
	i.BalanceAmount = t.BalanceAmount
	i.RefreshPaymentStatus()
}

// RefreshPaymentStatus rederives the payment status from the amounts. The out of
// band cancelled value is kept; overdue is kept only while a balance remains.
func (i *Invoice) RefreshPaymentStatus() {
	derived := DerivePaymentStatus(i.PaidAmount, i.BalanceAmount)
	switch i.PaymentStatus {
	case types.PaymentStatusCancelled:
		return
	case types.PaymentStatusOverdue:
		if derived != types.PaymentStatusPaid {
			return
		}
	}
	i.PaymentStatus = derived
}

// DerivePaymentStatus is paid when nothing is owed, partial when some money was
// received, and pending otherwise
func DerivePaymentStatus(paid, balance decimal.Decimal) types.PaymentStatus {
	switch {
	case balance.LessThanOrEqual(decimal.Zero):
		return types.PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return types.PaymentStatusPartial
	default:
		return types.PaymentStatusPending
	}
}

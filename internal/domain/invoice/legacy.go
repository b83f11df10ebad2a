package invoice

import (
	"time"

	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

// LegacyVersion is the only shape GetLegacyInvoice can produce today
const LegacyVersion = "v1"

// LegacyInvoice is the nested shape older clients read: the customer snapshot
// lives under customerInfo with camelCase keys
type LegacyInvoice struct {
	Version       string              `json:"version"`
	ID            string              `json:"_id"`
	InvoiceNumber string              `json:"invoiceNumber"`
	InvoiceType   types.InvoiceType   `json:"invoiceType"`
	Status        types.InvoiceStatus `json:"status"`
	PaymentStatus types.PaymentStatus `json:"paymentStatus"`
	IssueDate     time.Time           `json:"issueDate"`
	DueDate       time.Time           `json:"dueDate"`
	CustomerID    string              `json:"customerId"`
	CustomerInfo  LegacyCustomerInfo  `json:"customerInfo"`
	Items         []LegacyLineItem    `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxAmount     decimal.Decimal     `json:"taxAmount"`
	CGST          decimal.Decimal     `json:"cgst"`
	SGST          decimal.Decimal     `json:"sgst"`
	IGST          decimal.Decimal     `json:"igst"`
	Discount      decimal.Decimal     `json:"discount"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	PaidAmount    decimal.Decimal     `json:"paidAmount"`
	BalanceAmount decimal.Decimal     `json:"balanceAmount"`
	Tags          []string            `json:"tags"`
}

type LegacyCustomerInfo struct {
	Name            string        `json:"name"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email"`
	GSTNumber       string        `json:"gstNumber"`
	VendorCode      string        `json:"vendorCode"`
	Address         string        `json:"address"`
	BillingAddress  LegacyAddress `json:"billingAddress"`
	ShippingAddress LegacyAddress `json:"shippingAddress"`
}

type LegacyAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type LegacyLineItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsnCode"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToLegacy materializes the legacy shape from the flat snapshot fields
func (i *Invoice) ToLegacy() *LegacyInvoice {
	items := make([]LegacyLineItem, 0, len(i.LineItems))
	for _, li := range i.LineItems {
		items = append(items, LegacyLineItem{
			Name:        li.Name,
			Description: li.Description,
			HSNCode:     li.HSNCode,
			Unit:        li.Unit,
			Quantity:    li.Quantity,
			Rate:        li.UnitPrice,
			TaxRate:     li.TaxRate,
			Amount:      li.TotalAmount,
		})
	}

	return &LegacyInvoice{
		Version:       LegacyVersion,
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		InvoiceType:   i.InvoiceType,
		Status:        i.InvoiceStatus,
		PaymentStatus: i.PaymentStatus,
		IssueDate:     i.IssueDate,
		DueDate:       i.DueDate,
		CustomerID:    i.CustomerID,
		CustomerInfo: LegacyCustomerInfo{
			Name:            i.Customer.Name,
			Phone:           i.Customer.Phone,
			Email:           i.Customer.Email,
			GSTNumber:       i.Customer.GSTIN,
			VendorCode:      i.Customer.VendorCode,
			Address:         i.Customer.BillingAddress.String(),
			BillingAddress:  legacyAddress(i.Customer.BillingAddress),
			ShippingAddress: legacyAddress(i.Customer.ShippingAddress),
		},
		Items:         items,
		Subtotal:      i.Subtotal,
		TaxAmount:     i.TotalTaxAmount,
		CGST:          i.TaxBreakdown.CGST,
		SGST:          i.TaxBreakdown.SGST,
		IGST:          i.TaxBreakdown.IGST,
		Discount:      i.DiscountAmount,
		TotalAmount:   i.FinalAmount,
		PaidAmount:    i.PaidAmount,
		BalanceAmount: i.BalanceAmount,
		Tags:          i.Tags,
	}
}

func legacyAddress(a types.Address) LegacyAddress {
	street := a.Line1
	if a.Line2 != "" {
		if street != "" {
			street += ", "
		}
		street += a.Line2
	}
	return LegacyAddress{
		Street:  street,
		City:    a.City,
		State:   a.State,
		Pincode: a.PostalCode,
		Country: a.Country,
	}
}

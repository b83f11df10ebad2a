package customer

import (
	"strings"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
)

// Customer is a party invoices are issued to or purchases are made from
type Customer struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Phone      string `db:"phone" json:"phone"`
	Email      string `db:"email" json:"email"`
	GSTIN      string `db:"gstin" json:"gstin"`
	VendorCode string `db:"vendor_code" json:"vendor_code"`

	BillingAddress  types.Address `db:"billing_address" json:"billing_address"`
	ShippingAddress types.Address `db:"shipping_address" json:"shipping_address"`

	types.BaseModel
}

// ShippingOrBilling returns the shipping address, filled in from the billing
// address wherever a component is missing
func (c *Customer) ShippingOrBilling() types.Address {
	return c.ShippingAddress.Merge(c.BillingAddress)
}

// Validate checks the fields a customer record must satisfy on every write
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("customer name is required").
			WithHint("Customer name is required").
			Mark(ierr.ErrValidation)
	}
	if c.GSTIN != "" && !validator.IsValidGSTIN(c.GSTIN) {
		return ierr.NewError("invalid gstin").
			WithHint("GSTIN must be a valid 15 character GST identification number").
			WithReportableDetails(map[string]any{
				"gstin": c.GSTIN,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.Phone != "" && !validator.IsValidPhone(c.Phone) {
		return ierr.NewError("invalid phone").
			WithHint("Phone number is not valid").
			Mark(ierr.ErrValidation)
	}
	if len(c.BillingAddress.PostalCode) > 20 || len(c.ShippingAddress.PostalCode) > 20 {
		return ierr.NewError("invalid postal code format").
			WithHint("Postal code must be less than 20 characters").
			Mark(ierr.ErrValidation)
	}
	return nil
}

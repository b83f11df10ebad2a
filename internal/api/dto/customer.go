package dto

import (
	"context"
	"strings"

	"github.com/flexprice/gstbill/internal/domain/customer"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/flexprice/gstbill/internal/validator"
)

type CreateCustomerRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Phone           string   `json:"phone" validate:"omitempty,phone"`
	Email           string   `json:"email" validate:"omitempty,email"`
	GSTIN           string   `json:"gstin" validate:"omitempty,gstin"`
	VendorCode      string   `json:"vendor_code" validate:"omitempty,max=50"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
}

type UpdateCustomerRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Phone           *string  `json:"phone" validate:"omitempty,phone"`
	Email           *string  `json:"email" validate:"omitempty,email"`
	GSTIN           *string  `json:"gstin" validate:"omitempty,gstin"`
	VendorCode      *string  `json:"vendor_code" validate:"omitempty,max=50"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
}

type CustomerResponse struct {
	*customer.Customer
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:            strings.TrimSpace(r.Name),
		Phone:           normalizePhone(r.Phone),
		Email:           strings.TrimSpace(r.Email),
		GSTIN:           validator.NormalizeGSTIN(r.GSTIN),
		VendorCode:      strings.TrimSpace(r.VendorCode),
		BillingAddress:  r.BillingAddress.ToAddress(),
		ShippingAddress: r.ShippingAddress.ToAddress(),
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the supplied fields onto c
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		c.Phone = normalizePhone(*r.Phone)
	}
	if r.Email != nil {
		c.Email = strings.TrimSpace(*r.Email)
	}
	if r.GSTIN != nil {
		c.GSTIN = validator.NormalizeGSTIN(*r.GSTIN)
	}
	if r.VendorCode != nil {
		c.VendorCode = strings.TrimSpace(*r.VendorCode)
	}
	if r.BillingAddress != nil {
		c.BillingAddress = r.BillingAddress.ToAddress()
	}
	if r.ShippingAddress != nil {
		c.ShippingAddress = r.ShippingAddress.ToAddress()
	}
}

package service

import (
	"context"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/customer"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	GetCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
	ImportCustomers(ctx context.Context, data []byte) (*dto.ImportResponse, error)
	ExportCustomers(ctx context.Context, filter *types.CustomerFilter) ([]byte, error)
}

var customerExportHeaders = []string{
	"Name", "Phone", "Email", "GSTIN", "Vendor Code",
	"Billing Line1", "Billing Line2", "Billing City", "Billing State", "Billing Postal Code", "Billing Country",
	"Shipping Line1", "Shipping Line2", "Shipping City", "Shipping State", "Shipping Postal Code", "Shipping Country",
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust := req.ToCustomer(ctx)
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if id == "" {
		return nil, ierr.NewError("missing customer ID").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.CustomerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(cust)
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	cust.Touch(ctx)

	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

// DeleteCustomer refuses customers that invoices still reference; the invoices
// keep their own snapshot but the link would dangle
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := s.CustomerRepo.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.InvoiceRepo.ExistsForCustomer(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ierr.NewError("customer has invoices").
			WithHint("Customer cannot be deleted while invoices reference it").
			WithReportableDetails(map[string]any{
				"customer_id": id,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return s.CustomerRepo.Delete(ctx, id)
}

// ImportCustomers creates one customer per spreadsheet row. Bad rows are
// reported and skipped; the rest are still imported.
func (s *customerService) ImportCustomers(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	rows, err := excel.ReadRows(data)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportResponse{}
	for i, row := range rows {
		req := dto.CreateCustomerRequest{
			Name:       row.Get("name", "customer_name"),
			Phone:      row.Get("phone", "mobile"),
			Email:      row.Get("email"),
			GSTIN:      row.Get("gstin", "gst_number", "tax_id"),
			VendorCode: row.Get("vendor_code"),
			BillingAddress: &dto.Address{
				Line1:      row.Get("billing_line1", "address", "address_line1"),
				Line2:      row.Get("billing_line2", "address_line2"),
				City:       row.Get("billing_city", "city"),
				State:      row.Get("billing_state", "state"),
				PostalCode: row.Get("billing_postal_code", "postal_code", "pincode"),
				Country:    row.Get("billing_country", "country"),
			},
			ShippingAddress: &dto.Address{
				Line1:      row.Get("shipping_line1"),
				Line2:      row.Get("shipping_line2"),
				City:       row.Get("shipping_city"),
				State:      row.Get("shipping_state"),
				PostalCode: row.Get("shipping_postal_code"),
				Country:    row.Get("shipping_country"),
			},
		}

		if _, err := s.CreateCustomer(ctx, req); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportError{Row: i + 2, Message: ierr.DisplayMessage(err)})
			continue
		}
		resp.Imported++
	}

	s.Logger.Infow("imported customers",
		"tenant_id", types.GetTenantID(ctx),
		"imported", resp.Imported,
		"failed", resp.Failed)
	return resp, nil
}

func (s *customerService) ExportCustomers(ctx context.Context, filter *types.CustomerFilter) ([]byte, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}

	customers, err := s.CustomerRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(customers))
	for _, c := range customers {
		b, sh := c.BillingAddress, c.ShippingAddress
		rows = append(rows, []interface{}{
			c.Name, c.Phone, c.Email, c.GSTIN, c.VendorCode,
			b.Line1, b.Line2, b.City, b.State, b.PostalCode, b.Country,
			sh.Line1, sh.Line2, sh.City, sh.State, sh.PostalCode, sh.Country,
		})
	}
	return excel.Write("Customers", customerExportHeaders, rows)
}

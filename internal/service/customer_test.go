package service

import (
	"testing"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/invoice"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/testutil"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	testCases := []struct {
		name          string
		request       dto.CreateCustomerRequest
		expectedError bool
	}{
		{
			name: "successful_creation",
			request: dto.CreateCustomerRequest{
				Name:       "Globex Industries",
				Phone:      "080 4123 4567",
				Email:      "accounts@globex.in",
				GSTIN:      "29abcde1234f1z5",
				VendorCode: "V-100",
				BillingAddress: &dto.Address{
					Line1:      "4 Residency Road",
					City:       "Bengaluru",
					State:      "Karnataka",
					PostalCode: "560025",
					Country:    "IN",
				},
			},
		},
		{
			name:          "missing_name",
			request:       dto.CreateCustomerRequest{Email: "a@b.in"},
			expectedError: true,
		},
		{
			name: "invalid_postal_code",
			request: dto.CreateCustomerRequest{
				Name:           "Test Customer",
				BillingAddress: &dto.Address{PostalCode: "12345678901234567890123"},
			},
			expectedError: true,
		},
		{
			name:          "invalid_email",
			request:       dto.CreateCustomerRequest{Name: "Test Customer", Email: "nope"},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CreateCustomer(s.GetContext(), tc.request)

			if tc.expectedError {
				s.Error(err)
				s.Nil(resp)
				s.True(ierr.IsValidation(err))
				return
			}

			s.NoError(err)
			s.NotEmpty(resp.ID)
			s.Equal(types.DefaultTenantID, resp.TenantID)
			s.Equal("29ABCDE1234F1Z5", resp.GSTIN)
			s.Equal("Bengaluru", resp.BillingAddress.City)
		})
	}
}

func (s *CustomerServiceSuite) createCustomer(name, email string) *dto.CustomerResponse {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{Name: name, Email: email})
	s.Require().NoError(err)
	return resp
}

func (s *CustomerServiceSuite) TestGetCustomers() {
	s.createCustomer("Alpha Steel", "alpha@steel.in")
	s.createCustomer("Beta Plastics", "sales@beta.in")
	s.createCustomer("Gamma Steel Works", "gamma@works.in")

	// another tenant's customer never shows up
	_, err := s.service.CreateCustomer(testutil.WithTenant(s.GetContext(), "tenant_other"),
		dto.CreateCustomerRequest{Name: "Other Steel"})
	s.Require().NoError(err)

	all, err := s.service.GetCustomers(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)

	filter := types.NewCustomerFilter()
	filter.Search = "steel"
	filtered, err := s.service.GetCustomers(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(filtered.Items, 2)
	s.Equal("Alpha Steel", filtered.Items[0].Name)

	paged := types.NewCustomerFilter()
	paged.Limit = lo.ToPtr(1)
	paged.Offset = lo.ToPtr(1)
	page, err := s.service.GetCustomers(s.GetContext(), paged)
	s.Require().NoError(err)
	s.Len(page.Items, 1)
	s.Equal(3, page.Pagination.Total)
	s.Equal("Beta Plastics", page.Items[0].Name)
}

func (s *CustomerServiceSuite) TestUpdateCustomer() {
	created := s.createCustomer("Alpha Steel", "alpha@steel.in")

	resp, err := s.service.UpdateCustomer(s.GetContext(), created.ID, dto.UpdateCustomerRequest{
		Name:            lo.ToPtr("Alpha Steel Ltd"),
		ShippingAddress: &dto.Address{City: "Mysuru"},
	})
	s.Require().NoError(err)
	s.Equal("Alpha Steel Ltd", resp.Name)
	s.Equal("alpha@steel.in", resp.Email)
	s.Equal("Mysuru", resp.ShippingAddress.City)

	_, err = s.service.UpdateCustomer(s.GetContext(), "cust_missing", dto.UpdateCustomerRequest{Name: lo.ToPtr("x")})
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	free := s.createCustomer("Alpha Steel", "")
	billed := s.createCustomer("Beta Plastics", "")

	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerID:    billed.ID,
		InvoiceNumber: "SALE-2024-00001",
		InvoiceType:   types.InvoiceTypeSales,
		InvoiceStatus: types.InvoiceStatusPending,
		IssueDate:     time.Now().UTC(),
		DueDate:       time.Now().UTC(),
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))

	s.NoError(s.service.DeleteCustomer(s.GetContext(), free.ID))
	_, err := s.service.GetCustomer(s.GetContext(), free.ID)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeleteCustomer(s.GetContext(), billed.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CustomerServiceSuite) TestImportCustomers() {
	data, err := excel.Write("Customers",
		[]string{"Name", "Phone", "Email", "GSTIN", "City"},
		[][]interface{}{
			{"Alpha Steel", "9876543210", "alpha@steel.in", "29ABCDE1234F1Z5", "Bengaluru"},
			{"", "9876543211", "noname@x.in", "", ""},
			{"Beta Plastics", "", "not-an-email", "", ""},
			{"Gamma Works", "", "", "", "Chennai"},
		})
	s.Require().NoError(err)

	resp, err := s.service.ImportCustomers(s.GetContext(), data)
	s.Require().NoError(err)
	s.Equal(2, resp.Imported)
	s.Equal(2, resp.Failed)
	s.Require().Len(resp.Errors, 2)
	s.Equal(3, resp.Errors[0].Row)
	s.Equal(4, resp.Errors[1].Row)

	list, err := s.service.GetCustomers(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(list.Items, 2)
	s.Equal("Bengaluru", list.Items[0].BillingAddress.City)
}

func (s *CustomerServiceSuite) TestImportRejectsNonSpreadsheet() {
	_, err := s.service.ImportCustomers(s.GetContext(), []byte("name,email\nfoo,bar\n"))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestExportCustomersRoundTrip() {
	s.createCustomer("Alpha Steel", "alpha@steel.in")
	s.createCustomer("Beta Plastics", "sales@beta.in")

	data, err := s.service.ExportCustomers(s.GetContext(), nil)
	s.Require().NoError(err)

	rows, err := excel.ReadRows(data)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("Alpha Steel", rows[0].Get("name"))
	s.Equal("sales@beta.in", rows[1].Get("email"))
}

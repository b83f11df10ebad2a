package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/customer"
	"github.com/flexprice/gstbill/internal/domain/invoice"
	"github.com/flexprice/gstbill/internal/domain/payment"
	"github.com/flexprice/gstbill/internal/domain/settings"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	MarkAsPending(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	GetLegacyInvoice(ctx context.Context, id string, version string) (*invoice.LegacyInvoice, error)
	ExportInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]byte, error)
}

var invoiceExportHeaders = []string{
	"Invoice Number", "Invoice Type", "Status", "Payment Status", "Issue Date", "Due Date",
	"Customer", "Customer GSTIN", "Subtotal", "Tax", "CGST", "SGST", "IGST",
	"Discount", "Final Amount", "Paid Amount", "Balance Amount", "Tags",
}

type invoiceService struct {
	ServiceParams
	settingsService    SettingsService
	bankAccountService BankAccountService
	numbers            *invoice.NumberGenerator
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	settingsService := NewSettingsService(params)
	return &invoiceService{
		ServiceParams:      params,
		settingsService:    settingsService,
		bankAccountService: NewBankAccountService(params),
		numbers: invoice.NewNumberGenerator(invoice.NumberGeneratorConfig{
			Strategy:    params.Config.Invoicing.NumberingStrategy,
			MaxAttempts: params.Config.Invoicing.MaxNumberAttempts,
		}, params.Counter, settingsService, params.InvoiceRepo),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tenantID := types.GetTenantID(ctx)
	cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	owner, err := s.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	st, err := s.settingsService.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	invoiceType := lo.Ternary(req.InvoiceType != "", req.InvoiceType, types.InvoiceTypeSales)
	params := req.ToComputeParams(st.DefaultTaxRate)
	if params.Tax.TaxType == "" {
		params.Tax.TaxType = st.DefaultTaxType
	}
	if params.LineItems, err = s.resolveLineItems(ctx, params.LineItems, invoiceType); err != nil {
		return nil, err
	}

	totals, err := invoice.ComputeTotals(params)
	if err != nil {
		return nil, err
	}
	s.logWarnings(ctx, "", totals.Warnings)

	bank, err := s.bankSnapshot(ctx, req.Bank)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerID:    cust.ID,
		InvoiceType:   invoiceType,
		InvoiceStatus: lo.Ternary(req.InvoiceStatus != "", req.InvoiceStatus, types.InvoiceStatusPending),
		Tags:          req.Tags,
		IssueDate:     lo.FromPtrOr(req.IssueDate, now),
		DueDate:       req.DueDate,
		Customer:      customerSnapshot(cust, req.CustomerOverrides()),
		Business:      businessSnapshot(owner, st),
		Bank:          bank,
		Authorization: lo.FromPtrOr(req.Authorization, authorizationSnapshot(owner, st)),
		Footer:        lo.FromPtrOr(req.Footer, footerSnapshot(owner, st)),
		Notes:         req.Notes,
		Terms:         types.FirstNonEmpty(req.Terms, st.DefaultTerms),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if inv.InvoiceStatus == types.InvoiceStatusPending {
		inv.SentDate = &now
	}
	inv.Apply(totals)

	number, err := s.numbers.Next(ctx, tenantID, invoiceType)
	if err != nil {
		s.Logger.Errorw("failed to generate invoice number",
			"tenant_id", tenantID,
			"invoice_type", invoiceType,
			"error", err)
		return nil, err
	}
	inv.InvoiceNumber = number
	inv.EnsureTypeTag()

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"tenant_id", tenantID,
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"final_amount", inv.FinalAmount.String())
	return &dto.InvoiceResponse{Invoice: inv, ComputationWarnings: totals.Warnings}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("missing invoice ID").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return &dto.InvoiceResponse{Invoice: inv}
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// UpdateInvoice recomputes the totals over the merged request. Snapshots change
// only when the request carries them.
func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus == types.InvoiceStatusCancelled || inv.InvoiceStatus == types.InvoiceStatusCompleted {
		return nil, ierr.NewErrorf("invoice is %s", inv.InvoiceStatus).
			WithHintf("A %s invoice cannot be edited", inv.InvoiceStatus).
			WithReportableDetails(map[string]any{
				"invoice_id": id,
				"status":     inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	rate, err := s.settingsService.GetDefaultTaxRate(ctx, inv.TenantID)
	if err != nil {
		return nil, err
	}

	params := req.ToComputeParams(inv, rate)
	if req.LineItems != nil {
		if params.LineItems, err = s.resolveLineItems(ctx, params.LineItems, inv.InvoiceType); err != nil {
			return nil, err
		}
	}
	totals, err := invoice.ComputeTotals(params)
	if err != nil {
		return nil, err
	}
	s.logWarnings(ctx, inv.ID, totals.Warnings)

	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, ierr.NewError("due date before issue date").
			WithHint("Due date must not be before the issue date").
			Mark(ierr.ErrValidation)
	}
	if req.Tags != nil {
		inv.Tags = *req.Tags
	}
	if req.Customer != nil {
		inv.Customer = *req.Customer
	}
	if req.Bank != nil {
		inv.Bank = *req.Bank
	}
	if req.Authorization != nil {
		inv.Authorization = *req.Authorization
	}
	if req.Footer != nil {
		inv.Footer = *req.Footer
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.Terms != nil {
		inv.Terms = *req.Terms
	}

	inv.Apply(totals)
	inv.SyncStatus(time.Now().UTC())
	inv.EnsureTypeTag()
	inv.Touch(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv, ComputationWarnings: totals.Warnings}, nil
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(inv *invoice.Invoice) error {
		return inv.TransitionTo(req.Status, time.Now().UTC())
	})
}

func (s *invoiceService) MarkAsPending(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return s.mutate(ctx, id, func(inv *invoice.Invoice) error {
		return inv.MarkAsPending()
	})
}

func (s *invoiceService) CancelInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return s.mutate(ctx, id, func(inv *invoice.Invoice) error {
		return inv.TransitionTo(types.InvoiceStatusCancelled, time.Now().UTC())
	})
}

// mutate loads, changes and saves an invoice without recomputing its totals
func (s *invoiceService) mutate(ctx context.Context, id string, fn func(*invoice.Invoice) error) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := inv.InvoiceStatus
	if err := fn(inv); err != nil {
		return nil, err
	}
	inv.Touch(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated invoice status",
		"invoice_id", inv.ID,
		"from", from,
		"to", inv.InvoiceStatus,
		"payment_status", inv.PaymentStatus)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

// RecordPayment books money received outside the gateway. The payment row and
// the invoice amounts are written in one transaction.
func (s *invoiceService) RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		inv *invoice.Invoice
		p   *payment.Payment
	)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		amount := types.Round2(req.Amount)
		if amount.GreaterThan(inv.BalanceAmount) {
			return ierr.NewError("payment exceeds balance").
				WithHintf("Payment of %s exceeds the outstanding balance of %s", amount.StringFixed(2), inv.BalanceAmount.StringFixed(2)).
				WithReportableDetails(map[string]any{
					"invoice_id": id,
					"amount":     amount.String(),
					"balance":    inv.BalanceAmount.String(),
				}).
				Mark(ierr.ErrValidation)
		}

		paidAt := lo.FromPtrOr(req.PaidAt, time.Now().UTC())
		if err := inv.RecordPayment(amount, paidAt); err != nil {
			return err
		}
		inv.Touch(ctx)

		p = &payment.Payment{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
			InvoiceID:     inv.ID,
			Amount:        amount,
			Currency:      payment.CurrencyINR,
			PaymentMethod: req.PaymentMethod,
			PaymentState:  types.PaymentStateCaptured,
			ReceiptNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
			Reference:     req.Reference,
			Notes:         req.Notes,
			PaidAt:        &paidAt,
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"invoice_id", inv.ID,
		"payment_id", p.ID,
		"amount", p.Amount.String(),
		"payment_status", inv.PaymentStatus)
	return &dto.RecordPaymentResponse{
		Invoice: &dto.InvoiceResponse{Invoice: inv},
		Payment: &dto.PaymentResponse{Payment: p},
	}, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.InvoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("deleted invoice", "tenant_id", types.GetTenantID(ctx), "invoice_id", id)
	return nil
}

// GetLegacyInvoice serves the nested shape older clients read. An empty version
// means the latest.
func (s *invoiceService) GetLegacyInvoice(ctx context.Context, id string, version string) (*invoice.LegacyInvoice, error) {
	if version != "" && version != invoice.LegacyVersion {
		return nil, ierr.NewErrorf("unsupported legacy version %s", version).
			WithHintf("Supported legacy versions: %s", invoice.LegacyVersion).
			WithReportableDetails(map[string]any{
				"version": version,
			}).
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return inv.ToLegacy(), nil
}

func (s *invoiceService) ExportInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]byte, error) {
	if filter == nil {
		filter = types.NewNoLimitInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := lo.Map(invoices, func(inv *invoice.Invoice, _ int) []interface{} {
		return []interface{}{
			inv.InvoiceNumber,
			string(inv.InvoiceType),
			string(inv.InvoiceStatus),
			string(inv.PaymentStatus),
			inv.IssueDate.Format(time.DateOnly),
			inv.DueDate.Format(time.DateOnly),
			inv.Customer.Name,
			inv.Customer.GSTIN,
			inv.Subtotal.InexactFloat64(),
			inv.TotalTaxAmount.InexactFloat64(),
			inv.TaxBreakdown.CGST.InexactFloat64(),
			inv.TaxBreakdown.SGST.InexactFloat64(),
			inv.TaxBreakdown.IGST.InexactFloat64(),
			inv.DiscountAmount.InexactFloat64(),
			inv.FinalAmount.InexactFloat64(),
			inv.PaidAmount.InexactFloat64(),
			inv.BalanceAmount.InexactFloat64(),
			fmt.Sprint(inv.Tags),
		}
	})
	return excel.Write("Invoices", invoiceExportHeaders, rows)
}

// resolveLineItems fills lines that reference an inventory item. Descriptive
// fields, the unit price and the tax rate are taken from the item only where
// the request left them out; purchases are priced at the purchase price.
func (s *invoiceService) resolveLineItems(ctx context.Context, lines []invoice.LineInput, invoiceType types.InvoiceType) ([]invoice.LineInput, error) {
	for idx := range lines {
		line := &lines[idx]
		if line.ItemID == nil || *line.ItemID == "" {
			continue
		}

		it, err := s.ItemRepo.Get(ctx, *line.ItemID)
		if err != nil {
			if ierr.IsNotFound(err) {
				return nil, ierr.WithError(err).
					WithHintf("line_items[%d]: item not found", idx).
					WithReportableDetails(map[string]any{
						"line_index": idx,
						"item_id":    *line.ItemID,
					}).
					Mark(ierr.ErrValidation)
			}
			return nil, err
		}

		line.Name = types.FirstNonEmpty(line.Name, it.Name)
		line.Description = types.FirstNonEmpty(line.Description, it.Description)
		line.Unit = types.FirstNonEmpty(line.Unit, it.Unit)
		line.HSNCode = types.FirstNonEmpty(line.HSNCode, it.HSNCode)
		if !line.UnitPrice.Present() {
			price := it.PriceFor(line.Quantity.Or(decimal.NewFromInt(1)))
			if invoiceType == types.InvoiceTypePurchase {
				price = it.PurchasePrice
			}
			line.UnitPrice = types.NewSafeNumber(price)
		}
		if !line.TaxRate.Present() {
			line.TaxRate = types.NewSafeNumber(it.TaxRate)
		}
	}
	return lines, nil
}

// bankSnapshot prefers the request block and falls back to the default account
func (s *invoiceService) bankSnapshot(ctx context.Context, override *invoice.BankSnapshot) (invoice.BankSnapshot, error) {
	if override != nil && !override.IsZero() {
		return *override, nil
	}

	account, err := s.bankAccountService.GetDefault(ctx)
	if err != nil || account == nil {
		return invoice.BankSnapshot{}, err
	}
	return invoice.BankSnapshot{
		AccountHolder: account.AccountHolder,
		BankName:      account.BankName,
		AccountNumber: account.AccountNumber,
		IFSC:          account.IFSC,
		Branch:        account.Branch,
		UPIID:         account.UPIID,
	}, nil
}

func (s *invoiceService) logWarnings(ctx context.Context, invoiceID string, warnings []invoice.ComputationWarning) {
	for _, w := range warnings {
		s.Logger.Warnw("invoice computation fell back",
			"tenant_id", types.GetTenantID(ctx),
			"invoice_id", invoiceID,
			"field", w.Field,
			"reason", w.Reason,
			"fallback", w.Fallback.String())
	}
}

// customerSnapshot merges the request overrides over the stored customer, one
// field at a time
func customerSnapshot(c *customer.Customer, o invoice.CustomerSnapshot) invoice.CustomerSnapshot {
	return invoice.CustomerSnapshot{
		Name:            types.FirstNonEmpty(o.Name, c.Name),
		Phone:           types.FirstNonEmpty(o.Phone, c.Phone),
		Email:           types.FirstNonEmpty(o.Email, c.Email),
		GSTIN:           types.FirstNonEmpty(o.GSTIN, c.GSTIN),
		VendorCode:      types.FirstNonEmpty(o.VendorCode, c.VendorCode),
		BillingAddress:  o.BillingAddress.Merge(c.BillingAddress),
		ShippingAddress: o.ShippingAddress.Merge(c.ShippingOrBilling()),
	}
}

func businessSnapshot(t *tenant.Tenant, st *settings.Settings) invoice.BusinessSnapshot {
	return invoice.BusinessSnapshot{
		Name:      t.BusinessName,
		GSTIN:     t.GSTIN,
		Phone:     t.Phone,
		Email:     t.Email,
		StateCode: types.FirstNonEmpty(st.StateCode, t.StateCode),
		LogoURL:   t.LogoURL,
		Address:   t.Address,
	}
}

func authorizationSnapshot(t *tenant.Tenant, st *settings.Settings) invoice.AuthorizationSnapshot {
	return invoice.AuthorizationSnapshot{
		SignatoryName: types.FirstNonEmpty(st.SignatoryName, t.OwnerName),
		Designation:   st.Designation,
		SignatureURL:  types.FirstNonEmpty(st.SignatureURL, t.SignatureURL),
	}
}

func footerSnapshot(t *tenant.Tenant, st *settings.Settings) invoice.FooterSnapshot {
	return invoice.FooterSnapshot{
		Note:  types.FirstNonEmpty(st.FooterNote, t.FooterNote),
		Terms: st.DefaultTerms,
	}
}

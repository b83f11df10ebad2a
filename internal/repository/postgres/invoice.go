package postgres

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/domain/invoice"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
)

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{client: client, logger: logger}
}

const invoiceColumns = `id, tenant_id, customer_id, invoice_number, invoice_type, invoice_status, payment_status,
	tags, issue_date, due_date, sent_date, viewed_date, paid_date, customer_snapshot, business_snapshot,
	bank_snapshot, authorization_snapshot, footer_snapshot, line_items, tax_type, tax_rate, subtotal,
	total_tax_amount, cgst, sgst, igst, discount_type, discount_value, discount_amount, transport_charges,
	other_charges, rounding_adjustment, final_amount, paid_amount, balance_amount, notes, terms, status,
	created_at, updated_at, created_by, updated_by`

// invoiceRow is the table shape of an invoice: snapshots and lines are JSONB
// and the tax breakdown is flattened into columns
type invoiceRow struct {
	ID            string              `db:"id"`
	CustomerID    string              `db:"customer_id"`
	InvoiceNumber string              `db:"invoice_number"`
	InvoiceType   types.InvoiceType   `db:"invoice_type"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status"`
	PaymentStatus types.PaymentStatus `db:"payment_status"`
	Tags          jsonb[[]string]     `db:"tags"`

	IssueDate  time.Time  `db:"issue_date"`
	DueDate    time.Time  `db:"due_date"`
	SentDate   *time.Time `db:"sent_date"`
	ViewedDate *time.Time `db:"viewed_date"`
	PaidDate   *time.Time `db:"paid_date"`

	Customer      jsonb[invoice.CustomerSnapshot]      `db:"customer_snapshot"`
	Business      jsonb[invoice.BusinessSnapshot]      `db:"business_snapshot"`
	Bank          jsonb[invoice.BankSnapshot]          `db:"bank_snapshot"`
	Authorization jsonb[invoice.AuthorizationSnapshot] `db:"authorization_snapshot"`
	Footer        jsonb[invoice.FooterSnapshot]        `db:"footer_snapshot"`
	LineItems     jsonb[[]*invoice.LineItem]           `db:"line_items"`

	TaxType            types.TaxType      `db:"tax_type"`
	TaxRate            decimal.Decimal    `db:"tax_rate"`
	Subtotal           decimal.Decimal    `db:"subtotal"`
	TotalTaxAmount     decimal.Decimal    `db:"total_tax_amount"`
	CGST               decimal.Decimal    `db:"cgst"`
	SGST               decimal.Decimal    `db:"sgst"`
	IGST               decimal.Decimal    `db:"igst"`
	DiscountType       types.DiscountType `db:"discount_type"`
	DiscountValue      decimal.Decimal    `db:"discount_value"`
	DiscountAmount     decimal.Decimal    `db:"discount_amount"`
	TransportCharges   decimal.Decimal    `db:"transport_charges"`
	OtherCharges       decimal.Decimal    `db:"other_charges"`
	RoundingAdjustment decimal.Decimal    `db:"rounding_adjustment"`
	FinalAmount        decimal.Decimal    `db:"final_amount"`
	PaidAmount         decimal.Decimal    `db:"paid_amount"`
	BalanceAmount      decimal.Decimal    `db:"balance_amount"`

	Notes string `db:"notes"`
	Terms string `db:"terms"`

	types.BaseModel
}

func toInvoiceRow(inv *invoice.Invoice) *invoiceRow {
	return &invoiceRow{
		ID:                 inv.ID,
		CustomerID:         inv.CustomerID,
		InvoiceNumber:      inv.InvoiceNumber,
		InvoiceType:        inv.InvoiceType,
		InvoiceStatus:      inv.InvoiceStatus,
		PaymentStatus:      inv.PaymentStatus,
		Tags:               jsonb[[]string]{V: inv.Tags},
		IssueDate:          inv.IssueDate,
		DueDate:            inv.DueDate,
		SentDate:           inv.SentDate,
		ViewedDate:         inv.ViewedDate,
		PaidDate:           inv.PaidDate,
		Customer:           jsonb[invoice.CustomerSnapshot]{V: inv.Customer},
		Business:           jsonb[invoice.BusinessSnapshot]{V: inv.Business},
		Bank:               jsonb[invoice.BankSnapshot]{V: inv.Bank},
		Authorization:      jsonb[invoice.AuthorizationSnapshot]{V: inv.Authorization},
		Footer:             jsonb[invoice.FooterSnapshot]{V: inv.Footer},
		LineItems:          jsonb[[]*invoice.LineItem]{V: inv.LineItems},
		TaxType:            inv.TaxType,
		TaxRate:            inv.TaxRate,
		Subtotal:           inv.Subtotal,
		TotalTaxAmount:     inv.TotalTaxAmount,
		CGST:               inv.TaxBreakdown.CGST,
		SGST:               inv.TaxBreakdown.SGST,
		IGST:               inv.TaxBreakdown.IGST,
		DiscountType:       inv.DiscountType,
		DiscountValue:      inv.DiscountValue,
		DiscountAmount:     inv.DiscountAmount,
		TransportCharges:   inv.TransportCharges,
		OtherCharges:       inv.OtherCharges,
		RoundingAdjustment: inv.RoundingAdjustment,
		FinalAmount:        inv.FinalAmount,
		PaidAmount:         inv.PaidAmount,
		BalanceAmount:      inv.BalanceAmount,
		Notes:              inv.Notes,
		Terms:              inv.Terms,
		BaseModel:          inv.BaseModel,
	}
}

func (row *invoiceRow) toDomain() *invoice.Invoice {
	tags := row.Tags.V
	if tags == nil {
		tags = []string{}
	}
	return &invoice.Invoice{
		ID:            row.ID,
		CustomerID:    row.CustomerID,
		InvoiceNumber: row.InvoiceNumber,
		InvoiceType:   row.InvoiceType,
		InvoiceStatus: row.InvoiceStatus,
		PaymentStatus: row.PaymentStatus,
		Tags:          tags,
		IssueDate:     row.IssueDate,
		DueDate:       row.DueDate,
		SentDate:      row.SentDate,
		ViewedDate:    row.ViewedDate,
		PaidDate:      row.PaidDate,
		Customer:      row.Customer.V,
		Business:      row.Business.V,
		Bank:          row.Bank.V,
		Authorization: row.Authorization.V,
		Footer:        row.Footer.V,
		LineItems:     row.LineItems.V,
		TaxType:       row.TaxType,
		TaxRate:       row.TaxRate,
		Subtotal:      row.Subtotal,
		TaxBreakdown: invoice.TaxBreakdown{
			CGST: row.CGST,
			SGST: row.SGST,
			IGST: row.IGST,
		},
		TotalTaxAmount:     row.TotalTaxAmount,
		DiscountType:       row.DiscountType,
		DiscountValue:      row.DiscountValue,
		DiscountAmount:     row.DiscountAmount,
		TransportCharges:   row.TransportCharges,
		OtherCharges:       row.OtherCharges,
		RoundingAdjustment: row.RoundingAdjustment,
		FinalAmount:        row.FinalAmount,
		PaidAmount:         row.PaidAmount,
		BalanceAmount:      row.BalanceAmount,
		Notes:              row.Notes,
		Terms:              row.Terms,
		BaseModel:          row.BaseModel,
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `) VALUES (
			:id, :tenant_id, :customer_id, :invoice_number, :invoice_type, :invoice_status, :payment_status,
			:tags, :issue_date, :due_date, :sent_date, :viewed_date, :paid_date, :customer_snapshot,
			:business_snapshot, :bank_snapshot, :authorization_snapshot, :footer_snapshot, :line_items,
			:tax_type, :tax_rate, :subtotal, :total_tax_amount, :cgst, :sgst, :igst, :discount_type,
			:discount_value, :discount_amount, :transport_charges, :other_charges, :rounding_adjustment,
			:final_amount, :paid_amount, :balance_amount, :notes, :terms, :status, :created_at, :updated_at,
			:created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"invoice_type", inv.InvoiceType,
		"tenant_id", inv.TenantID,
	)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, toInvoiceRow(inv))
	return postgres.HandleError(err, "invoice", map[string]any{"invoice_number": inv.InvoiceNumber})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where("id = ?", id).where("status = ?", types.StatusPublished)

	q := r.client.Querier(ctx)
	query, args, err := b.build(invoiceColumns, "invoices")
	if err != nil {
		return nil, err
	}

	var row invoiceRow
	if err := q.GetContext(ctx, &row, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "invoice", map[string]any{"invoice_id": id})
	}
	return row.toDomain(), nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET
			customer_id = :customer_id,
			invoice_status = :invoice_status,
			payment_status = :payment_status,
			tags = :tags,
			issue_date = :issue_date,
			due_date = :due_date,
			sent_date = :sent_date,
			viewed_date = :viewed_date,
			paid_date = :paid_date,
			customer_snapshot = :customer_snapshot,
			business_snapshot = :business_snapshot,
			bank_snapshot = :bank_snapshot,
			authorization_snapshot = :authorization_snapshot,
			footer_snapshot = :footer_snapshot,
			line_items = :line_items,
			tax_type = :tax_type,
			tax_rate = :tax_rate,
			subtotal = :subtotal,
			total_tax_amount = :total_tax_amount,
			cgst = :cgst,
			sgst = :sgst,
			igst = :igst,
			discount_type = :discount_type,
			discount_value = :discount_value,
			discount_amount = :discount_amount,
			transport_charges = :transport_charges,
			other_charges = :other_charges,
			rounding_adjustment = :rounding_adjustment,
			final_amount = :final_amount,
			paid_amount = :paid_amount,
			balance_amount = :balance_amount,
			notes = :notes,
			terms = :terms,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`

	r.logger.Debugw("updating invoice",
		"invoice_id", inv.ID,
		"invoice_status", inv.InvoiceStatus,
		"payment_status", inv.PaymentStatus,
	)

	res, err := r.client.Querier(ctx).NamedExecContext(ctx, query, toInvoiceRow(inv))
	if err != nil {
		return postgres.HandleError(err, "invoice", map[string]any{"invoice_id": inv.ID})
	}
	if rowsAffected(res) == 0 {
		return notFound("invoice", inv.ID)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return err
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx,
		`DELETE FROM invoices WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return postgres.HandleError(err, "invoice", map[string]any{"invoice_id": id})
	}
	if rowsAffected(res) == 0 {
		return notFound("invoice", id)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	applyInvoiceFilter(b, filter)
	ApplySorting(b, filter, "issue_date", "due_date", "final_amount", "invoice_number")
	ApplyPagination(b, filter)

	return r.selectRows(ctx, b)
}

func (r *invoiceRepository) selectRows(ctx context.Context, b *selectBuilder) ([]*invoice.Invoice, error) {
	q := r.client.Querier(ctx)
	query, args, err := b.build(invoiceColumns, "invoices")
	if err != nil {
		return nil, err
	}

	var rows []*invoiceRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "invoice", nil)
	}

	invoices := make([]*invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, row.toDomain())
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return 0, err
	}
	applyInvoiceFilter(b, filter)

	q := r.client.Querier(ctx)
	query, args, err := b.buildCount("invoices")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return 0, postgres.HandleError(err, "invoice", nil)
	}
	return count, nil
}

func applyInvoiceFilter(b *selectBuilder, filter *types.InvoiceFilter) {
	if filter == nil {
		ApplyBaseFilters(b, nil)
		return
	}
	ApplyBaseFilters(b, filter)

	if len(filter.InvoiceIDs) > 0 {
		b.where("id = ANY(?)", postgresArray(filter.InvoiceIDs))
	}
	if filter.CustomerID != "" {
		b.where("customer_id = ?", filter.CustomerID)
	}
	if filter.InvoiceType != "" {
		b.where("invoice_type = ?", filter.InvoiceType)
	}
	if len(filter.InvoiceStatus) > 0 {
		statuses := make([]string, len(filter.InvoiceStatus))
		for i, s := range filter.InvoiceStatus {
			statuses[i] = string(s)
		}
		b.where("invoice_status = ANY(?)", postgresArray(statuses))
	}
	if len(filter.PaymentStatus) > 0 {
		statuses := make([]string, len(filter.PaymentStatus))
		for i, s := range filter.PaymentStatus {
			statuses[i] = string(s)
		}
		b.where("payment_status = ANY(?)", postgresArray(statuses))
	}
	if filter.Tag != "" {
		b.where("tags @> ?::jsonb", jsonb[[]string]{V: []string{filter.Tag}})
	}
	if filter.DueBefore != nil {
		b.where("due_date < ?", *filter.DueBefore)
	}
	if filter.OnlyOutstanding {
		b.where("balance_amount > 0").
			where("invoice_status NOT IN (?, ?)", types.InvoiceStatusCancelled, types.InvoiceStatusDraft)
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			b.where("issue_date >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			b.where("issue_date < ?", *filter.EndTime)
		}
	}
}

// ExistsByNumber is not tenant scoped, numbers are unique across tenants
func (r *invoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.client.Querier(ctx).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number = $1)`, number)
	if err != nil {
		return false, postgres.HandleError(err, "invoice", map[string]any{"invoice_number": number})
	}
	return exists, nil
}

func (r *invoiceRepository) ExistsForCustomer(ctx context.Context, customerID string) (bool, error) {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.client.Querier(ctx).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE tenant_id = $1 AND customer_id = $2 AND status = $3)`,
		tenantID, customerID, types.StatusPublished)
	if err != nil {
		return false, postgres.HandleError(err, "invoice", map[string]any{"customer_id": customerID})
	}
	return exists, nil
}

func (r *invoiceRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM invoices WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, postgres.HandleError(err, "invoice", map[string]any{"tenant_id": tenantID})
	}
	return rowsAffected(res), nil
}

func (r *invoiceRepository) ListOverdueCandidates(ctx context.Context, tenantID string, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	due := time.Now().UTC()
	if filter != nil && filter.DueBefore != nil {
		due = *filter.DueBefore
	}

	b := &selectBuilder{}
	b.where("tenant_id = ?", tenantID).
		where("status = ?", types.StatusPublished).
		where("due_date < ?", due).
		where("balance_amount > 0").
		where("payment_status IN (?, ?)", types.PaymentStatusPending, types.PaymentStatusPartial).
		where("invoice_status NOT IN (?, ?)", types.InvoiceStatusCancelled, types.InvoiceStatusDraft)
	b.orderBy = "due_date ASC, id ASC"
	ApplyPagination(b, filter)

	return r.selectRows(ctx, b)
}

// MarkOverdue re-checks the overdue predicates in the UPDATE itself so a
// payment committed after the candidate scan is never overwritten
func (r *invoiceRepository) MarkOverdue(ctx context.Context, id string, now time.Time) (bool, error) {
	tenantID, err := postgres.TenantID(ctx)
	if err != nil {
		return false, err
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE invoices SET payment_status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status = $6
			AND due_date < $7
			AND balance_amount > 0
			AND payment_status IN ($8, $9)
			AND invoice_status NOT IN ($10, $11)`,
		types.PaymentStatusOverdue, time.Now().UTC(), types.GetUserID(ctx),
		id, tenantID, types.StatusPublished,
		now,
		types.PaymentStatusPending, types.PaymentStatusPartial,
		types.InvoiceStatusCancelled, types.InvoiceStatusDraft)
	if err != nil {
		return false, postgres.HandleError(err, "invoice", map[string]any{"invoice_id": id})
	}
	return rowsAffected(res) > 0, nil
}

// Summary covers every tenant when tenantID is empty
func (r *invoiceRepository) Summary(ctx context.Context, tenantID string) (*invoice.Summary, error) {
	b := &selectBuilder{}
	b.where("status = ?", types.StatusPublished).
		where("invoice_status <> ?", types.InvoiceStatusCancelled)
	if tenantID != "" {
		b.where("tenant_id = ?", tenantID)
	}

	q := r.client.Querier(ctx)
	query, args, err := b.build(`
			COUNT(*) AS invoice_count,
			COUNT(*) FILTER (WHERE payment_status = 'overdue') AS overdue_count,
			COALESCE(SUM(final_amount), 0) AS total_billed,
			COALESCE(SUM(paid_amount), 0) AS total_collected,
			COALESCE(SUM(balance_amount), 0) AS total_outstanding`, "invoices")
	if err != nil {
		return nil, err
	}

	var summary invoice.Summary
	if err := q.GetContext(ctx, &summary, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "invoice", map[string]any{"tenant_id": tenantID})
	}
	return &summary, nil
}

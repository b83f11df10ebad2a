package postgres

import (
	"context"

	"github.com/flexprice/gstbill/internal/domain/payment"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/flexprice/gstbill/internal/types"
)

type paymentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewPaymentRepository(client postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{client: client, logger: logger}
}

const paymentColumns = `id, tenant_id, invoice_id, amount, currency, payment_method, payment_state, receipt_number,
	gateway_order_id, gateway_payment_id, reference, notes, paid_at, status, created_at, updated_at,
	created_by, updated_by`

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `) VALUES (
			:id, :tenant_id, :invoice_id, :amount, :currency, :payment_method, :payment_state, :receipt_number,
			:gateway_order_id, :gateway_payment_id, :reference, :notes, :paid_at, :status, :created_at,
			:updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating payment",
		"payment_id", p.ID,
		"invoice_id", p.InvoiceID,
		"amount", p.Amount,
		"payment_method", p.PaymentMethod,
	)

	_, err := r.client.Querier(ctx).NamedExecContext(ctx, query, p)
	return postgres.HandleError(err, "payment", map[string]any{"payment_id": p.ID})
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where("id = ?", id).where("status = ?", types.StatusPublished)
	return r.getOne(ctx, b, map[string]any{"payment_id": id})
}

func (r *paymentRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	b.where("gateway_order_id = ?", orderID).where("status = ?", types.StatusPublished)
	return r.getOne(ctx, b, map[string]any{"gateway_order_id": orderID})
}

func (r *paymentRepository) getOne(ctx context.Context, b *selectBuilder, details map[string]any) (*payment.Payment, error) {
	q := r.client.Querier(ctx)
	query, args, err := b.build(paymentColumns, "payments")
	if err != nil {
		return nil, err
	}

	var p payment.Payment
	if err := q.GetContext(ctx, &p, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "payment", details)
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
		UPDATE payments SET
			payment_state = :payment_state,
			gateway_payment_id = :gateway_payment_id,
			reference = :reference,
			notes = :notes,
			paid_at = :paid_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	res, err := r.client.Querier(ctx).NamedExecContext(ctx, query, p)
	if err != nil {
		return postgres.HandleError(err, "payment", map[string]any{"payment_id": p.ID})
	}
	if rowsAffected(res) == 0 {
		return notFound("payment", p.ID)
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	b, err := r.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	ApplySorting(b, filter, "amount", "paid_at")
	ApplyPagination(b, filter)

	q := r.client.Querier(ctx)
	query, args, err := b.build(paymentColumns, "payments")
	if err != nil {
		return nil, err
	}

	payments := make([]*payment.Payment, 0)
	if err := q.SelectContext(ctx, &payments, q.Rebind(query), args...); err != nil {
		return nil, postgres.HandleError(err, "payment", nil)
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	b, err := r.filtered(ctx, filter)
	if err != nil {
		return 0, err
	}

	q := r.client.Querier(ctx)
	query, args, err := b.buildCount("payments")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return 0, postgres.HandleError(err, "payment", nil)
	}
	return count, nil
}

func (r *paymentRepository) filtered(ctx context.Context, filter *types.PaymentFilter) (*selectBuilder, error) {
	b, err := newTenantQuery(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		ApplyBaseFilters(b, nil)
		return b, nil
	}
	ApplyBaseFilters(b, filter)

	if filter.InvoiceID != "" {
		b.where("invoice_id = ?", filter.InvoiceID)
	}
	if filter.GatewayOrderID != "" {
		b.where("gateway_order_id = ?", filter.GatewayOrderID)
	}
	if filter.PaymentState != "" {
		b.where("payment_state = ?", filter.PaymentState)
	}
	return b, nil
}

func (r *paymentRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM payments WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, postgres.HandleError(err, "payment", map[string]any{"tenant_id": tenantID})
	}
	return rowsAffected(res), nil
}

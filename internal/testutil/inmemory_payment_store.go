package testutil

import (
	"context"

	"github.com/flexprice/gstbill/internal/domain/payment"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func paymentNotFound(id string) error {
	return ierr.NewErrorf("payment %s not found", id).
		WithHint("Payment not found").
		WithReportableDetails(map[string]any{
			"payment_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	return s.InMemoryStore.Create(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, p.TenantID) {
		return nil, paymentNotFound(id)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) GetByGatewayOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	payments, err := s.List(ctx, &types.PaymentFilter{GatewayOrderID: orderID})
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, paymentNotFound(orderID)
	}
	return payments[0], nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, filter, paymentFilterFn, func(a, b *payment.Payment) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(payments, func(p *payment.Payment, _ int) *payment.Payment { return copyPayment(p) }), nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, paymentFilterFn)
}

func (s *InMemoryPaymentStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	return s.DeleteWhere(func(p *payment.Payment) bool { return p.TenantID == tenantID }), nil
}

func paymentFilterFn(ctx context.Context, p *payment.Payment, filter interface{}) bool {
	if !CheckTenantFilter(ctx, p.TenantID) {
		return false
	}
	f, ok := filter.(*types.PaymentFilter)
	if !ok || f == nil {
		return true
	}
	if f.InvoiceID != "" && p.InvoiceID != f.InvoiceID {
		return false
	}
	if f.GatewayOrderID != "" && lo.FromPtr(p.GatewayOrderID) != f.GatewayOrderID {
		return false
	}
	if f.PaymentState != "" && p.PaymentState != f.PaymentState {
		return false
	}
	return true
}

package testutil

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/domain/invoice"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	c.Tags = append([]string{}, inv.Tags...)
	c.LineItems = lo.Map(inv.LineItems, func(li *invoice.LineItem, _ int) *invoice.LineItem {
		cp := *li
		return &cp
	})
	return &c
}

func invoiceNotFound(id string) error {
	return ierr.NewErrorf("invoice %s not found", id).
		WithHint("Invoice not found").
		WithReportableDetails(map[string]any{
			"invoice_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if taken, _ := s.ExistsByNumber(ctx, inv.InvoiceNumber); taken {
		return ierr.NewErrorf("invoice number %s already exists", inv.InvoiceNumber).
			WithHint("An invoice with this number already exists").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, inv.TenantID) {
		return nil, invoiceNotFound(id)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if _, err := s.Get(ctx, inv.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice { return copyInvoice(inv) }), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

// ExistsByNumber looks across every tenant
func (s *InMemoryInvoiceStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	n, err := s.InMemoryStore.Count(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.InvoiceNumber == number
	})
	return n > 0, err
}

func (s *InMemoryInvoiceStore) ExistsForCustomer(ctx context.Context, customerID string) (bool, error) {
	n, err := s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return CheckTenantFilter(ctx, inv.TenantID) && inv.CustomerID == customerID
	})
	return n > 0, err
}

func (s *InMemoryInvoiceStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	return s.DeleteWhere(func(inv *invoice.Invoice) bool { return inv.TenantID == tenantID }), nil
}

func (s *InMemoryInvoiceStore) ListOverdueCandidates(ctx context.Context, tenantID string, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	due := time.Now().UTC()
	if filter != nil && filter.DueBefore != nil {
		due = *filter.DueBefore
	}
	invoices, err := s.InMemoryStore.List(ctx, filter, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.TenantID == tenantID && inv.IsOverdue(due)
	}, func(a, b *invoice.Invoice) bool {
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice { return copyInvoice(inv) }), nil
}

func (s *InMemoryInvoiceStore) MarkOverdue(ctx context.Context, id string, now time.Time) (bool, error) {
	changed, err := s.UpdateIf(ctx, id, func(inv *invoice.Invoice) (*invoice.Invoice, bool) {
		if !CheckTenantFilter(ctx, inv.TenantID) {
			return inv, false
		}
		c := copyInvoice(inv)
		if !c.MarkOverdue(now) {
			return inv, false
		}
		c.Touch(ctx)
		return c, true
	})
	if err != nil {
		return false, invoiceNotFound(id)
	}
	return changed, nil
}

// Summary excludes cancelled invoices; an empty tenantID covers every tenant
func (s *InMemoryInvoiceStore) Summary(ctx context.Context, tenantID string) (*invoice.Summary, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return (tenantID == "" || inv.TenantID == tenantID) && inv.InvoiceStatus != types.InvoiceStatusCancelled
	}, nil)
	if err != nil {
		return nil, err
	}

	summary := &invoice.Summary{
		TotalBilled:      decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, inv := range invoices {
		summary.InvoiceCount++
		if inv.PaymentStatus == types.PaymentStatusOverdue {
			summary.OverdueCount++
		}
		summary.TotalBilled = summary.TotalBilled.Add(inv.FinalAmount)
		summary.TotalCollected = summary.TotalCollected.Add(inv.PaidAmount)
		summary.TotalOutstanding = summary.TotalOutstanding.Add(inv.BalanceAmount)
	}
	return summary, nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	if !CheckTenantFilter(ctx, inv.TenantID) {
		return false
	}
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
		return false
	}
	if f.InvoiceType != "" && inv.InvoiceType != f.InvoiceType {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.InvoiceStatus) {
		return false
	}
	if len(f.PaymentStatus) > 0 && !lo.Contains(f.PaymentStatus, inv.PaymentStatus) {
		return false
	}
	if f.Tag != "" && !lo.Contains(inv.Tags, f.Tag) {
		return false
	}
	if f.DueBefore != nil && !inv.DueDate.Before(*f.DueBefore) {
		return false
	}
	if f.OnlyOutstanding && !inv.IsOutstanding() {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && inv.IssueDate.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && !inv.IssueDate.Before(*f.EndTime) {
			return false
		}
	}
	return true
}

func invoiceSortFn(a, b *invoice.Invoice) bool {
	if !a.IssueDate.Equal(b.IssueDate) {
		return a.IssueDate.After(b.IssueDate)
	}
	return a.InvoiceNumber > b.InvoiceNumber
}

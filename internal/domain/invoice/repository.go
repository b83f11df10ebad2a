package invoice

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create creates a new invoice. A duplicate invoice number is ErrAlreadyExists.
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice of the tenant in ctx by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update updates an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete hard deletes an invoice
	Delete(ctx context.Context, id string) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// ExistsByNumber checks the number across every tenant
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// ExistsForCustomer reports whether any invoice references the customer
	ExistsForCustomer(ctx context.Context, customerID string) (bool, error)

	// DeleteByTenant removes every invoice of a tenant, used by tenant deletion
	DeleteByTenant(ctx context.Context, tenantID string) (int64, error)

	// ListOverdueCandidates returns invoices of the tenant past due at the given
	// filter's DueBefore with a balance and a pending or partial payment status
	ListOverdueCandidates(ctx context.Context, tenantID string, filter *types.InvoiceFilter) ([]*Invoice, error)

	// MarkOverdue flips only the payment status of one invoice of the tenant in
	// ctx and only while it is still overdue at now. It reports whether the row changed.
	MarkOverdue(ctx context.Context, id string, now time.Time) (bool, error)

	// Summary aggregates invoice counts and totals, optionally for one tenant
	Summary(ctx context.Context, tenantID string) (*Summary, error)
}

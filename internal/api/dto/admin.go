package dto

import (
	"github.com/flexprice/gstbill/internal/domain/invoice"
)

// DashboardResponse is the platform wide overview shown to the admin
type DashboardResponse struct {
	TenantCount    int `json:"tenant_count"`
	LockedCount    int `json:"locked_count"`
	SuspendedCount int `json:"suspended_count"`
	*invoice.Summary
}

// DeleteTenantResponse counts the rows removed by a cascading tenant delete
type DeleteTenantResponse struct {
	TenantID string           `json:"tenant_id"`
	Deleted  map[string]int64 `json:"deleted"`
}

// OverdueScanResponse reports one run of the overdue scan. Skipped is set when
// another runner held the scan lock.
type OverdueScanResponse struct {
	Skipped        bool `json:"skipped"`
	TenantsScanned int  `json:"tenants_scanned"`
	InvoicesMarked int  `json:"invoices_marked"`
	Failures       int  `json:"failures"`
}

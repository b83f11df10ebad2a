package sequence

import (
	"context"
	"fmt"
)

// Counter is an atomic increment-and-fetch sequence. Concurrent callers on the
// same key always receive distinct values.
type Counter interface {
	// Next increments the counter stored under key and returns the new value.
	// The first call for a key returns 1.
	Next(ctx context.Context, key string) (int64, error)
	// DeleteByTenant drops every counter owned by the tenant
	DeleteByTenant(ctx context.Context, tenantID string) error
}

// Keys are always prefixed by kind and tenant so DeleteByTenant can find them

func InvoiceKey(tenantID, invoiceType string, year int) string {
	return fmt.Sprintf("invoice:%s:%s:%d", tenantID, invoiceType, year)
}

func ItemCodeKey(tenantID string) string {
	return fmt.Sprintf("item:%s", tenantID)
}

func PartNumberKey(tenantID string) string {
	return fmt.Sprintf("part:%s", tenantID)
}

// TenantKeyPatterns are glob patterns matching every key of the tenant
func TenantKeyPatterns(tenantID string) []string {
	return []string{
		fmt.Sprintf("invoice:%s:*", tenantID),
		ItemCodeKey(tenantID),
		PartNumberKey(tenantID),
	}
}

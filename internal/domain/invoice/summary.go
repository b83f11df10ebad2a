package invoice

import "github.com/shopspring/decimal"

// Summary is an aggregate over a set of invoices
type Summary struct {
	InvoiceCount     int             `json:"invoice_count" db:"invoice_count"`
	OverdueCount     int             `json:"overdue_count" db:"overdue_count"`
	TotalBilled      decimal.Decimal `json:"total_billed" db:"total_billed" swaggertype:"string"`
	TotalCollected   decimal.Decimal `json:"total_collected" db:"total_collected" swaggertype:"string"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding" db:"total_outstanding" swaggertype:"string"`
}

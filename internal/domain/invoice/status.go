package invoice

import (
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// transitions lists the status changes UpdateInvoiceStatus may apply.
// paid to pending is only reachable through MarkAsPending.
var transitions = map[types.InvoiceStatus][]types.InvoiceStatus{
	types.InvoiceStatusDraft:   {types.InvoiceStatusPending, types.InvoiceStatusCancelled},
	types.InvoiceStatusPending: {types.InvoiceStatusPaid, types.InvoiceStatusCancelled, types.InvoiceStatusCompleted},
	types.InvoiceStatusPaid:    {types.InvoiceStatusCompleted},
}

// CanTransition reports whether the state machine allows from -> to
func CanTransition(from, to types.InvoiceStatus) bool {
	return lo.Contains(transitions[from], to)
}

// TransitionTo moves the invoice to status or returns ErrInvalidTransition
func (i *Invoice) TransitionTo(status types.InvoiceStatus, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if !CanTransition(i.InvoiceStatus, status) {
		return ErrInvalidTransition(string(i.InvoiceStatus), string(status))
	}

	// paid is reached by recording payments; the status route only confirms it
	if status == types.InvoiceStatusPaid && i.BalanceAmount.IsPositive() {
		return ierr.NewErrorf("invoice %s has an outstanding balance of %s", i.ID, i.BalanceAmount.StringFixed(2)).
			WithHint("Record a payment for the outstanding balance instead").
			WithReportableDetails(map[string]any{
				"invoice_id": i.ID,
				"balance":    i.BalanceAmount.StringFixed(2),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	i.InvoiceStatus = status
	switch status {
	case types.InvoiceStatusPaid:
		if i.PaidDate == nil {
			i.PaidDate = &now
		}
		i.RefreshPaymentStatus()
	case types.InvoiceStatusPending:
		if i.SentDate == nil {
			i.SentDate = &now
		}
	case types.InvoiceStatusCancelled:
		i.PaymentStatus = types.PaymentStatusCancelled
	}
	return nil
}

// RecordPayment adds amount to the paid amount and rederives the balance and
// payment status. A fully paid pending invoice becomes paid.
func (i *Invoice) RecordPayment(amount decimal.Decimal, at time.Time) error {
	if i.InvoiceStatus == types.InvoiceStatusCancelled || i.InvoiceStatus == types.InvoiceStatusDraft {
		return ErrInvalidTransition(string(i.InvoiceStatus), "payment")
	}
	if !amount.IsPositive() {
		return fieldError("amount", "must be greater than zero")
	}

	paid := types.Round2(i.PaidAmount.Add(amount))
	balance := types.Round2(i.FinalAmount.Sub(paid))
	if !types.IsFiniteAmount(paid) || !types.IsFiniteAmount(balance) {
		return fieldError("amount", "exceeds the supported range")
	}

	i.PaidAmount = paid
	i.BalanceAmount = balance
	i.RefreshPaymentStatus()
	if i.PaymentStatus == types.PaymentStatusPaid {
		i.PaidDate = &at
		if i.InvoiceStatus == types.InvoiceStatusPending {
			i.InvoiceStatus = types.InvoiceStatusPaid
		}
	}
	return nil
}

// MarkAsPending reverses recorded payments: nothing paid, everything owed
func (i *Invoice) MarkAsPending() error {
	if i.InvoiceStatus != types.InvoiceStatusPaid && i.InvoiceStatus != types.InvoiceStatusPending {
		return ErrInvalidTransition(string(i.InvoiceStatus), string(types.InvoiceStatusPending))
	}
	i.InvoiceStatus = types.InvoiceStatusPending
	i.PaidAmount = decimal.Zero
	i.BalanceAmount = i.FinalAmount
	i.PaidDate = nil
	i.PaymentStatus = DerivePaymentStatus(i.PaidAmount, i.BalanceAmount)
	return nil
}

// SyncStatus realigns the invoice status with the amounts after a recompute.
// A paid invoice whose balance reappears goes back to pending; a pending one
// that is now covered by its payments becomes paid.
func (i *Invoice) SyncStatus(now time.Time) {
	switch {
	case i.InvoiceStatus == types.InvoiceStatusPaid && i.BalanceAmount.IsPositive():
		i.InvoiceStatus = types.InvoiceStatusPending
		i.PaidDate = nil
	case i.InvoiceStatus == types.InvoiceStatusPending && i.PaidAmount.IsPositive() && !i.BalanceAmount.IsPositive():
		i.InvoiceStatus = types.InvoiceStatusPaid
		if i.PaidDate == nil {
			i.PaidDate = &now
		}
	}
}

// MarkOverdue is used by the overdue scan only
func (i *Invoice) MarkOverdue(now time.Time) bool {
	if !i.IsOverdue(now) {
		return false
	}
	i.PaymentStatus = types.PaymentStatusOverdue
	return true
}

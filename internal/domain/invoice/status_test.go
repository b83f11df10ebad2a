package invoice

import (
	"testing"
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]types.InvoiceStatus]bool{
		{types.InvoiceStatusDraft, types.InvoiceStatusPending}:     true,
		{types.InvoiceStatusDraft, types.InvoiceStatusCancelled}:   true,
		{types.InvoiceStatusPending, types.InvoiceStatusPaid}:      true,
		{types.InvoiceStatusPending, types.InvoiceStatusCancelled}: true,
		{types.InvoiceStatusPending, types.InvoiceStatusCompleted}: true,
		{types.InvoiceStatusPaid, types.InvoiceStatusCompleted}:    true,
	}
	all := []types.InvoiceStatus{
		types.InvoiceStatusDraft,
		types.InvoiceStatusPending,
		types.InvoiceStatusPaid,
		types.InvoiceStatusCancelled,
		types.InvoiceStatusCompleted,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]types.InvoiceStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionTo(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("paid_cannot_go_back_to_pending", func(t *testing.T) {
		inv := &Invoice{InvoiceStatus: types.InvoiceStatusPaid}
		err := inv.TransitionTo(types.InvoiceStatusPending, now)
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
		assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
	})

	t.Run("pending_sets_sent_date", func(t *testing.T) {
		inv := &Invoice{InvoiceStatus: types.InvoiceStatusDraft}
		require.NoError(t, inv.TransitionTo(types.InvoiceStatusPending, now))
		require.NotNil(t, inv.SentDate)
		assert.Equal(t, now, *inv.SentDate)
	})

	t.Run("cancel_sets_payment_status", func(t *testing.T) {
		inv := &Invoice{InvoiceStatus: types.InvoiceStatusPending, PaymentStatus: types.PaymentStatusPartial}
		require.NoError(t, inv.TransitionTo(types.InvoiceStatusCancelled, now))
		assert.Equal(t, types.PaymentStatusCancelled, inv.PaymentStatus)
	})

	t.Run("paid_requires_settled_balance", func(t *testing.T) {
		inv := &Invoice{
			InvoiceStatus: types.InvoiceStatusPending,
			PaymentStatus: types.PaymentStatusPending,
			FinalAmount:   decimal.NewFromInt(354),
			BalanceAmount: decimal.NewFromInt(354),
		}
		err := inv.TransitionTo(types.InvoiceStatusPaid, now)
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
		assert.Equal(t, types.InvoiceStatusPending, inv.InvoiceStatus)
		assert.Equal(t, types.PaymentStatusPending, inv.PaymentStatus)
		assert.Nil(t, inv.PaidDate)
	})

	t.Run("paid_with_nothing_owed", func(t *testing.T) {
		inv := &Invoice{
			InvoiceStatus: types.InvoiceStatusPending,
			PaymentStatus: types.PaymentStatusPending,
			FinalAmount:   decimal.Zero,
			BalanceAmount: decimal.Zero,
		}
		require.NoError(t, inv.TransitionTo(types.InvoiceStatusPaid, now))
		assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
		assert.Equal(t, types.PaymentStatusPaid, inv.PaymentStatus)
		require.NotNil(t, inv.PaidDate)
		assert.Equal(t, now, *inv.PaidDate)
	})

	t.Run("unknown_status", func(t *testing.T) {
		inv := &Invoice{InvoiceStatus: types.InvoiceStatusDraft}
		assert.True(t, ierr.IsValidation(inv.TransitionTo(types.InvoiceStatus("archived"), now)))
	})
}

func TestRecordPaymentAndMarkAsPending(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	inv := &Invoice{
		InvoiceStatus: types.InvoiceStatusPending,
		PaymentStatus: types.PaymentStatusPending,
		FinalAmount:   decimal.NewFromInt(354),
		BalanceAmount: decimal.NewFromInt(354),
		PaidAmount:    decimal.Zero,
	}

	require.NoError(t, inv.RecordPayment(decimal.NewFromInt(100), now))
	assert.Equal(t, types.PaymentStatusPartial, inv.PaymentStatus)
	assert.True(t, decimal.NewFromInt(254).Equal(inv.BalanceAmount))
	assert.Nil(t, inv.PaidDate)

	require.NoError(t, inv.RecordPayment(decimal.NewFromInt(254), now))
	assert.Equal(t, types.PaymentStatusPaid, inv.PaymentStatus)
	assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
	assert.True(t, inv.BalanceAmount.IsZero())
	require.NotNil(t, inv.PaidDate)

	require.NoError(t, inv.MarkAsPending())
	assert.Equal(t, types.InvoiceStatusPending, inv.InvoiceStatus)
	assert.Equal(t, types.PaymentStatusPending, inv.PaymentStatus)
	assert.True(t, inv.PaidAmount.IsZero())
	assert.True(t, decimal.NewFromInt(354).Equal(inv.BalanceAmount))
	assert.Nil(t, inv.PaidDate)

	assert.True(t, ierr.IsValidation(inv.RecordPayment(decimal.NewFromInt(-1), now)))

	cancelled := &Invoice{InvoiceStatus: types.InvoiceStatusCancelled}
	assert.True(t, ierr.IsInvalidOperation(cancelled.RecordPayment(decimal.NewFromInt(1), now)))
	assert.True(t, ierr.IsInvalidOperation(cancelled.MarkAsPending()))
}

func TestSyncStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		inv         Invoice
		wantStatus  types.InvoiceStatus
		wantPaidSet bool
	}{
		{
			name: "paid_with_new_balance_demotes",
			inv: Invoice{
				InvoiceStatus: types.InvoiceStatusPaid,
				PaidAmount:    decimal.NewFromInt(354),
				BalanceAmount: decimal.NewFromInt(46),
				PaidDate:      &now,
			},
			wantStatus: types.InvoiceStatusPending,
		},
		{
			name: "pending_now_covered_promotes",
			inv: Invoice{
				InvoiceStatus: types.InvoiceStatusPending,
				PaidAmount:    decimal.NewFromInt(354),
				BalanceAmount: decimal.NewFromInt(-46),
			},
			wantStatus:  types.InvoiceStatusPaid,
			wantPaidSet: true,
		},
		{
			name: "pending_partial_unchanged",
			inv: Invoice{
				InvoiceStatus: types.InvoiceStatusPending,
				PaidAmount:    decimal.NewFromInt(100),
				BalanceAmount: decimal.NewFromInt(254),
			},
			wantStatus: types.InvoiceStatusPending,
		},
		{
			name: "draft_unchanged",
			inv: Invoice{
				InvoiceStatus: types.InvoiceStatusDraft,
				BalanceAmount: decimal.NewFromInt(254),
			},
			wantStatus: types.InvoiceStatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.inv
			inv.SyncStatus(now)
			assert.Equal(t, tt.wantStatus, inv.InvoiceStatus)
			assert.Equal(t, tt.wantPaidSet, inv.PaidDate != nil)
		})
	}
}

func TestMarkOverdue(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	base := func() *Invoice {
		return &Invoice{
			InvoiceStatus: types.InvoiceStatusPending,
			PaymentStatus: types.PaymentStatusPartial,
			DueDate:       now.AddDate(0, 0, -1),
			BalanceAmount: decimal.NewFromInt(10),
		}
	}

	inv := base()
	assert.True(t, inv.MarkOverdue(now))
	assert.Equal(t, types.PaymentStatusOverdue, inv.PaymentStatus)
	assert.False(t, inv.MarkOverdue(now), "already overdue")

	notDue := base()
	notDue.DueDate = now.AddDate(0, 0, 1)
	assert.False(t, notDue.MarkOverdue(now))

	settled := base()
	settled.BalanceAmount = decimal.Zero
	assert.False(t, settled.MarkOverdue(now))

	draft := base()
	draft.InvoiceStatus = types.InvoiceStatusDraft
	assert.False(t, draft.MarkOverdue(now))
}

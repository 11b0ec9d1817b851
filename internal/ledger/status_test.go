package ledger

import (
	"testing"
	"time"

	"estate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionStatus(t *testing.T) {
	now := time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)
	today := now.Truncate(24 * time.Hour)
	paid := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	pendingEntry := models.LedgerEntry{
		ID:        1,
		SaleID:    1,
		EntryType: models.EntryTypeInstallment,
		Amount:    50000,
		Status:    models.EntryStatusPending,
	}
	paidEntry := models.LedgerEntry{
		ID:         1,
		SaleID:     1,
		EntryType:  models.EntryTypeInstallment,
		Amount:     50000,
		PaidAmount: 50000,
		PaidDate:   &paid,
		Status:     models.EntryStatusPaid,
	}

	t.Run("marking paid settles the full amount as of today", func(t *testing.T) {
		got, err := TransitionStatus(pendingEntry, models.EntryStatusPaid, now)
		require.NoError(t, err)
		assert.Equal(t, models.EntryStatusPaid, got.Status)
		assert.Equal(t, 50000.0, got.PaidAmount)
		require.NotNil(t, got.PaidDate)
		assert.Equal(t, today, *got.PaidDate)
	})

	t.Run("reverting paid to pending clears paid date and paid amount", func(t *testing.T) {
		got, err := TransitionStatus(paidEntry, models.EntryStatusPending, now)
		require.NoError(t, err)
		assert.Equal(t, models.EntryStatusPending, got.Status)
		assert.Nil(t, got.PaidDate)
		assert.Equal(t, 0.0, got.PaidAmount)
	})

	t.Run("pending to overdue is allowed", func(t *testing.T) {
		got, err := TransitionStatus(pendingEntry, models.EntryStatusOverdue, now)
		require.NoError(t, err)
		assert.Equal(t, models.EntryStatusOverdue, got.Status)
		assert.Nil(t, got.PaidDate)
		assert.Equal(t, 0.0, got.PaidAmount)
	})

	t.Run("paid to overdue is rejected without mutation", func(t *testing.T) {
		got, err := TransitionStatus(paidEntry, models.EntryStatusOverdue, now)
		require.ErrorIs(t, err, ErrPaidToOverdue)
		assert.Equal(t, paidEntry, got)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := TransitionStatus(pendingEntry, models.EntryStatus("settled"), now)
		require.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("overdue back to pending stays cleared", func(t *testing.T) {
		overdue := pendingEntry
		overdue.Status = models.EntryStatusOverdue

		got, err := TransitionStatus(overdue, models.EntryStatusPending, now)
		require.NoError(t, err)
		assert.Equal(t, models.EntryStatusPending, got.Status)
		assert.Nil(t, got.PaidDate)
	})
}

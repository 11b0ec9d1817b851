package ledger

import (
	"testing"
	"time"

	"estate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func installment(id uint, dueDay int, amount float64, status models.EntryStatus) models.LedgerEntry {
	return models.LedgerEntry{
		ID:        id,
		SaleID:    1,
		DueDate:   day(dueDay),
		EntryType: models.EntryTypeInstallment,
		Amount:    amount,
		Status:    status,
	}
}

func downpayment(id uint, dueDay int, amount float64, status models.EntryStatus) models.LedgerEntry {
	return models.LedgerEntry{
		ID:        id,
		SaleID:    1,
		DueDate:   day(dueDay),
		EntryType: models.EntryTypeDownpayment,
		Amount:    amount,
		Status:    status,
	}
}

func totalAfter(entries []models.LedgerEntry, changes []Change, removedID uint) float64 {
	amounts := make(map[uint]float64, len(entries))
	for _, e := range entries {
		amounts[e.ID] = e.Amount
	}
	for _, ch := range changes {
		amounts[ch.EntryID] = ch.NewAmount
	}
	delete(amounts, removedID)
	total := 0.0
	for _, a := range amounts {
		total += a
	}
	return total
}

func TestPlanAmountEdit(t *testing.T) {
	tests := []struct {
		name        string
		entries     []models.LedgerEntry
		entryID     uint
		original    float64
		newAmount   float64
		wantChanges []Change
		wantErr     error
	}{
		{
			name: "decrease shifts difference to next installment",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
				installment(2, 60, 50000, models.EntryStatusPending),
			},
			entryID:     1,
			original:    50000,
			newAmount:   30000,
			wantChanges: []Change{{EntryID: 2, NewAmount: 70000}},
		},
		{
			name: "increase beyond next installment is rejected",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
				installment(2, 60, 20000, models.EntryStatusPending),
			},
			entryID:   1,
			original:  50000,
			newAmount: 80000,
			wantErr:   ErrNextInstallmentNegative,
		},
		{
			name: "increase consuming next installment exactly is allowed",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
				installment(2, 60, 20000, models.EntryStatusPending),
			},
			entryID:     1,
			original:    50000,
			newAmount:   70000,
			wantChanges: []Change{{EntryID: 2, NewAmount: 0}},
		},
		{
			name: "increase with no next installment is rejected",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
			},
			entryID:   1,
			original:  50000,
			newAmount: 60000,
			wantErr:   ErrNoNextInstallment,
		},
		{
			name: "decrease with no next installment proceeds without compensation",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
			},
			entryID:     1,
			original:    50000,
			newAmount:   30000,
			wantChanges: nil,
		},
		{
			name: "paid installments are skipped when finding the next one",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
				installment(2, 60, 50000, models.EntryStatusPaid),
				installment(3, 90, 50000, models.EntryStatusPending),
			},
			entryID:     1,
			original:    50000,
			newAmount:   40000,
			wantChanges: []Change{{EntryID: 3, NewAmount: 60000}},
		},
		{
			name: "editing a downpayment shifts onto the earliest pending installment",
			entries: []models.LedgerEntry{
				downpayment(1, 0, 100000, models.EntryStatusPending),
				installment(2, 30, 50000, models.EntryStatusPending),
				installment(3, 60, 50000, models.EntryStatusPending),
			},
			entryID:     1,
			original:    100000,
			newAmount:   80000,
			wantChanges: []Change{{EntryID: 2, NewAmount: 70000}},
		},
		{
			name: "zero new amount is rejected",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
				installment(2, 60, 50000, models.EntryStatusPending),
			},
			entryID:   1,
			original:  50000,
			newAmount: 0,
			wantErr:   ErrAmountNotPositive,
		},
		{
			name: "unchanged amount plans nothing",
			entries: []models.LedgerEntry{
				installment(1, 30, 50000, models.EntryStatusPending),
				installment(2, 60, 50000, models.EntryStatusPending),
			},
			entryID:     1,
			original:    50000,
			newAmount:   50000,
			wantChanges: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, err := PlanAmountEdit(tt.entries, tt.entryID, tt.original, tt.newAmount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, changes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanges, changes)
		})
	}
}

func TestPlanAmountEditPreservesSaleTotal(t *testing.T) {
	entries := []models.LedgerEntry{
		installment(1, 30, 50000, models.EntryStatusPending),
		installment(2, 60, 50000, models.EntryStatusPending),
		installment(3, 90, 50000, models.EntryStatusPending),
	}

	changes, err := PlanAmountEdit(entries, 1, 50000, 35000)
	require.NoError(t, err)

	// The edited entry's new amount plus its siblings must still sum to 150000.
	changes = append(changes, Change{EntryID: 1, NewAmount: 35000})
	assert.InDelta(t, 150000, totalAfter(entries, changes, 0), 0.001)
}

func TestPlanOverpayment(t *testing.T) {
	t.Run("spreads evenly over remaining pending installments", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 50000, models.EntryStatusPending),
			installment(2, 60, 40000, models.EntryStatusPending),
			installment(3, 90, 40000, models.EntryStatusPending),
		}

		changes := PlanOverpayment(entries, 1, 20000)
		require.Len(t, changes, 2)
		assert.Equal(t, []Change{
			{EntryID: 2, NewAmount: 30000},
			{EntryID: 3, NewAmount: 30000},
		}, changes)
	})

	t.Run("individual reductions floor at zero", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 50000, models.EntryStatusPending),
			installment(2, 60, 3000, models.EntryStatusPending),
			installment(3, 90, 40000, models.EntryStatusPending),
		}

		changes := PlanOverpayment(entries, 1, 20000)
		require.Len(t, changes, 2)
		assert.Equal(t, 0.0, changes[0].NewAmount)
		assert.Equal(t, 30000.0, changes[1].NewAmount)
	})

	t.Run("no pending installments absorbs the overpayment", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 50000, models.EntryStatusPending),
			installment(2, 60, 40000, models.EntryStatusPaid),
		}
		assert.Nil(t, PlanOverpayment(entries, 1, 20000))
	})

	t.Run("zero overpayment plans nothing", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 50000, models.EntryStatusPending),
			installment(2, 60, 40000, models.EntryStatusPending),
		}
		assert.Nil(t, PlanOverpayment(entries, 1, 0))
	})
}

func TestPlanDelete(t *testing.T) {
	t.Run("deleting one of three equal installments spreads over the rest", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 100000, models.EntryStatusPending),
			installment(2, 60, 100000, models.EntryStatusPending),
			installment(3, 90, 100000, models.EntryStatusPending),
		}

		changes := PlanDelete(entries, 2)
		require.Len(t, changes, 2)
		assert.Equal(t, []Change{
			{EntryID: 1, NewAmount: 150000},
			{EntryID: 3, NewAmount: 150000},
		}, changes)
		assert.InDelta(t, 300000, totalAfter(entries, changes, 2), 0.001)
	})

	t.Run("paid installments take no share", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 100000, models.EntryStatusPaid),
			installment(2, 60, 100000, models.EntryStatusPending),
			installment(3, 90, 100000, models.EntryStatusPending),
		}

		changes := PlanDelete(entries, 2)
		require.Len(t, changes, 1)
		assert.Equal(t, Change{EntryID: 3, NewAmount: 200000}, changes[0])
	})

	t.Run("deleting the last pending installment discards the amount", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 100000, models.EntryStatusPaid),
			installment(2, 60, 100000, models.EntryStatusPending),
		}
		assert.Nil(t, PlanDelete(entries, 2))
	})

	t.Run("deleting a downpayment never redistributes", func(t *testing.T) {
		entries := []models.LedgerEntry{
			downpayment(1, 0, 100000, models.EntryStatusPending),
			installment(2, 30, 100000, models.EntryStatusPending),
		}
		assert.Nil(t, PlanDelete(entries, 1))
	})
}

func TestPlanAdjustedPayment(t *testing.T) {
	t.Run("reduces each pending installment by an equal share", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 100000, models.EntryStatusPending),
			installment(2, 60, 100000, models.EntryStatusPending),
		}

		changes := PlanAdjustedPayment(entries, 40000)
		require.Len(t, changes, 2)
		assert.Equal(t, []Change{
			{EntryID: 1, NewAmount: 80000},
			{EntryID: 2, NewAmount: 80000},
		}, changes)
	})

	t.Run("shares floor at zero", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 10000, models.EntryStatusPending),
			installment(2, 60, 100000, models.EntryStatusPending),
		}

		changes := PlanAdjustedPayment(entries, 40000)
		require.Len(t, changes, 2)
		assert.Equal(t, 0.0, changes[0].NewAmount)
		assert.Equal(t, 80000.0, changes[1].NewAmount)
	})

	t.Run("no pending installments plans nothing", func(t *testing.T) {
		entries := []models.LedgerEntry{
			installment(1, 30, 100000, models.EntryStatusPaid),
		}
		assert.Nil(t, PlanAdjustedPayment(entries, 40000))
	})
}

func TestPendingInstallmentOrdering(t *testing.T) {
	// Same due date resolves by id, matching creation order.
	entries := []models.LedgerEntry{
		installment(5, 30, 100, models.EntryStatusPending),
		installment(2, 30, 200, models.EntryStatusPending),
		installment(9, 10, 300, models.EntryStatusPending),
	}

	ordered := pendingInstallments(entries, 0)
	require.Len(t, ordered, 3)
	assert.Equal(t, uint(9), ordered[0].ID)
	assert.Equal(t, uint(2), ordered[1].ID)
	assert.Equal(t, uint(5), ordered[2].ID)
}

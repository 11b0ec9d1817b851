package sales

import (
	"testing"
	"time"

	"estate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	dpDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	possDate := time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("full plan", func(t *testing.T) {
		entries := GenerateSchedule(PlanTerms{
			DownpaymentAmount:  500000,
			DownpaymentDueDate: &dpDate,
			MonthlyInstallment: 100000,
			InstallmentMonths:  12,
			PossessionAmount:   300000,
			PossessionDueDate:  &possDate,
		}, now)

		require.Len(t, entries, 14)

		assert.Equal(t, models.EntryTypeDownpayment, entries[0].EntryType)
		assert.Equal(t, dpDate, entries[0].DueDate)
		assert.Equal(t, "Down Payment", entries[0].Description)

		// Installments run monthly from the downpayment date.
		assert.Equal(t, models.EntryTypeInstallment, entries[1].EntryType)
		assert.Equal(t, dpDate.AddDate(0, 1, 0), entries[1].DueDate)
		assert.Equal(t, "Monthly Installment 1", entries[1].Description)
		assert.Equal(t, dpDate.AddDate(0, 12, 0), entries[12].DueDate)

		// Possession lands last, same day as the final installment sorts stable.
		assert.Equal(t, models.EntryTypePossession, entries[13].EntryType)

		for _, e := range entries {
			assert.Equal(t, models.EntryStatusPending, e.Status)
		}

		assert.InDelta(t, 2000000, ScheduleTotal(entries), 0.001)
	})

	t.Run("installments only start from now", func(t *testing.T) {
		entries := GenerateSchedule(PlanTerms{
			MonthlyInstallment: 50000,
			InstallmentMonths:  3,
		}, now)

		require.Len(t, entries, 3)
		assert.Equal(t, now.AddDate(0, 1, 0), entries[0].DueDate)
		assert.Equal(t, now.AddDate(0, 3, 0), entries[2].DueDate)
	})

	t.Run("downpayment without due date is skipped", func(t *testing.T) {
		entries := GenerateSchedule(PlanTerms{
			DownpaymentAmount:  500000,
			MonthlyInstallment: 50000,
			InstallmentMonths:  2,
		}, now)

		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, models.EntryTypeInstallment, e.EntryType)
		}
	})

	t.Run("entries come back ordered by due date", func(t *testing.T) {
		earlyPoss := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
		entries := GenerateSchedule(PlanTerms{
			DownpaymentAmount:  100000,
			DownpaymentDueDate: &dpDate,
			MonthlyInstallment: 50000,
			InstallmentMonths:  3,
			PossessionAmount:   200000,
			PossessionDueDate:  &earlyPoss,
		}, now)

		require.Len(t, entries, 5)
		for i := 1; i < len(entries); i++ {
			assert.False(t, entries[i].DueDate.Before(entries[i-1].DueDate))
		}
		// Possession due mid-schedule sorts between installments.
		assert.Equal(t, models.EntryTypePossession, entries[1].EntryType)
	})

	t.Run("empty terms produce no entries", func(t *testing.T) {
		assert.Empty(t, GenerateSchedule(PlanTerms{}, now))
	})
}

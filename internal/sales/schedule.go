package sales

import (
	"fmt"
	"sort"
	"time"

	"estate-backend/internal/models"
)

// PlanTerms are the inputs the payment schedule is generated from.
type PlanTerms struct {
	DownpaymentAmount  float64
	DownpaymentDueDate *time.Time
	MonthlyInstallment float64
	InstallmentMonths  int
	PossessionAmount   float64
	PossessionDueDate  *time.Time
}

// GenerateSchedule expands plan terms into ledger entries: an optional
// downpayment, monthly installments starting one month after the downpayment
// date (today when no downpayment is set), and an optional possession
// payment, ordered by due date.
func GenerateSchedule(terms PlanTerms, now time.Time) []models.LedgerEntry {
	entries := make([]models.LedgerEntry, 0, terms.InstallmentMonths+2)

	if terms.DownpaymentAmount > 0 && terms.DownpaymentDueDate != nil {
		entries = append(entries, models.LedgerEntry{
			DueDate:     *terms.DownpaymentDueDate,
			EntryType:   models.EntryTypeDownpayment,
			Amount:      terms.DownpaymentAmount,
			Status:      models.EntryStatusPending,
			Description: "Down Payment",
		})
	}

	if terms.MonthlyInstallment > 0 && terms.InstallmentMonths > 0 {
		start := now
		if terms.DownpaymentDueDate != nil {
			start = *terms.DownpaymentDueDate
		}
		for i := 1; i <= terms.InstallmentMonths; i++ {
			entries = append(entries, models.LedgerEntry{
				DueDate:     start.AddDate(0, i, 0),
				EntryType:   models.EntryTypeInstallment,
				Amount:      terms.MonthlyInstallment,
				Status:      models.EntryStatusPending,
				Description: fmt.Sprintf("Monthly Installment %d", i),
			})
		}
	}

	if terms.PossessionAmount > 0 && terms.PossessionDueDate != nil {
		entries = append(entries, models.LedgerEntry{
			DueDate:     *terms.PossessionDueDate,
			EntryType:   models.EntryTypePossession,
			Amount:      terms.PossessionAmount,
			Status:      models.EntryStatusPending,
			Description: "Possession Payment",
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.Before(entries[j].DueDate)
	})

	return entries
}

// ScheduleTotal sums the generated obligations, for checking against the
// unit price when a sale is created.
func ScheduleTotal(entries []models.LedgerEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

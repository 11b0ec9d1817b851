package commission

import (
	"testing"
	"time"

	"estate-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func entry(entryType models.EntryType, status models.EntryStatus) models.LedgerEntry {
	return models.LedgerEntry{
		DueDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EntryType: entryType,
		Amount:    100000,
		Status:    status,
	}
}

func TestCanRelease(t *testing.T) {
	tests := []struct {
		name    string
		tranche string
		entries []models.LedgerEntry
		want    bool
	}{
		{
			name:    "70 releases once downpayment is paid",
			tranche: "70",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeDownpayment, models.EntryStatusPaid),
				entry(models.EntryTypeInstallment, models.EntryStatusPending),
			},
			want: true,
		},
		{
			name:    "70 blocked while downpayment is pending",
			tranche: "70",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeDownpayment, models.EntryStatusPending),
				entry(models.EntryTypeInstallment, models.EntryStatusPaid),
			},
			want: false,
		},
		{
			name:    "70 releases when the plan has no downpayment",
			tranche: "70",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeInstallment, models.EntryStatusPending),
			},
			want: true,
		},
		{
			name:    "30 releases once every installment is paid",
			tranche: "30",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeDownpayment, models.EntryStatusPaid),
				entry(models.EntryTypeInstallment, models.EntryStatusPaid),
				entry(models.EntryTypeInstallment, models.EntryStatusPaid),
			},
			want: true,
		},
		{
			name:    "30 blocked while an installment is overdue",
			tranche: "30",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeInstallment, models.EntryStatusPaid),
				entry(models.EntryTypeInstallment, models.EntryStatusOverdue),
			},
			want: false,
		},
		{
			name:    "30 ignores possession entries",
			tranche: "30",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeInstallment, models.EntryStatusPaid),
				entry(models.EntryTypePossession, models.EntryStatusPending),
			},
			want: true,
		},
		{
			name:    "unknown tranche never releases",
			tranche: "50",
			entries: []models.LedgerEntry{
				entry(models.EntryTypeInstallment, models.EntryStatusPaid),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRelease(tt.tranche, tt.entries))
		})
	}
}

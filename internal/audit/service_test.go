package audit

import (
	"encoding/json"
	"testing"
	"time"

	"estate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Undo decodes BeforeData/AfterData straight into the model structs, so the
// handlers must snapshot the models themselves. These round trips pin the
// contract: whatever WriteLog marshals, restore/recreate must read back whole.

func TestLedgerEntrySnapshotRoundTrip(t *testing.T) {
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	paid := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	snapshot := models.LedgerEntry{
		ID:          7,
		SaleID:      3,
		DueDate:     due,
		EntryType:   models.EntryTypeInstallment,
		Amount:      50000,
		PaidAmount:  50000,
		PaidDate:    &paid,
		Status:      models.EntryStatusPaid,
		Description: "Monthly Installment 2",
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var restored models.LedgerEntry
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, uint(3), restored.SaleID)
	assert.Equal(t, due, restored.DueDate)
	assert.Equal(t, models.EntryTypeInstallment, restored.EntryType)
	assert.Equal(t, 50000.0, restored.Amount)
	assert.Equal(t, 50000.0, restored.PaidAmount)
	require.NotNil(t, restored.PaidDate)
	assert.Equal(t, paid, *restored.PaidDate)
	assert.Equal(t, models.EntryStatusPaid, restored.Status)
	assert.Equal(t, "Monthly Installment 2", restored.Description)
}

func TestSaleSnapshotRoundTrip(t *testing.T) {
	snapshot := models.Sale{
		ID:             5,
		CustomerID:     9,
		AgentID:        2,
		UnitNumber:     "B-204",
		UnitTotalPrice: 2500000,
		Status:         models.SaleStatusActive,
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var restored models.Sale
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, "B-204", restored.UnitNumber)
	assert.Equal(t, 2500000.0, restored.UnitTotalPrice)
	assert.Equal(t, models.SaleStatusActive, restored.Status)
	assert.Equal(t, uint(9), restored.CustomerID)
	assert.Equal(t, uint(2), restored.AgentID)
}

func TestCommissionSnapshotRoundTrip(t *testing.T) {
	released := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	snapshot := models.Commission{
		ID:              11,
		SaleID:          5,
		RecipientName:   "Dealer One",
		RecipientType:   models.RecipientDealer,
		TotalAmount:     125000,
		Amount70Percent: 87500,
		Amount30Percent: 37500,
		Status70Percent: models.TrancheReleased,
		Status30Percent: models.TranchePending,
		Released70Date:  &released,
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var restored models.Commission
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, models.TrancheReleased, restored.Status70Percent)
	assert.Equal(t, models.TranchePending, restored.Status30Percent)
	require.NotNil(t, restored.Released70Date)
	assert.Equal(t, released, *restored.Released70Date)
	assert.Equal(t, 87500.0, restored.Amount70Percent)
	assert.Equal(t, 37500.0, restored.Amount30Percent)
}

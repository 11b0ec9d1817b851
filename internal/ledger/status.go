package ledger

import (
	"errors"
	"time"

	"estate-backend/internal/models"
)

var (
	ErrUnknownStatus = errors.New("status must be paid, overdue or pending")
	ErrPaidToOverdue = errors.New("a paid entry cannot be marked overdue")
)

// TransitionStatus computes an entry's state after a manual status change.
// Marking paid settles the full amount as of now; reverting to pending or
// overdue clears the settlement fields so no stale paid amount lingers.
// A paid entry must go back through pending before it can become overdue.
func TransitionStatus(entry models.LedgerEntry, newStatus models.EntryStatus, now time.Time) (models.LedgerEntry, error) {
	switch newStatus {
	case models.EntryStatusPaid, models.EntryStatusOverdue, models.EntryStatusPending:
	default:
		return entry, ErrUnknownStatus
	}

	if newStatus == models.EntryStatusOverdue && entry.Status == models.EntryStatusPaid {
		return entry, ErrPaidToOverdue
	}

	entry.Status = newStatus
	if newStatus == models.EntryStatusPaid {
		today := now.Truncate(24 * time.Hour)
		entry.PaidDate = &today
		entry.PaidAmount = entry.Amount
	} else {
		entry.PaidDate = nil
		entry.PaidAmount = 0
	}
	return entry, nil
}

package ledger

import (
	"errors"
	"sort"

	"estate-backend/internal/models"
)

var (
	ErrAmountNotPositive       = errors.New("amount must be greater than 0")
	ErrNextInstallmentNegative = errors.New("cannot adjust - would make next installment negative")
	ErrNoNextInstallment       = errors.New("cannot increase amount - no next installment to deduct from")
)

// Change is one planned amount update for a sibling entry. Plans are computed
// against the in-memory snapshot first so a rejected edit writes nothing.
type Change struct {
	EntryID   uint
	NewAmount float64
}

// pendingInstallments returns the sale's pending installment entries ordered
// by due date (id breaks ties, matching creation order).
func pendingInstallments(entries []models.LedgerEntry, excludeID uint) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == excludeID {
			continue
		}
		if e.EntryType == models.EntryTypeInstallment && e.Status == models.EntryStatusPending {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// nextPendingInstallment finds the chronologically next pending installment
// after the given entry. When the entry is not itself a pending installment
// (a downpayment, say), the earliest pending installment is "next".
func nextPendingInstallment(entries []models.LedgerEntry, entryID uint) *models.LedgerEntry {
	ordered := pendingInstallments(entries, 0)
	idx := -1
	for i, e := range ordered {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx+1 < len(ordered) {
		next := ordered[idx+1]
		return &next
	}
	return nil
}

// PlanAmountEdit plans the sibling update for a plain amount edit (entry not
// being settled). The difference between the original and new amount moves
// onto the next pending installment so the sale total stays put:
//   - decrease: next installment grows by the difference
//   - increase: next installment shrinks; rejected if it would go negative,
//     or if there is no next installment to deduct from
//
// A decrease with no next installment proceeds with no compensation.
func PlanAmountEdit(entries []models.LedgerEntry, entryID uint, originalAmount, newAmount float64) ([]Change, error) {
	if newAmount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if newAmount == originalAmount {
		return nil, nil
	}

	difference := originalAmount - newAmount

	next := nextPendingInstallment(entries, entryID)
	if next == nil {
		if newAmount > originalAmount {
			return nil, ErrNoNextInstallment
		}
		return nil, nil
	}

	newNextAmount := next.Amount + difference
	if newNextAmount < 0 {
		return nil, ErrNextInstallmentNegative
	}

	return []Change{{EntryID: next.ID, NewAmount: newNextAmount}}, nil
}

// PlanOverpayment plans the even spread of an overpayment made while settling
// an entry. Every remaining pending installment gives up an equal share,
// floored at zero individually. With no pending installments left the
// overpayment is absorbed and nothing is planned.
func PlanOverpayment(entries []models.LedgerEntry, entryID uint, overpayment float64) []Change {
	if overpayment <= 0 {
		return nil
	}

	remaining := pendingInstallments(entries, entryID)
	if len(remaining) == 0 {
		return nil
	}

	reduction := overpayment / float64(len(remaining))
	changes := make([]Change, 0, len(remaining))
	for _, e := range remaining {
		newAmount := e.Amount - reduction
		if newAmount < 0 {
			newAmount = 0
		}
		changes = append(changes, Change{EntryID: e.ID, NewAmount: newAmount})
	}
	return changes
}

// PlanDelete plans the redistribution of a deleted entry's amount. Only
// installment deletions redistribute; the amount spreads evenly over the
// remaining pending installments, or is discarded when none remain.
func PlanDelete(entries []models.LedgerEntry, entryID uint) []Change {
	var deleted *models.LedgerEntry
	for i := range entries {
		if entries[i].ID == entryID {
			deleted = &entries[i]
			break
		}
	}
	if deleted == nil || deleted.EntryType != models.EntryTypeInstallment {
		return nil
	}

	remaining := pendingInstallments(entries, entryID)
	if len(remaining) == 0 {
		return nil
	}

	share := deleted.Amount / float64(len(remaining))
	changes := make([]Change, 0, len(remaining))
	for _, e := range remaining {
		changes = append(changes, Change{EntryID: e.ID, NewAmount: e.Amount + share})
	}
	return changes
}

// PlanAdjustedPayment plans the reductions funding an out-of-schedule entry:
// every pending installment gives up an equal share of the new amount,
// floored at zero. With no pending installments the new entry is simply
// added unfunded.
func PlanAdjustedPayment(entries []models.LedgerEntry, amount float64) []Change {
	if amount <= 0 {
		return nil
	}

	pending := pendingInstallments(entries, 0)
	if len(pending) == 0 {
		return nil
	}

	reduction := amount / float64(len(pending))
	changes := make([]Change, 0, len(pending))
	for _, e := range pending {
		newAmount := e.Amount - reduction
		if newAmount < 0 {
			newAmount = 0
		}
		changes = append(changes, Change{EntryID: e.ID, NewAmount: newAmount})
	}
	return changes
}

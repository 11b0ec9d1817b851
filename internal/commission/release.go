package commission

import "estate-backend/internal/models"

// Release conditions for the two tranches. The 70% tranche waits for the
// sale's downpayment to clear, the 30% tranche for every installment.

// DownpaymentCleared reports whether every downpayment entry of the sale is
// paid. A sale without downpayment entries counts as cleared.
func DownpaymentCleared(entries []models.LedgerEntry) bool {
	for _, e := range entries {
		if e.EntryType == models.EntryTypeDownpayment && e.Status != models.EntryStatusPaid {
			return false
		}
	}
	return true
}

// InstallmentsCleared reports whether every installment entry of the sale is
// paid.
func InstallmentsCleared(entries []models.LedgerEntry) bool {
	for _, e := range entries {
		if e.EntryType == models.EntryTypeInstallment && e.Status != models.EntryStatusPaid {
			return false
		}
	}
	return true
}

// CanRelease decides whether a tranche ("70" or "30") may be released for a
// sale's ledger state.
func CanRelease(tranche string, entries []models.LedgerEntry) bool {
	switch tranche {
	case "70":
		return DownpaymentCleared(entries)
	case "30":
		return InstallmentsCleared(entries)
	}
	return false
}

package ledger

import (
	"errors"
	"fmt"
	"log"
	"time"

	"estate-backend/internal/audit"
	"estate-backend/internal/auth"
	"estate-backend/internal/database"
	"estate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerEntryResponse struct {
	ID          uint    `json:"id"`
	SaleID      uint    `json:"sale_id"`
	DueDate     string  `json:"due_date"`
	EntryType   string  `json:"entry_type"`
	Amount      float64 `json:"amount"`
	PaidAmount  float64 `json:"paid_amount"`
	PaidDate    *string `json:"paid_date"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
}

type LedgerSummary struct {
	TotalSale     float64 `json:"total_sale"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
	OverdueAmount float64 `json:"overdue_amount"`
}

type UpdateLedgerEntryRequest struct {
	Amount    float64 `json:"amount"`
	EntryType string  `json:"entry_type"`
	PaidDate  string  `json:"paid_date"` // "2006-01-02"; setting it marks the entry paid
}

type AddLedgerEntryRequest struct {
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"`
	EntryType   string  `json:"entry_type"` // defaults to installment
	Description string  `json:"description"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"` // paid / overdue / pending
}

func toEntryResponse(e models.LedgerEntry) LedgerEntryResponse {
	var paidDate *string
	if e.PaidDate != nil {
		s := e.PaidDate.Format("2006-01-02")
		paidDate = &s
	}
	return LedgerEntryResponse{
		ID:          e.ID,
		SaleID:      e.SaleID,
		DueDate:     e.DueDate.Format("2006-01-02"),
		EntryType:   string(e.EntryType),
		Amount:      e.Amount,
		PaidAmount:  e.PaidAmount,
		PaidDate:    paidDate,
		Status:      string(e.Status),
		Description: e.Description,
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Could not resolve user")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User not found")
	}

	return userID, user.Name, nil
}

func loadSaleEntries(tx *gorm.DB, saleID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := tx.Where("sale_id = ?", saleID).
		Order("due_date asc, id asc").
		Find(&entries).Error
	return entries, err
}

func applyChanges(tx *gorm.DB, changes []Change) error {
	for _, ch := range changes {
		if err := tx.Model(&models.LedgerEntry{}).
			Where("id = ?", ch.EntryID).
			Update("amount", ch.NewAmount).Error; err != nil {
			return err
		}
	}
	return nil
}

// writePaymentJournalEntry records the settled payment in the general journal.
func writePaymentJournalEntry(tx *gorm.DB, entry *models.LedgerEntry, paidDate time.Time) error {
	je := models.JournalEntry{
		Date:          paidDate,
		DebitAccount:  "Cash/Bank",
		CreditAccount: "Accounts Receivable",
		Amount:        entry.PaidAmount,
		Description:   fmt.Sprintf("Payment received for %s - Sale %d", entry.EntryType, entry.SaleID),
		Reference:     uuid.NewString(),
	}
	return tx.Create(&je).Error
}

// GET /api/sales/:id/ledger
func ListSaleLedgerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		saleID := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", saleID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		entries, err := loadSaleEntries(database.DB, sale.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list ledger entries")
		}

		summary := LedgerSummary{TotalSale: sale.UnitTotalPrice}
		resp := make([]LedgerEntryResponse, 0, len(entries))
		for _, e := range entries {
			if e.Status == models.EntryStatusPaid {
				summary.PaidAmount += e.PaidAmount
			}
			if e.Status == models.EntryStatusOverdue {
				summary.OverdueAmount += e.Amount
			}
			resp = append(resp, toEntryResponse(e))
		}
		summary.PendingAmount = sale.UnitTotalPrice - summary.PaidAmount

		return c.JSON(fiber.Map{
			"entries": resp,
			"summary": summary,
		})
	}
}

// PUT /api/ledger-entries/:id
//
// A plain amount edit moves the difference onto the next pending installment.
// Supplying paid_date settles the entry instead; an overpayment then spreads
// across all remaining pending installments. Validation happens against the
// snapshot before anything is written, and all writes share one transaction.
func UpdateLedgerEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.LedgerEntry
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ledger entry not found")
		}

		var body UpdateLedgerEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than 0")
		}

		entryType := entry.EntryType
		if body.EntryType != "" {
			entryType = models.EntryType(body.EntryType)
			switch entryType {
			case models.EntryTypeDownpayment, models.EntryTypeInstallment, models.EntryTypePossession:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Unknown entry type")
			}
		}

		var paidDate *time.Time
		if body.PaidDate != "" {
			d, err := time.Parse("2006-01-02", body.PaidDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "paid_date must be 'YYYY-MM-DD'")
			}
			paidDate = &d
		}

		entries, err := loadSaleEntries(database.DB, entry.SaleID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sale ledger")
		}

		originalAmount := entry.Amount
		markingPaid := paidDate != nil && entry.Status != models.EntryStatusPaid

		// plan first so a rejected edit writes nothing
		var changes []Change
		if markingPaid {
			changes = PlanOverpayment(entries, entry.ID, body.Amount-originalAmount)
		} else {
			changes, err = PlanAmountEdit(entries, entry.ID, originalAmount, body.Amount)
			if errors.Is(err, ErrNextInstallmentNegative) || errors.Is(err, ErrNoNextInstallment) || errors.Is(err, ErrAmountNotPositive) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not plan redistribution")
			}
		}

		// snapshot the row itself so an undo can decode it back
		before := entry

		entry.Amount = body.Amount
		entry.EntryType = entryType
		if markingPaid {
			entry.PaidAmount = body.Amount
			entry.PaidDate = paidDate
			entry.Status = models.EntryStatusPaid
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := applyChanges(tx, changes); err != nil {
				return err
			}
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
			if markingPaid {
				return writePaymentJournalEntry(tx, &entry, *paidDate)
			}
			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update ledger entry")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			desc := fmt.Sprintf("Ledger entry updated: %s PKR %.2f", entry.EntryType, entry.Amount)
			if markingPaid {
				desc = fmt.Sprintf("Ledger entry paid: %s PKR %.2f", entry.EntryType, entry.PaidAmount)
			}
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ledger_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionUpdate,
				Description: desc,
				Before:      before,
				After:       entry,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.JSON(toEntryResponse(entry))
	}
}

// DELETE /api/ledger-entries/:id
//
// Deleting an installment spreads its amount evenly over the remaining
// pending installments before the row goes away.
func DeleteLedgerEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.LedgerEntry
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ledger entry not found")
		}

		entries, err := loadSaleEntries(database.DB, entry.SaleID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sale ledger")
		}

		changes := PlanDelete(entries, entry.ID)

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := applyChanges(tx, changes); err != nil {
				return err
			}
			return tx.Delete(&models.LedgerEntry{}, "id = ?", entry.ID).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete ledger entry")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ledger_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ledger entry deleted: %s PKR %.2f, redistributed to %d installments", entry.EntryType, entry.Amount, len(changes)),
				Before:      entry,
				After:       nil,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/sales/:id/ledger-entries
//
// Adds an out-of-schedule "adjusted payment": the new pending entry is funded
// by shaving an equal share off every pending installment.
func AddLedgerEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		saleID := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", saleID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		var body AddLedgerEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than 0")
		}

		dueDate, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "due_date must be 'YYYY-MM-DD'")
		}

		entryType := models.EntryTypeInstallment
		if body.EntryType != "" {
			entryType = models.EntryType(body.EntryType)
			switch entryType {
			case models.EntryTypeDownpayment, models.EntryTypeInstallment, models.EntryTypePossession:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Unknown entry type")
			}
		}

		description := body.Description
		if description == "" {
			description = "Adjusted Payment"
		}

		entries, err := loadSaleEntries(database.DB, sale.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sale ledger")
		}

		changes := PlanAdjustedPayment(entries, body.Amount)

		entry := models.LedgerEntry{
			SaleID:      sale.ID,
			DueDate:     dueDate,
			EntryType:   entryType,
			Amount:      body.Amount,
			PaidAmount:  0,
			Status:      models.EntryStatusPending,
			Description: description,
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			return applyChanges(tx, changes)
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add ledger entry")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ledger_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Adjusted payment added: PKR %.2f over %d installments", entry.Amount, len(changes)),
				Before:      nil,
				After:       entry,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
	}
}

// POST /api/ledger-entries/:id/status
func ChangeStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.LedgerEntry
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ledger entry not found")
		}

		var body ChangeStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		newStatus := models.EntryStatus(body.Status)

		before := entry
		wasPaid := entry.Status == models.EntryStatusPaid

		entry, err := TransitionStatus(entry, newStatus, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
			if newStatus == models.EntryStatusPaid && !wasPaid {
				return writePaymentJournalEntry(tx, &entry, *entry.PaidDate)
			}
			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update ledger entry")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ledger_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Payment marked as %s", newStatus),
				Before:      before,
				After:       entry,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.JSON(toEntryResponse(entry))
	}
}

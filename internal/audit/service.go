package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"estate-backend/internal/database"
	"estate-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb columns want "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}

// UndoLog reverses the row change a log recorded. A ledger-entry undo restores
// that row only; it does not re-run any redistribution that accompanied it.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("this change has already been undone")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(log.EntityType, log.BeforeData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}

	default:
		return fmt.Errorf("this action type cannot be undone")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undone: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "sale":
		return database.DB.Delete(&models.Sale{}, "id = ?", entityID).Error
	case "ledger_entry":
		return database.DB.Delete(&models.LedgerEntry{}, "id = ?", entityID).Error
	case "expense":
		return database.DB.Delete(&models.Expense{}, "id = ?", entityID).Error
	case "commission":
		return database.DB.Delete(&models.Commission{}, "id = ?", entityID).Error
	case "journal_entry":
		return database.DB.Delete(&models.JournalEntry{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "ledger_entry":
		var entry models.LedgerEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		entry.ID = 0
		return database.DB.Create(&entry).Error

	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		expense.ID = 0
		expense.Category = models.ExpenseCategory{}
		return database.DB.Create(&expense).Error

	case "journal_entry":
		var entry models.JournalEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		entry.ID = 0
		return database.DB.Create(&entry).Error

	case "commission":
		var cm models.Commission
		if err := json.Unmarshal([]byte(dataJSON), &cm); err != nil {
			return err
		}
		cm.ID = 0
		return database.DB.Create(&cm).Error

	case "sale":
		var sale models.Sale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		sale.Customer = models.Customer{}
		sale.Agent = models.User{}
		return database.DB.Create(&sale).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "ledger_entry":
		var entry models.LedgerEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		return database.DB.Model(&models.LedgerEntry{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"due_date":    entry.DueDate,
			"entry_type":  entry.EntryType,
			"amount":      entry.Amount,
			"paid_amount": entry.PaidAmount,
			"paid_date":   entry.PaidDate,
			"status":      entry.Status,
			"description": entry.Description,
		}).Error

	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		return database.DB.Model(&models.Expense{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"category_id": expense.CategoryID,
			"date":        expense.Date,
			"amount":      expense.Amount,
			"description": expense.Description,
		}).Error

	case "sale":
		var sale models.Sale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		return database.DB.Model(&models.Sale{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"unit_number":      sale.UnitNumber,
			"unit_total_price": sale.UnitTotalPrice,
			"status":           sale.Status,
		}).Error

	case "commission":
		var cm models.Commission
		if err := json.Unmarshal([]byte(dataJSON), &cm); err != nil {
			return err
		}
		return database.DB.Model(&models.Commission{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"recipient_name":   cm.RecipientName,
			"recipient_type":   cm.RecipientType,
			"total_amount":     cm.TotalAmount,
			"amount70_percent": cm.Amount70Percent,
			"amount30_percent": cm.Amount30Percent,
			"status70_percent": cm.Status70Percent,
			"status30_percent": cm.Status30Percent,
			"released70_date":  cm.Released70Date,
			"released30_date":  cm.Released30Date,
			"notes":            cm.Notes,
		}).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

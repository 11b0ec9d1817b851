package models

import "time"

type EntryType string

const (
	EntryTypeDownpayment EntryType = "downpayment"
	EntryTypeInstallment EntryType = "installment"
	EntryTypePossession  EntryType = "possession"
)

type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusPaid    EntryStatus = "paid"
	EntryStatusOverdue EntryStatus = "overdue"
)

// LedgerEntry - one scheduled or settled payment obligation of a sale.
// Only pending installments participate in redistribution.
type LedgerEntry struct {
	ID          uint        `gorm:"primaryKey"`
	SaleID      uint        `gorm:"index;not null"`
	DueDate     time.Time   `gorm:"index;not null"`
	EntryType   EntryType   `gorm:"size:20;not null;index"`
	Amount      float64     `gorm:"not null"`
	PaidAmount  float64     `gorm:"default:0"`
	PaidDate    *time.Time
	Status      EntryStatus `gorm:"size:20;not null;index"`
	Description string      `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

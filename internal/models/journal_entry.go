package models

import "time"

// JournalEntry - general-journal line. Payments settled in the ledger write
// one automatically (Cash/Bank against Accounts Receivable).
type JournalEntry struct {
	ID            uint      `gorm:"primaryKey"`
	Date          time.Time `gorm:"index;not null"`
	DebitAccount  string    `gorm:"size:100;not null"`
	CreditAccount string    `gorm:"size:100;not null"`
	Amount        float64   `gorm:"not null"`
	Description   string    `gorm:"size:255"`
	Reference     string    `gorm:"size:40;index"` // receipt reference for auto entries
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

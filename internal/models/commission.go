package models

import "time"

type RecipientType string

const (
	RecipientAgent  RecipientType = "agent"
	RecipientDealer RecipientType = "dealer"
	RecipientCoo    RecipientType = "coo"
)

type TrancheStatus string

const (
	TranchePending  TrancheStatus = "pending"
	TrancheReleased TrancheStatus = "released"
)

// Commission - per-recipient commission on a sale, split into a 70% tranche
// released on downpayment clearance and a 30% tranche released on
// installment clearance.
type Commission struct {
	ID              uint          `gorm:"primaryKey"`
	SaleID          uint          `gorm:"index;not null"`
	RecipientName   string        `gorm:"size:200;not null"`
	RecipientType   RecipientType `gorm:"size:20;not null"`
	TotalAmount     float64       `gorm:"not null"`
	Amount70Percent float64       `gorm:"not null"`
	Amount30Percent float64       `gorm:"not null"`
	Status70Percent TrancheStatus `gorm:"size:20;not null;default:pending"`
	Status30Percent TrancheStatus `gorm:"size:20;not null;default:pending"`
	Released70Date  *time.Time
	Released30Date  *time.Time
	Notes           string `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

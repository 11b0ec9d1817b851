package models

import "time"

// PaymentPlan - terms a sale's ledger was generated from
type PaymentPlan struct {
	ID                 uint `gorm:"primaryKey"`
	SaleID             uint `gorm:"uniqueIndex;not null"`
	DownpaymentAmount  *float64
	DownpaymentDueDate *time.Time
	MonthlyInstallment float64 `gorm:"not null"`
	InstallmentMonths  int     `gorm:"not null"`
	PossessionAmount   *float64
	PossessionDueDate  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

package models

import "time"

type SaleStatus string

const (
	SaleStatusActive    SaleStatus = "active"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusDefaulted SaleStatus = "defaulted"
)

// Sale - one property unit transaction: one customer, one payment plan,
// many ledger entries.
type Sale struct {
	ID             uint     `gorm:"primaryKey"`
	CustomerID     uint     `gorm:"index;not null"`
	Customer       Customer `gorm:"foreignKey:CustomerID"`
	AgentID        uint     `gorm:"index;not null"`
	Agent          User     `gorm:"foreignKey:AgentID"`
	UnitNumber     string   `gorm:"size:50;not null"`
	UnitTotalPrice float64  `gorm:"not null"`
	Status         SaleStatus    `gorm:"size:20;not null;index"`
	PaymentPlan    *PaymentPlan  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	LedgerEntries  []LedgerEntry `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Commissions    []Commission  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Contact   string `gorm:"size:50;not null"`
	Email     string `gorm:"size:100"`
	Address   string `gorm:"size:500"`
	CNIC      string `gorm:"size:20"` // national ID, optional
	CreatedAt time.Time
	UpdatedAt time.Time
}

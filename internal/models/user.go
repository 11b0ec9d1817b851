package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleAgent     UserRole = "agent"
	RoleManager   UserRole = "manager"
	RoleCeoCoo    UserRole = "ceo_coo"
	RoleExecutive UserRole = "executive"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Department   string   `gorm:"size:50"` // empty for admin and ceo_coo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

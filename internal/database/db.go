package database

import (
	"log"

	"estate-backend/internal/config"
	"estate-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Sale{},
		&models.PaymentPlan{},
		&models.LedgerEntry{},
		&models.Commission{},
		&models.JournalEntry{},
		&models.ExpenseCategory{},
		&models.Expense{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// redistribution always scans a sale's pending installments by due date
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_ledger_entries_sale_due ON ledger_entries(sale_id, due_date)")

	log.Println("Database connected, migration complete.")
}

package main

import (
	"log"
	"strings"

	"estate-backend/internal/accounting"
	"estate-backend/internal/audit"
	"estate-backend/internal/auth"
	"estate-backend/internal/commission"
	"estate-backend/internal/config"
	"estate-backend/internal/database"
	"estate-backend/internal/ledger"
	"estate-backend/internal/models"
	"estate-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler())

	// Module gates attach per-route: the paths share the /api prefix, so a
	// group-level Use would leak onto every route registered after it.
	requireSales := auth.RequireModule(auth.ModuleSales)
	requireCommission := auth.RequireModule(auth.ModuleCommission)
	requireAccounting := auth.RequireModule(auth.ModuleAccounting)

	// Sales & ledger
	protected.Get("/customers", requireSales, sales.ListCustomersHandler())

	protected.Post("/sales/plan-preview", requireSales, sales.PlanPreviewHandler())
	protected.Post("/sales", requireSales, sales.CreateSaleHandler())
	protected.Get("/sales", requireSales, sales.ListSalesHandler())
	protected.Get("/sales/:id", requireSales, sales.GetSaleHandler())
	protected.Put("/sales/:id", requireSales, sales.UpdateSaleHandler())

	// Deleting a sale cascades to its plan, ledger and commissions
	protected.Delete("/sales/:id", auth.RequireRole(models.RoleAdmin, models.RoleCeoCoo), sales.DeleteSaleHandler())

	protected.Get("/sales/:id/ledger", requireSales, ledger.ListSaleLedgerHandler())
	protected.Post("/sales/:id/ledger-entries", requireSales, ledger.AddLedgerEntryHandler())
	protected.Put("/ledger-entries/:id", requireSales, ledger.UpdateLedgerEntryHandler())
	protected.Delete("/ledger-entries/:id", requireSales, ledger.DeleteLedgerEntryHandler())
	protected.Post("/ledger-entries/:id/status", requireSales, ledger.ChangeStatusHandler())

	// Commission management
	protected.Put("/sales/:id/commissions", requireCommission, commission.SaveSaleCommissionsHandler())
	protected.Get("/commissions", requireCommission, commission.ListCommissionsHandler())
	protected.Post("/commissions/:id/release", requireCommission, commission.ReleaseCommissionHandler())

	// Accounting
	protected.Get("/journal-entries", requireAccounting, accounting.ListJournalEntriesHandler())
	protected.Post("/journal-entries", requireAccounting, accounting.CreateJournalEntryHandler())

	protected.Get("/expense-categories", requireAccounting, accounting.ListExpenseCategoriesHandler())
	protected.Post("/expense-categories", requireAccounting, accounting.CreateExpenseCategoryHandler())
	protected.Put("/expense-categories/:id", requireAccounting, accounting.UpdateExpenseCategoryHandler())
	protected.Delete("/expense-categories/:id", requireAccounting, accounting.DeleteExpenseCategoryHandler())

	protected.Post("/expenses", requireAccounting, accounting.CreateExpenseHandler())
	protected.Get("/expenses", requireAccounting, accounting.ListExpensesHandler())
	protected.Delete("/expenses/:id", requireAccounting, accounting.DeleteExpenseHandler())
	protected.Get("/expenses/summary/monthly", requireAccounting, accounting.MonthlyExpenseSummaryHandler())
	protected.Post("/expenses/import", requireAccounting, accounting.ImportExpensesHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

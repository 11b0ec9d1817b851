package accounting

import (
	"fmt"
	"log"
	"strings"
	"time"

	"estate-backend/internal/audit"
	"estate-backend/internal/auth"
	"estate-backend/internal/database"
	"estate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ExpenseCategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateExpenseCategoryRequest struct {
	Name string `json:"name"`
}

type CreateExpenseRequest struct {
	Date        string  `json:"date"` // "2006-01-02"
	CategoryID  uint    `json:"category_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type ExpenseResponse struct {
	ID          uint    `json:"id"`
	CategoryID  uint    `json:"category_id"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type CreateJournalEntryRequest struct {
	Date          string  `json:"date"`
	DebitAccount  string  `json:"debit_account"`
	CreditAccount string  `json:"credit_account"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}

type JournalEntryResponse struct {
	ID            uint    `json:"id"`
	Date          string  `json:"date"`
	DebitAccount  string  `json:"debit_account"`
	CreditAccount string  `json:"credit_account"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Reference     string  `json:"reference"`
}

type MonthlyExpenseSummaryItem struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}

type MonthlyExpenseSummaryResponse struct {
	Year       int                         `json:"year"`
	Month      int                         `json:"month"`
	Items      []MonthlyExpenseSummaryItem `json:"items"`
	GrandTotal float64                     `json:"grand_total"`
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Could not resolve user")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User not found")
	}

	return userID, user.Name, nil
}

// -------------------------
// Expense Category CRUD
// -------------------------

// GET /api/expense-categories
func ListExpenseCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.ExpenseCategory
		if err := database.DB.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		res := make([]ExpenseCategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, ExpenseCategoryResponse{
				ID:   cat.ID,
				Name: cat.Name,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/expense-categories
func CreateExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		cat := models.ExpenseCategory{Name: body.Name}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		return c.Status(fiber.StatusCreated).JSON(ExpenseCategoryResponse{
			ID:   cat.ID,
			Name: cat.Name,
		})
	}
}

// PUT /api/expense-categories/:id
func UpdateExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body CreateExpenseCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		cat.Name = body.Name
		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		return c.JSON(ExpenseCategoryResponse{
			ID:   cat.ID,
			Name: cat.Name,
		})
	}
}

// DELETE /api/expense-categories/:id
func DeleteExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var count int64
		database.DB.Model(&models.Expense{}).Where("category_id = ?", cat.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category still has expenses")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Expense CRUD
// -------------------------

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.CategoryID == 0 || body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id and amount are required, amount must be greater than 0")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		exp := models.Expense{
			CategoryID:  body.CategoryID,
			Date:        d,
			Amount:      body.Amount,
			Description: body.Description,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save expense")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    exp.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Expense added: %s - PKR %.2f", cat.Name, exp.Amount),
				Before:      nil,
				After:       exp,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(ExpenseResponse{
			ID:          exp.ID,
			CategoryID:  exp.CategoryID,
			Category:    cat.Name,
			Date:        exp.Date.Format("2006-01-02"),
			Amount:      exp.Amount,
			Description: exp.Description,
		})
	}
}

// GET /api/expenses?from=...&to=...&category_id=...
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		catStr := c.Query("category_id")

		dbq := database.DB.Model(&models.Expense{}).Preload("Category")

		if fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from is invalid")
			}
			dbq = dbq.Where("date >= ?", from)
		}

		if toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to is invalid")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		if catStr != "" {
			var cid uint
			if _, err := fmt.Sscan(catStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "category_id is invalid")
			}
			dbq = dbq.Where("category_id = ?", cid)
		}

		var rows []models.Expense
		if err := dbq.Order("date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, ExpenseResponse{
				ID:          r.ID,
				CategoryID:  r.CategoryID,
				Category:    r.Category.Name,
				Date:        r.Date.Format("2006-01-02"),
				Amount:      r.Amount,
				Description: r.Description,
			})
		}

		return c.JSON(resp)
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exp models.Expense
		if err := database.DB.Preload("Category").First(&exp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}

		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    exp.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Expense deleted: %s - PKR %.2f", exp.Category.Name, exp.Amount),
				Before:      exp,
				After:       nil,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/expenses/summary/monthly?year=2026&month=8
func MonthlyExpenseSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year and month are required")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year is invalid")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month is invalid")
		}

		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		var rows []models.Expense
		if err := database.DB.Preload("Category").
			Where("date >= ? AND date < ?", start, end).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		totals := make(map[uint]*MonthlyExpenseSummaryItem)
		grand := 0.0
		for _, r := range rows {
			item, ok := totals[r.CategoryID]
			if !ok {
				item = &MonthlyExpenseSummaryItem{
					CategoryID:   r.CategoryID,
					CategoryName: r.Category.Name,
				}
				totals[r.CategoryID] = item
			}
			item.Total += r.Amount
			grand += r.Amount
		}

		items := make([]MonthlyExpenseSummaryItem, 0, len(totals))
		for _, item := range totals {
			items = append(items, *item)
		}

		return c.JSON(MonthlyExpenseSummaryResponse{
			Year:       year,
			Month:      month,
			Items:      items,
			GrandTotal: grand,
		})
	}
}

// -------------------------
// General Journal
// -------------------------

// GET /api/journal-entries?from=...&to=...
func ListJournalEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.JournalEntry{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from is invalid")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to is invalid")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		var rows []models.JournalEntry
		if err := dbq.Order("date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list journal entries")
		}

		resp := make([]JournalEntryResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, JournalEntryResponse{
				ID:            r.ID,
				Date:          r.Date.Format("2006-01-02"),
				DebitAccount:  r.DebitAccount,
				CreditAccount: r.CreditAccount,
				Amount:        r.Amount,
				Description:   r.Description,
				Reference:     r.Reference,
			})
		}

		return c.JSON(resp)
	}
}

// POST /api/journal-entries
func CreateJournalEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateJournalEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.DebitAccount = strings.TrimSpace(body.DebitAccount)
		body.CreditAccount = strings.TrimSpace(body.CreditAccount)
		if body.DebitAccount == "" || body.CreditAccount == "" {
			return fiber.NewError(fiber.StatusBadRequest, "debit_account and credit_account are required")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than 0")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		je := models.JournalEntry{
			Date:          d,
			DebitAccount:  body.DebitAccount,
			CreditAccount: body.CreditAccount,
			Amount:        body.Amount,
			Description:   body.Description,
		}

		if err := database.DB.Create(&je).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save journal entry")
		}

		return c.Status(fiber.StatusCreated).JSON(JournalEntryResponse{
			ID:            je.ID,
			Date:          je.Date.Format("2006-01-02"),
			DebitAccount:  je.DebitAccount,
			CreditAccount: je.CreditAccount,
			Amount:        je.Amount,
			Description:   je.Description,
			Reference:     je.Reference,
		})
	}
}

package accounting

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"estate-backend/internal/audit"
	"estate-backend/internal/database"
	"estate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ImportedExpenseRow is a parsed row from an uploaded expense sheet.
// Columns: date | category | amount | description (description optional).
type ImportedExpenseRow struct {
	Date        time.Time
	Category    string
	Amount      float64
	Description string
}

var expenseDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01-02-06",
	"2-Jan-06",
}

func parseExpenseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expenseDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

func parseExpenseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "PKR")
	s = strings.TrimSpace(s)
	return strconv.ParseFloat(s, 64)
}

// isExpenseHeaderRow reports whether the first sheet row looks like a
// header ("DATE", "CATEGORY", ...) rather than data.
func isExpenseHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "DATE") || strings.Contains(first, "TARIH")
}

// ParseExpenseRows converts raw sheet rows into expense rows. Rows that
// cannot be parsed are returned in skipped with a reason, they do not
// abort the whole import.
func ParseExpenseRows(rows [][]string) (parsed []ImportedExpenseRow, skipped []string) {
	startIndex := 0
	if len(rows) > 0 && isExpenseHeaderRow(rows[0]) {
		startIndex = 1
	}

	for i := startIndex; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 3 {
			skipped = append(skipped, fmt.Sprintf("row %d: expected at least 3 columns", i+1))
			continue
		}

		d, err := parseExpenseDate(row[0])
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		category := strings.TrimSpace(row[1])
		if category == "" {
			skipped = append(skipped, fmt.Sprintf("row %d: category is empty", i+1))
			continue
		}

		amount, err := parseExpenseAmount(row[2])
		if err != nil || amount <= 0 {
			skipped = append(skipped, fmt.Sprintf("row %d: amount is invalid: %q", i+1, row[2]))
			continue
		}

		description := ""
		if len(row) > 3 {
			description = strings.TrimSpace(row[3])
		}

		parsed = append(parsed, ImportedExpenseRow{
			Date:        d,
			Category:    category,
			Amount:      amount,
			Description: description,
		})
	}

	return parsed, skipped
}

// POST /api/expenses/import
// Accepts an .xlsx upload with columns date | category | amount | description.
// Unknown categories are created on the fly.
func ImportExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are supported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open file: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read Excel file: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read sheet: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		parsed, skipped := ParseExpenseRows(rows)

		// Category name -> id, loaded once, extended as new ones are created.
		var cats []models.ExpenseCategory
		if err := database.DB.Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		catByName := make(map[string]uint, len(cats))
		for _, cat := range cats {
			catByName[strings.ToLower(cat.Name)] = cat.ID
		}

		importedCount := 0
		for _, row := range parsed {
			key := strings.ToLower(row.Category)
			catID, ok := catByName[key]
			if !ok {
				cat := models.ExpenseCategory{Name: row.Category}
				if err := database.DB.Create(&cat).Error; err != nil {
					log.Printf("Could not create category %q: %v", row.Category, err)
					skipped = append(skipped, fmt.Sprintf("category %q could not be created", row.Category))
					continue
				}
				catID = cat.ID
				catByName[key] = catID
			}

			exp := models.Expense{
				CategoryID:  catID,
				Date:        row.Date,
				Amount:      row.Amount,
				Description: row.Description,
			}
			if err := database.DB.Create(&exp).Error; err != nil {
				log.Printf("Could not save imported expense: %v", err)
				skipped = append(skipped, fmt.Sprintf("expense %q could not be saved", row.Description))
				continue
			}
			importedCount++
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    0,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Imported %d expenses from %s", importedCount, fileHeader.Filename),
				Before:      nil,
				After:       map[string]interface{}{"imported_count": importedCount},
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"imported_count": importedCount,
			"skipped_rows":   skipped,
			"message":        fmt.Sprintf("%d expenses imported. %d rows skipped.", importedCount, len(skipped)),
		})
	}
}

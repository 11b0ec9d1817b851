package sales

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
	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Address string `json:"address"`
	CNIC    string `json:"cnic"`
}

type PlanRequest struct {
	DownpaymentAmount  float64 `json:"downpayment_amount"`
	DownpaymentDueDate string  `json:"downpayment_due_date"` // "2006-01-02"
	MonthlyInstallment float64 `json:"monthly_installment"`
	InstallmentMonths  int     `json:"installment_months"`
	PossessionAmount   float64 `json:"possession_amount"`
	PossessionDueDate  string  `json:"possession_due_date"`
}

type CreateSaleRequest struct {
	Customer       CustomerRequest `json:"customer"`
	UnitNumber     string          `json:"unit_number"`
	UnitTotalPrice float64         `json:"unit_total_price"`
	Plan           *PlanRequest    `json:"plan"`
}

type UpdateSaleRequest struct {
	UnitNumber     *string  `json:"unit_number"`
	UnitTotalPrice *float64 `json:"unit_total_price"`
	Status         *string  `json:"status"`
}

type SaleResponse struct {
	ID             uint    `json:"id"`
	CustomerID     uint    `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	Contact        string  `json:"customer_contact"`
	AgentID        uint    `json:"agent_id"`
	AgentName      string  `json:"agent_name"`
	UnitNumber     string  `json:"unit_number"`
	UnitTotalPrice float64 `json:"unit_total_price"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

func toSaleResponse(s models.Sale) SaleResponse {
	return SaleResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		CustomerName:   s.Customer.Name,
		Contact:        s.Customer.Contact,
		AgentID:        s.AgentID,
		AgentName:      s.Agent.Name,
		UnitNumber:     s.UnitNumber,
		UnitTotalPrice: s.UnitTotalPrice,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}

func parsePlanTerms(body *PlanRequest) (PlanTerms, error) {
	terms := PlanTerms{
		DownpaymentAmount:  body.DownpaymentAmount,
		MonthlyInstallment: body.MonthlyInstallment,
		InstallmentMonths:  body.InstallmentMonths,
		PossessionAmount:   body.PossessionAmount,
	}
	if body.DownpaymentDueDate != "" {
		d, err := time.Parse("2006-01-02", body.DownpaymentDueDate)
		if err != nil {
			return terms, fiber.NewError(fiber.StatusBadRequest, "downpayment_due_date must be 'YYYY-MM-DD'")
		}
		terms.DownpaymentDueDate = &d
	}
	if body.PossessionDueDate != "" {
		d, err := time.Parse("2006-01-02", body.PossessionDueDate)
		if err != nil {
			return terms, fiber.NewError(fiber.StatusBadRequest, "possession_due_date must be 'YYYY-MM-DD'")
		}
		terms.PossessionDueDate = &d
	}
	return terms, nil
}

// POST /api/sales/plan-preview
//
// Expands plan terms into the schedule that sale creation would persist,
// without writing anything.
func PlanPreviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		terms, err := parsePlanTerms(&body)
		if err != nil {
			return err
		}

		entries := GenerateSchedule(terms, time.Now())

		type previewEntry struct {
			DueDate     string  `json:"due_date"`
			EntryType   string  `json:"entry_type"`
			Amount      float64 `json:"amount"`
			Description string  `json:"description"`
		}
		resp := make([]previewEntry, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, previewEntry{
				DueDate:     e.DueDate.Format("2006-01-02"),
				EntryType:   string(e.EntryType),
				Amount:      e.Amount,
				Description: e.Description,
			})
		}

		return c.JSON(fiber.Map{
			"entries": resp,
			"total":   ScheduleTotal(entries),
		})
	}
}

// POST /api/sales
//
// Creates customer, sale, payment plan and the generated ledger entries in
// one transaction. The acting user becomes the sale's agent.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Customer.Name = strings.TrimSpace(body.Customer.Name)
		body.Customer.Contact = strings.TrimSpace(body.Customer.Contact)
		body.UnitNumber = strings.TrimSpace(body.UnitNumber)

		if body.Customer.Name == "" || body.Customer.Contact == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Customer name and contact are required")
		}
		if body.UnitNumber == "" || body.UnitTotalPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_number and unit_total_price are required")
		}

		agentIDVal := c.Locals(auth.CtxUserIDKey)
		agentID, ok := agentIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Could not resolve user")
		}

		var terms PlanTerms
		var schedule []models.LedgerEntry
		if body.Plan != nil {
			var err error
			terms, err = parsePlanTerms(body.Plan)
			if err != nil {
				return err
			}
			schedule = GenerateSchedule(terms, time.Now())
		}

		sale := models.Sale{
			AgentID:        agentID,
			UnitNumber:     body.UnitNumber,
			UnitTotalPrice: body.UnitTotalPrice,
			Status:         models.SaleStatusActive,
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			customer := models.Customer{
				Name:    body.Customer.Name,
				Contact: body.Customer.Contact,
				Email:   strings.TrimSpace(body.Customer.Email),
				Address: strings.TrimSpace(body.Customer.Address),
				CNIC:    strings.TrimSpace(body.Customer.CNIC),
			}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}

			sale.CustomerID = customer.ID
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			if body.Plan != nil && body.Plan.MonthlyInstallment > 0 {
				plan := models.PaymentPlan{
					SaleID:             sale.ID,
					MonthlyInstallment: body.Plan.MonthlyInstallment,
					InstallmentMonths:  body.Plan.InstallmentMonths,
					DownpaymentDueDate: terms.DownpaymentDueDate,
					PossessionDueDate:  terms.PossessionDueDate,
				}
				if body.Plan.DownpaymentAmount > 0 {
					plan.DownpaymentAmount = &body.Plan.DownpaymentAmount
				}
				if body.Plan.PossessionAmount > 0 {
					plan.PossessionAmount = &body.Plan.PossessionAmount
				}
				if err := tx.Create(&plan).Error; err != nil {
					return err
				}
			}

			for i := range schedule {
				schedule[i].SaleID = sale.ID
			}
			if len(schedule) > 0 {
				if err := tx.Create(&schedule).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sale")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", agentID).Error; err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      agentID,
				UserName:    user.Name,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sale created: unit %s, PKR %.2f, %d ledger entries", sale.UnitNumber, sale.UnitTotalPrice, len(schedule)),
				Before:      nil,
				After:       sale,
			}); logErr != nil {
				log.Printf("Could not write audit log: %v", logErr)
			}
		}

		var created models.Sale
		if err := database.DB.Preload("Customer").Preload("Agent").First(&created, sale.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load created sale")
		}

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(created))
	}
}

// GET /api/sales?status=active&agent_id=2
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Sale{}).
			Preload("Customer").
			Preload("Agent")

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		if agentStr := c.Query("agent_id"); agentStr != "" {
			var aid uint
			if _, err := fmt.Sscan(agentStr, &aid); err != nil || aid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "agent_id is invalid")
			}
			dbq = dbq.Where("agent_id = ?", aid)
		}

		var sales []models.Sale
		if err := dbq.Order("created_at desc, id desc").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		resp := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			resp = append(resp, toSaleResponse(s))
		}

		return c.JSON(resp)
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.
			Preload("Customer").
			Preload("Agent").
			Preload("PaymentPlan").
			First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		resp := fiber.Map{"sale": toSaleResponse(sale)}
		if sale.PaymentPlan != nil {
			resp["payment_plan"] = fiber.Map{
				"downpayment_amount":  sale.PaymentPlan.DownpaymentAmount,
				"monthly_installment": sale.PaymentPlan.MonthlyInstallment,
				"installment_months":  sale.PaymentPlan.InstallmentMonths,
				"possession_amount":   sale.PaymentPlan.PossessionAmount,
			}
		}

		return c.JSON(resp)
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		// snapshot the row itself so an undo can decode it back
		before := sale

		if body.UnitNumber != nil {
			un := strings.TrimSpace(*body.UnitNumber)
			if un == "" {
				return fiber.NewError(fiber.StatusBadRequest, "unit_number cannot be empty")
			}
			sale.UnitNumber = un
		}
		if body.UnitTotalPrice != nil {
			if *body.UnitTotalPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_total_price must be greater than 0")
			}
			sale.UnitTotalPrice = *body.UnitTotalPrice
		}
		if body.Status != nil {
			st := models.SaleStatus(*body.Status)
			switch st {
			case models.SaleStatusActive, models.SaleStatusCompleted, models.SaleStatusDefaulted:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status must be active, completed or defaulted")
			}
			sale.Status = st
		}

		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update sale")
		}

		userIDVal := c.Locals(auth.CtxUserIDKey)
		if userID, ok := userIDVal.(uint); ok {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				if logErr := audit.WriteLog(audit.LogOptions{
					UserID:      userID,
					UserName:    user.Name,
					EntityType:  "sale",
					EntityID:    sale.ID,
					Action:      models.AuditActionUpdate,
					Description: fmt.Sprintf("Sale updated: unit %s", sale.UnitNumber),
					Before:      before,
					After:       sale,
				}); logErr != nil {
					log.Printf("Could not write audit log: %v", logErr)
				}
			}
		}

		var updated models.Sale
		if err := database.DB.Preload("Customer").Preload("Agent").First(&updated, sale.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load updated sale")
		}

		return c.JSON(toSaleResponse(updated))
	}
}

// DELETE /api/sales/:id (admin only) - cascades plan, entries, commissions
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.LedgerEntry{}, "sale_id = ?", sale.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Commission{}, "sale_id = ?", sale.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.PaymentPlan{}, "sale_id = ?", sale.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Sale{}, "id = ?", sale.ID).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete sale")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/customers
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customers []models.Customer
		if err := database.DB.Order("name asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		type customerResponse struct {
			ID      uint   `json:"id"`
			Name    string `json:"name"`
			Contact string `json:"contact"`
			Email   string `json:"email"`
			Address string `json:"address"`
		}
		resp := make([]customerResponse, 0, len(customers))
		for _, cu := range customers {
			resp = append(resp, customerResponse{
				ID:      cu.ID,
				Name:    cu.Name,
				Contact: cu.Contact,
				Email:   cu.Email,
				Address: cu.Address,
			})
		}

		return c.JSON(resp)
	}
}

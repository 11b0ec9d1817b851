package commission

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

type CommissionEntryRequest struct {
	RecipientName string  `json:"recipient_name"`
	RecipientType string  `json:"recipient_type"` // agent / dealer / coo
	Percentage    float64 `json:"percentage"`     // of the sale amount
	Notes         string  `json:"notes"`
}

type SaveCommissionsRequest struct {
	Commissions []CommissionEntryRequest `json:"commissions"`
}

type ReleaseRequest struct {
	Tranche string `json:"tranche"` // "70" or "30"
}

type CommissionResponse struct {
	ID              uint    `json:"id"`
	SaleID          uint    `json:"sale_id"`
	UnitNumber      string  `json:"unit_number"`
	CustomerName    string  `json:"customer_name"`
	RecipientName   string  `json:"recipient_name"`
	RecipientType   string  `json:"recipient_type"`
	TotalAmount     float64 `json:"total_amount"`
	Amount70Percent float64 `json:"amount_70_percent"`
	Amount30Percent float64 `json:"amount_30_percent"`
	Status70Percent string  `json:"status_70_percent"`
	Status30Percent string  `json:"status_30_percent"`
	Released70Date  *string `json:"released_70_date"`
	Released30Date  *string `json:"released_30_date"`
	Notes           string  `json:"notes"`
}

type CommissionSummary struct {
	TotalCommissions float64 `json:"total_commissions"`
	Released70       float64 `json:"released_70"`
	Released30       float64 `json:"released_30"`
	TotalReleased    float64 `json:"total_released"`
}

func toCommissionResponse(cm models.Commission, sale *models.Sale) CommissionResponse {
	resp := CommissionResponse{
		ID:              cm.ID,
		SaleID:          cm.SaleID,
		RecipientName:   cm.RecipientName,
		RecipientType:   string(cm.RecipientType),
		TotalAmount:     cm.TotalAmount,
		Amount70Percent: cm.Amount70Percent,
		Amount30Percent: cm.Amount30Percent,
		Status70Percent: string(cm.Status70Percent),
		Status30Percent: string(cm.Status30Percent),
		Notes:           cm.Notes,
	}
	if cm.Released70Date != nil {
		s := cm.Released70Date.Format("2006-01-02")
		resp.Released70Date = &s
	}
	if cm.Released30Date != nil {
		s := cm.Released30Date.Format("2006-01-02")
		resp.Released30Date = &s
	}
	if sale != nil {
		resp.UnitNumber = sale.UnitNumber
		resp.CustomerName = sale.Customer.Name
	}
	return resp
}

// PUT /api/sales/:id/commissions
//
// Replaces the sale's commission set. Amounts derive from the requested
// percentage of the unit price; the 70/30 split is fixed.
func SaveSaleCommissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		saleID := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", saleID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		var body SaveCommissionsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if len(body.Commissions) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one commission entry is required")
		}

		commissions := make([]models.Commission, 0, len(body.Commissions))
		for _, entry := range body.Commissions {
			name := strings.TrimSpace(entry.RecipientName)
			if name == "" || entry.Percentage <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Recipient names and percentages are required")
			}

			rt := models.RecipientType(entry.RecipientType)
			switch rt {
			case models.RecipientAgent, models.RecipientDealer, models.RecipientCoo:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "recipient_type must be agent, dealer or coo")
			}

			total := (entry.Percentage / 100) * sale.UnitTotalPrice
			commissions = append(commissions, models.Commission{
				SaleID:          sale.ID,
				RecipientName:   name,
				RecipientType:   rt,
				TotalAmount:     total,
				Amount70Percent: total * 0.7,
				Amount30Percent: total * 0.3,
				Status70Percent: models.TranchePending,
				Status30Percent: models.TranchePending,
				Notes:           strings.TrimSpace(entry.Notes),
			})
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Commission{}, "sale_id = ?", sale.ID).Error; err != nil {
				return err
			}
			return tx.Create(&commissions).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save commissions")
		}

		resp := make([]CommissionResponse, 0, len(commissions))
		for _, cm := range commissions {
			resp = append(resp, toCommissionResponse(cm, &sale))
		}

		return c.JSON(resp)
	}
}

// GET /api/commissions
func ListCommissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var commissions []models.Commission
		if err := database.DB.Order("created_at desc").Find(&commissions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list commissions")
		}

		// one lookup per distinct sale
		saleByID := make(map[uint]*models.Sale)
		resp := make([]CommissionResponse, 0, len(commissions))
		summary := CommissionSummary{}

		for _, cm := range commissions {
			sale, ok := saleByID[cm.SaleID]
			if !ok {
				var s models.Sale
				if err := database.DB.Preload("Customer").First(&s, cm.SaleID).Error; err == nil {
					sale = &s
				}
				saleByID[cm.SaleID] = sale
			}

			summary.TotalCommissions += cm.TotalAmount
			if cm.Status70Percent == models.TrancheReleased {
				summary.Released70 += cm.Amount70Percent
			}
			if cm.Status30Percent == models.TrancheReleased {
				summary.Released30 += cm.Amount30Percent
			}

			resp = append(resp, toCommissionResponse(cm, sale))
		}
		summary.TotalReleased = summary.Released70 + summary.Released30

		return c.JSON(fiber.Map{
			"commissions": resp,
			"summary":     summary,
		})
	}
}

// POST /api/commissions/:id/release
//
// Releases a tranche only when its condition holds against the sale's
// ledger: 70% needs the downpayment cleared, 30% needs every installment
// paid.
func ReleaseCommissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cm models.Commission
		if err := database.DB.First(&cm, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Commission not found")
		}

		var body ReleaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Tranche != "70" && body.Tranche != "30" {
			return fiber.NewError(fiber.StatusBadRequest, "tranche must be '70' or '30'")
		}

		if body.Tranche == "70" && cm.Status70Percent == models.TrancheReleased {
			return fiber.NewError(fiber.StatusBadRequest, "70% tranche is already released")
		}
		if body.Tranche == "30" && cm.Status30Percent == models.TrancheReleased {
			return fiber.NewError(fiber.StatusBadRequest, "30% tranche is already released")
		}

		var entries []models.LedgerEntry
		if err := database.DB.Where("sale_id = ?", cm.SaleID).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sale ledger")
		}

		if !CanRelease(body.Tranche, entries) {
			if body.Tranche == "70" {
				return fiber.NewError(fiber.StatusBadRequest, "Downpayment is not cleared yet")
			}
			return fiber.NewError(fiber.StatusBadRequest, "Installments are not cleared yet")
		}

		// snapshot the row itself so an undo can decode it back
		before := cm

		now := time.Now()
		if body.Tranche == "70" {
			cm.Status70Percent = models.TrancheReleased
			cm.Released70Date = &now
		} else {
			cm.Status30Percent = models.TrancheReleased
			cm.Released30Date = &now
		}

		if err := database.DB.Save(&cm).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not release commission")
		}

		userIDVal := c.Locals(auth.CtxUserIDKey)
		if userID, ok := userIDVal.(uint); ok {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				if logErr := audit.WriteLog(audit.LogOptions{
					UserID:      userID,
					UserName:    user.Name,
					EntityType:  "commission",
					EntityID:    cm.ID,
					Action:      models.AuditActionUpdate,
					Description: fmt.Sprintf("Commission %s%% tranche released for %s", body.Tranche, cm.RecipientName),
					Before:      before,
					After:       cm,
				}); logErr != nil {
					log.Printf("Could not write audit log: %v", logErr)
				}
			}
		}

		return c.JSON(toCommissionResponse(cm, nil))
	}
}

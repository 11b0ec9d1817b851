package auth

import (
	"net/http/httptest"
	"testing"

	"estate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Module gates attach per-route; routes without one must stay reachable for
// any authenticated user even when gated routes share the same prefix.
func TestRequireModuleGatesOnlyItsRoute(t *testing.T) {
	app := fiber.New()
	api := app.Group("/api")

	// a Sales-department manager: sales module only
	api.Use(func(c *fiber.Ctx) error {
		c.Locals(CtxUserIDKey, uint(1))
		c.Locals(CtxUserRoleKey, models.RoleManager)
		c.Locals(CtxDepartmentKey, "Sales")
		return c.Next()
	})

	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	api.Get("/sales", RequireModule(ModuleSales), ok)
	api.Get("/commissions", RequireModule(ModuleCommission), ok)
	api.Get("/journal-entries", RequireModule(ModuleAccounting), ok)
	api.Get("/audit-logs", ok)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/sales", fiber.StatusOK},
		{"/api/commissions", fiber.StatusForbidden},
		{"/api/journal-entries", fiber.StatusForbidden},
		{"/api/audit-logs", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

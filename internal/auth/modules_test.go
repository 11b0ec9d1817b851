package auth

import (
	"testing"

	"estate-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessModule(t *testing.T) {
	tests := []struct {
		name       string
		role       models.UserRole
		department string
		moduleID   string
		want       bool
	}{
		{"admin bypasses department gating", models.RoleAdmin, "", ModuleAccounting, true},
		{"ceo_coo bypasses department gating", models.RoleCeoCoo, "Sales", ModuleAudit, true},
		{"sales agent can use sales", models.RoleAgent, "Sales", ModuleSales, true},
		{"sales agent cannot use accounting", models.RoleAgent, "Sales", ModuleAccounting, false},
		{"accounting manager can use commissions", models.RoleManager, "Accounting", ModuleCommission, true},
		{"finance executive can use accounting", models.RoleExecutive, "Finance", ModuleAccounting, true},
		{"unknown department gets nothing", models.RoleAgent, "Marketing", ModuleSales, false},
		{"empty department gets nothing", models.RoleManager, "", ModuleSales, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessModule(tt.role, tt.department, tt.moduleID))
		})
	}
}

func TestAllowedModules(t *testing.T) {
	t.Run("admin sees every module", func(t *testing.T) {
		mods := AllowedModules(models.RoleAdmin, "")
		assert.ElementsMatch(t, []string{ModuleSales, ModuleAccounting, ModuleCommission, ModuleAudit}, mods)
	})

	t.Run("sales department sees sales only", func(t *testing.T) {
		assert.Equal(t, []string{ModuleSales}, AllowedModules(models.RoleAgent, "Sales"))
	})

	t.Run("unknown department sees nothing", func(t *testing.T) {
		assert.Empty(t, AllowedModules(models.RoleAgent, "Legal"))
	})
}

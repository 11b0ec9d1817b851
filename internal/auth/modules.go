package auth

import "estate-backend/internal/models"

// Module IDs guarding route groups. Which modules a user can reach is decided
// by their department; admin and ceo_coo see everything.
const (
	ModuleSales      = "sales"
	ModuleAccounting = "accounting"
	ModuleCommission = "commission-management"
	ModuleAudit      = "audit"
)

var departmentModules = map[string][]string{
	"Accounting": {ModuleAccounting, ModuleSales, ModuleCommission},
	"Finance":    {ModuleAccounting, ModuleSales, ModuleCommission},
	"Sales":      {ModuleSales},
}

// CanAccessModule reports whether a role/department pair may use a module.
func CanAccessModule(role models.UserRole, department, moduleID string) bool {
	if role == models.RoleAdmin || role == models.RoleCeoCoo {
		return true
	}
	for _, id := range departmentModules[department] {
		if id == moduleID {
			return true
		}
	}
	return false
}

// AllowedModules lists the module IDs a role/department pair may use.
func AllowedModules(role models.UserRole, department string) []string {
	if role == models.RoleAdmin || role == models.RoleCeoCoo {
		return []string{ModuleSales, ModuleAccounting, ModuleCommission, ModuleAudit}
	}
	mods := departmentModules[department]
	if mods == nil {
		return []string{}
	}
	return mods
}

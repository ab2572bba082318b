package domain

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleClient  = "client"
)

type Claims struct {
	UserID    string   `json:"uid"`
	Role      string   `json:"role"`
	TenantIDs []string `json:"tenants"`
	jwt.RegisteredClaims
}

// CanAccessTenant libera todos os tenants para administradores
func (c *Claims) CanAccessTenant(tenantID string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleAdmin {
		return true
	}
	for _, id := range c.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

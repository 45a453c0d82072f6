package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Application permissions
const (
	PermissionAccountRead  = "account:read"
	PermissionAccountWrite = "account:write"
	PermissionLedgerWrite  = "ledger:write"
	PermissionPaymentWrite = "payment:write"
	PermissionAdminRead    = "admin:read"
	PermissionAdminWrite   = "admin:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	TokenVersion int       `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission.
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role.
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionAccountRead,
			PermissionAccountWrite,
			PermissionLedgerWrite,
			PermissionPaymentWrite,
			PermissionAdminRead,
			PermissionAdminWrite,
		}
	case RoleMerchant, RoleUser:
		return []string{
			PermissionAccountRead,
			PermissionPaymentWrite,
		}
	default:
		return []string{}
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/domain/identity"
)

// RequireRoles allows the request through only when the caller's role
// is one of the given roles
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if !allowed[role] {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts an endpoint to administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleAdmin)
}

// RequireInvoiceManager restricts committed invoice updates and
// deletes. Cashiers may create invoices but not rewrite history.
func RequireInvoiceManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if !role.CanManageInvoices() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Insufficient permissions",
		},
	})
}

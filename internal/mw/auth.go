package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BrianDuong3003/Room-Booking-System/internal/auth"
	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

// Context keys set by RequireAuth.
const (
	CtxUserID = "user_id"
	CtxEmail  = "user_email"
	CtxRole   = "user_role"
)

// RequireAuth checks Authorization: Bearer <token>, validates the JWT and
// injects the caller's identity into the gin context.
func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims, err := issuer.Verify(strings.TrimSpace(header[7:]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin blocks non-admin callers. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if role.(model.UserRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proactivefit/proactive-server/pkg/helpers"
	"github.com/proactivefit/proactive-server/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxEmailKey  = "userEmail"
	CtxRoleKey   = "userRole"
	CtxClaimsKey = "claims"
)

// Auth verifies the Authorization bearer token and injects the decoded
// identity claim {email, role} into the Gin context. The claim's email is
// trusted for all toggle and settlement calls downstream.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "could not identify user", nil)
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, "could not identify user", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "unauthorized access", err.Error())
			c.Abort()
			return
		}
		c.Set(CtxEmailKey, claims.Email)
		c.Set(CtxRoleKey, claims.Role)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route on the verified identity claim. One capability
// check per request, evaluated against the claim set by Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxClaimsKey)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "could not identify user", nil)
			c.Abort()
			return
		}
		claims, ok := v.(*helpers.Claims)
		if !ok || !claims.HasRole(role) {
			response.Error(c, http.StatusForbidden, "forbidden access", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

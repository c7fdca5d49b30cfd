package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/pkg/jwt"
	"github.com/joban727/medstintapp-sub005/pkg/response"
)

// JWTAuth verifies the bearer token issued by the identity provider and
// injects user_id, role and school_id into the context.
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "Malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if !model.Role(claims.Role).Valid() {
			response.Unauthorized(c, "Unknown role")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID())
		c.Set("role", claims.Role)
		c.Set("school_id", claims.SchoolID)

		c.Next()
	}
}

// RoleAuth admits only the listed roles. Use after JWTAuth.
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if model.Role(role) == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

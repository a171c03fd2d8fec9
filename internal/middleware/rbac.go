package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/edi2410/algebra-radegast/internal/models"
	appErrors "github.com/edi2410/algebra-radegast/pkg/errors"
	"github.com/edi2410/algebra-radegast/pkg/response"
)

// RequireRoles enforces role-based access control for routes. The JWT
// middleware must run first; a missing current user is unauthorized, an
// insufficient role is forbidden.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		userValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		user, ok := userValue.(*models.User)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin gates admin-only routes.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// RequireNotGuest gates content-creator routes: any authenticated role except
// the unprivileged guest role passes.
func RequireNotGuest() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleTeacher)
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edi2410/algebra-radegast/internal/service"
	appErrors "github.com/edi2410/algebra-radegast/pkg/errors"
	"github.com/edi2410/algebra-radegast/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved current user.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid bearer token. The token subject is
// re-resolved to a user on every request, so a deleted account is rejected
// even while its token is still within TTL.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		user, err := authService.ResolveUser(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

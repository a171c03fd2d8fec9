package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edi2410/algebra-radegast/internal/middleware"
	"github.com/edi2410/algebra-radegast/internal/models"
)

func currentUser(c *gin.Context) *models.User {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

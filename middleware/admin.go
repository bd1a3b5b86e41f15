package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/models"
)

// RequireAdmin gates admin endpoints. It runs after ValidateToken, so failure
// here means "authenticated but not allowed", distinct from any auth failure.
func RequireAdmin(c *gin.Context) {
	if CurrentUser(c).Role != models.RoleAdmin {
		apperr.Fail(c, apperr.ErrForbidden)
		return
	}
	c.Next()
}

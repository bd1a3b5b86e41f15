package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/auth"
	productControllers "github.com/haku19602/beetlefactory-back/controllers/product"
	userControllers "github.com/haku19602/beetlefactory-back/controllers/user"
	"github.com/haku19602/beetlefactory-back/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers the "/admin/*" endpoints. The role gate runs
// after token validation, so a member with a valid token gets 403 here, not
// 401.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, sessions *auth.SessionManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken(sessions), middleware.RequireAdmin)
	{
		admin.GET("/users", userControllers.GetAllUsers(db))
		admin.DELETE("/users/:id", userControllers.DeleteUser(db))

		admin.GET("/products/:id", productControllers.GetAdminProductByID(db))
	}
}

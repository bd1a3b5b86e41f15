package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/auth"
	userControllers "github.com/haku19602/beetlefactory-back/controllers/user"
	"github.com/haku19602/beetlefactory-back/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/users/*" endpoints. Everything past register
// and login requires a valid bearer token; logout and extend are the only two
// endpoints an expired token may still reach.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, sessions *auth.SessionManager, log *zap.Logger) {
	users := r.Group("/users")
	{
		users.POST("/", userControllers.Register(db))
		users.POST("/login", userControllers.Login(db, sessions, log))
	}

	authed := r.Group("/users")
	authed.Use(middleware.ValidateToken(sessions))
	{
		authed.DELETE("/logout", userControllers.Logout(sessions))
		authed.PATCH("/extend", userControllers.Extend(sessions))
		authed.GET("/me", userControllers.GetProfile)

		authed.PATCH("/cart", userControllers.EditCart(db))
		authed.GET("/cart", userControllers.GetCart(db))

		authed.PATCH("/likes", userControllers.ToggleLike(db))
		authed.GET("/likes", userControllers.GetLikes(db))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up the user, product,
// order, and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, sessions *auth.SessionManager, log *zap.Logger) {
	SetupUserRoutes(r, db, sessions, log)
	SetupProductRoutes(r, db)
	SetupOrderRoutes(r, db, sessions)
	SetupAdminRoutes(r, db, sessions)
}

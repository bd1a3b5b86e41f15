package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/auth"
	orderControllers "github.com/haku19602/beetlefactory-back/controllers/order"
	"github.com/haku19602/beetlefactory-back/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, sessions *auth.SessionManager) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(sessions))
	{
		// Place an order from the current cart
		orders.POST("/", orderControllers.CreateOrder(db))

		// Own orders
		orders.GET("/", orderControllers.GetMyOrders(db))
		orders.GET("/:id", orderControllers.GetOrderByID(db))

		// Admin order maintenance
		admin := orders.Group("")
		admin.Use(middleware.RequireAdmin)
		{
			admin.GET("/all", orderControllers.GetAllOrders(db))
			admin.GET("/export", orderControllers.ExportOrdersToExcel(db))
			admin.GET("/ws", orderControllers.OrderWebSocketHandler)
			admin.PATCH("/:id", orderControllers.UpdateOrderFlags(db))
		}
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	productControllers "github.com/haku19602/beetlefactory-back/controllers/product"
	"gorm.io/gorm"
)

// SetupProductRoutes registers the public catalog reads. Members only ever see
// listed products here; the admin view lives under /admin.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("/", productControllers.GetProducts(db))
		products.GET("/:id", productControllers.GetProductByID(db))
	}
}

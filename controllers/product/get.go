package productControllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/models"
	"gorm.io/gorm"
)

var productSortKeys = map[string]bool{
	"created_at": true,
	"id":         true,
	"price":      true,
	"name":       true,
	"stock":      true,
}

// GET /products lists listed products only, sortable and paginated with the same
// defaults as the order listing (newest first, 20 per page).
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortBy := "created_at"
		if productSortKeys[c.Query("sortBy")] {
			sortBy = c.Query("sortBy")
		}
		direction := " desc"
		if n, err := strconv.Atoi(c.Query("sortOrder")); err == nil && n == 1 {
			direction = " asc"
		}
		page := 1
		if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
			page = n
		}
		perPage := 20
		if n, err := strconv.Atoi(c.Query("itemsPerPage")); err == nil && n > 0 {
			perPage = n
		}

		var total int64
		if err := db.Model(&models.Product{}).Where("sell = ?", true).
			Count(&total).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		var products []models.Product
		if err := db.Where("sell = ?", true).
			Order(sortBy + direction).
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&products).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		apperr.OK(c, gin.H{"data": products, "total": total})
	}
}

// GET /products/:id is the member view; a delisted product
// reads the same as a missing one.
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return getProduct(db, false)
}

// GET /admin/products/:id is the admin view, delisted included.
func GetAdminProductByID(db *gorm.DB) gin.HandlerFunc {
	return getProduct(db, true)
}

func getProduct(db *gorm.DB, includeDelisted bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			apperr.Fail(c, apperr.ErrProductNotFound)
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Fail(c, apperr.ErrProductNotFound)
				return
			}
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		if !product.Sell && !includeDelisted {
			apperr.Fail(c, apperr.ErrProductNotFound)
			return
		}
		apperr.OK(c, product)
	}
}

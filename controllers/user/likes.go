package userControllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/middleware"
	"github.com/haku19602/beetlefactory-back/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ToggleLikeInput struct {
	Product string `json:"product" binding:"required"`
}

// PATCH /users/likes
//
// Toggle semantics: present removes, absent validates the product is listed
// and appends. Returns the new wishlist size.
func ToggleLike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input ToggleLikeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Fail(c, apperr.Validation("", "缺少商品欄位"))
			return
		}
		productID, err := strconv.ParseUint(input.Product, 10, 32)
		if err != nil {
			apperr.Fail(c, apperr.ErrInvalidProductRef)
			return
		}

		var count int64
		err = db.Transaction(func(tx *gorm.DB) error {
			var locked models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, "id = ?", user.ID).Error; err != nil {
				return apperr.Unknown(err)
			}

			var like models.LikeItem
			err := tx.Where("user_id = ? AND product_id = ?", user.ID, productID).
				First(&like).Error
			switch {
			case err == nil:
				if err := tx.Delete(&like).Error; err != nil {
					return apperr.Unknown(err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				var product models.Product
				if err := tx.First(&product, "id = ?", productID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.ErrProductNotFound
					}
					return apperr.Unknown(err)
				}
				if !product.Sell {
					return apperr.ErrProductNotFound
				}
				newLike := models.LikeItem{
					UserID:    user.ID,
					ProductID: uint(productID),
					CreatedAt: time.Now(),
				}
				if err := tx.Create(&newLike).Error; err != nil {
					return apperr.Unknown(err)
				}
			default:
				return apperr.Unknown(err)
			}

			return tx.Model(&models.LikeItem{}).
				Where("user_id = ?", user.ID).
				Count(&count).Error
		})
		if err != nil {
			apperr.Fail(c, err)
			return
		}

		apperr.OK(c, count)
	}
}

// GET /users/likes
func GetLikes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		var likes []models.LikeItem
		if err := db.Preload("Product").
			Where("user_id = ?", user.ID).
			Order("created_at").
			Find(&likes).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		apperr.OK(c, likes)
	}
}

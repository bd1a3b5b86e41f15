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

type EditCartInput struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// cartStep is the computed transition for one cart entry. Quantity arithmetic
// is kept pure so the stock-clamp rules are testable without a database.
type cartStep struct {
	Quantity     int  // entry quantity after the step (0 with Remove set)
	Remove       bool // drop the entry entirely
	Insufficient bool // the step was clamped by stock and must report failure
}

// nextCartStep merges a signed quantity delta into a cart entry.
//
// Existing entries merge the delta: a non-positive result removes the entry, a
// result above stock clamps to stock but still reports the shortage, so the
// stored cart always respects stock even on a failed call. New entries reject
// delisted products outright and never clamp: if the requested amount exceeds
// stock there is nothing to clamp to.
func nextCartStep(existing int, hasEntry bool, delta, stock int, sell bool) (cartStep, error) {
	if hasEntry {
		next := existing + delta
		switch {
		case next <= 0:
			return cartStep{Remove: true}, nil
		case next > stock:
			if stock <= 0 {
				return cartStep{Remove: true, Insufficient: true}, nil
			}
			return cartStep{Quantity: stock, Insufficient: true}, nil
		default:
			return cartStep{Quantity: next}, nil
		}
	}
	if delta <= 0 {
		return cartStep{}, apperr.Validation("quantity", "缺少商品數量")
	}
	if !sell {
		// Delisted reads the same as missing to members.
		return cartStep{}, apperr.ErrProductNotFound
	}
	if delta > stock {
		return cartStep{}, apperr.ErrInsufficientStock
	}
	return cartStep{Quantity: delta}, nil
}

// PATCH /users/cart
//
// Single entry point for add, adjust, and remove, keyed by product id plus a
// signed quantity delta. The account row is locked for the whole transaction
// so two devices editing the same cart serialize instead of losing updates.
func EditCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input EditCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Fail(c, apperr.Validation("", "缺少商品欄位 或 商品數量"))
			return
		}
		productID, err := strconv.ParseUint(input.Product, 10, 32)
		if err != nil {
			apperr.Fail(c, apperr.ErrInvalidProductRef)
			return
		}

		var (
			total        int
			insufficient bool
		)
		err = db.Transaction(func(tx *gorm.DB) error {
			// Per-account serialization point for all cart mutations.
			var locked models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, "id = ?", user.ID).Error; err != nil {
				return apperr.Unknown(err)
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.ErrProductNotFound
				}
				return apperr.Unknown(err)
			}

			var item models.CartItem
			hasEntry := true
			if err := tx.Where("user_id = ? AND product_id = ?", user.ID, productID).
				First(&item).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Unknown(err)
				}
				hasEntry = false
			}

			step, err := nextCartStep(item.Quantity, hasEntry, input.Quantity, product.Stock, product.Sell)
			if err != nil {
				return err
			}
			insufficient = step.Insufficient

			switch {
			case step.Remove && hasEntry:
				if err := tx.Delete(&item).Error; err != nil {
					return apperr.Unknown(err)
				}
			case hasEntry:
				item.Quantity = step.Quantity
				item.AddedAt = time.Now()
				if err := tx.Save(&item).Error; err != nil {
					return apperr.Unknown(err)
				}
			default:
				newItem := models.CartItem{
					UserID:    user.ID,
					ProductID: uint(productID),
					Quantity:  step.Quantity,
					AddedAt:   time.Now(),
				}
				if err := tx.Create(&newItem).Error; err != nil {
					return apperr.Unknown(err)
				}
			}

			return tx.Model(&models.CartItem{}).
				Where("user_id = ?", user.ID).
				Select("COALESCE(SUM(quantity), 0)").
				Scan(&total).Error
		})
		if err != nil {
			apperr.Fail(c, err)
			return
		}
		if insufficient {
			// The clamp was committed above; the call still reports failure.
			apperr.Fail(c, apperr.ErrInsufficientStock)
			return
		}

		apperr.OK(c, total)
	}
}

// GET /users/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		var items []models.CartItem
		if err := db.Preload("Product").
			Where("user_id = ?", user.ID).
			Order("added_at").
			Find(&items).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		apperr.OK(c, items)
	}
}

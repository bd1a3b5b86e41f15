package orderControllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/middleware"
	"github.com/haku19602/beetlefactory-back/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request structs --------

type CreateOrderInput struct {
	Delivery string `json:"delivery"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Note     string `json:"note"`
}

type UpdateOrderFlagsInput struct {
	Paid *bool `json:"paid"`
	Done *bool `json:"done"`
}

// -------- Helpers --------

// validateOrderInput checks the delivery fields one at a time, first offending
// field wins. Runs before the transaction so a bad request never touches stock.
func validateOrderInput(input CreateOrderInput) *apperr.Error {
	switch {
	case input.Delivery == "":
		return apperr.Validation("delivery", "缺少運送方式")
	case !models.ValidDelivery(models.DeliveryMethod(input.Delivery)):
		return apperr.Validation("delivery", "非指定運送方式")
	case input.Address == "":
		return apperr.Validation("address", "缺少收件地址")
	case input.Name == "":
		return apperr.Validation("name", "缺少收件人姓名")
	case input.Phone == "":
		return apperr.Validation("phone", "缺少收件人電話")
	}
	return nil
}

// snapshotItems freezes the cart lines into order items so later catalog edits
// cannot rewrite the order.
func snapshotItems(cart []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Product.Name,
			ProductPrice: line.Product.Price,
			Quantity:     line.Quantity,
		})
	}
	return items
}

// listQuery is the admin listing window.
type listQuery struct {
	SortBy       string
	Descending   bool
	Page         int
	ItemsPerPage int
}

// orderSortKeys is the allowlist of sortable columns.
var orderSortKeys = map[string]bool{
	"created_at": true,
	"id":         true,
	"paid":       true,
	"done":       true,
}

// parseListQuery reads sortBy / sortOrder / page / itemsPerPage with the
// defaults newest-first, page 1, 20 per page. Unknown sort keys fall back to
// created_at rather than reaching the SQL string.
func parseListQuery(sortBy, sortOrder, page, itemsPerPage string) listQuery {
	q := listQuery{SortBy: "created_at", Descending: true, Page: 1, ItemsPerPage: 20}
	if orderSortKeys[sortBy] {
		q.SortBy = sortBy
	}
	if n, err := strconv.Atoi(sortOrder); err == nil && n == 1 {
		q.Descending = false
	}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(itemsPerPage); err == nil && n > 0 {
		q.ItemsPerPage = n
	}
	return q
}

func (q listQuery) orderClause() string {
	if q.Descending {
		return q.SortBy + " desc"
	}
	return q.SortBy + " asc"
}

// -------- Handlers --------

// POST /orders
//
// The whole checkout is one transaction: lock the account row, re-validate
// every cart line against the locked product rows, decrement stock, snapshot
// the order, clear the cart. Product rows are locked in ascending id order so
// two concurrent checkouts cannot deadlock, and the quantity check runs at
// apply time under the lock, so stock can never go negative. Any failing line
// rolls the whole order back.
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input CreateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Fail(c, apperr.Validation("", "缺少運送方式"))
			return
		}
		if verr := validateOrderInput(input); verr != nil {
			apperr.Fail(c, verr)
			return
		}

		var order models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var locked models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, "id = ?", user.ID).Error; err != nil {
				return apperr.Unknown(err)
			}

			var cart []models.CartItem
			if err := tx.Preload("Product").
				Where("user_id = ?", user.ID).
				Order("product_id").
				Find(&cart).Error; err != nil {
				return apperr.Unknown(err)
			}
			if len(cart) == 0 {
				return apperr.ErrEmptyCart
			}

			for i := range cart {
				var product models.Product
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&product, "id = ?", cart[i].ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.ErrCartStale
					}
					return apperr.Unknown(err)
				}
				// Authoritative re-check: the cart was filled at add time and
				// may be stale by now.
				if !product.Sell || product.Stock < cart[i].Quantity {
					return apperr.ErrCartStale
				}
				product.Stock -= cart[i].Quantity
				if err := tx.Save(&product).Error; err != nil {
					return apperr.Unknown(err)
				}
				cart[i].Product = product
			}

			order = models.Order{
				UserID:   user.ID,
				Items:    snapshotItems(cart),
				Delivery: models.DeliveryMethod(input.Delivery),
				Address:  input.Address,
				Name:     input.Name,
				Phone:    input.Phone,
				Note:     input.Note,
			}
			if err := tx.Create(&order).Error; err != nil {
				return apperr.Unknown(err)
			}

			if err := tx.Where("user_id = ?", user.ID).
				Delete(&models.CartItem{}).Error; err != nil {
				return apperr.Unknown(err)
			}
			return nil
		})
		if err != nil {
			apperr.Fail(c, err)
			return
		}

		broadcastNewOrder(order)
		apperr.OK(c, nil)
	}
}

// GET /orders returns own orders only, newest first.
func GetMyOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", user.ID).
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		apperr.OK(c, orders)
	}
}

// GET /orders/:id returns one of the caller's own orders.
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			// Malformed ids read the same as missing ones.
			apperr.Fail(c, apperr.ErrNotFound)
			return
		}
		var order models.Order
		if err := db.Preload("Items").
			Where("id = ? AND user_id = ?", id, user.ID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Fail(c, apperr.ErrNotFound)
				return
			}
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		apperr.OK(c, order)
	}
}

// GET /orders/all (admin) lists all orders, sortable and paginated.
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := parseListQuery(
			c.Query("sortBy"),
			c.Query("sortOrder"),
			c.Query("page"),
			c.Query("itemsPerPage"),
		)

		var total int64
		if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		var orders []models.Order
		if err := db.Preload("Items").
			Order(q.orderClause()).
			Offset((q.Page - 1) * q.ItemsPerPage).
			Limit(q.ItemsPerPage).
			Find(&orders).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		apperr.OK(c, gin.H{"data": orders, "total": total})
	}
}

// PATCH /orders/:id (admin) updates paid/done, the only mutable order fields.
func UpdateOrderFlags(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			apperr.Fail(c, apperr.ErrNotFound)
			return
		}

		var input UpdateOrderFlagsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Fail(c, apperr.Validation("", "缺少付款狀態"))
			return
		}
		updates := make(map[string]any)
		if input.Paid != nil {
			updates["paid"] = *input.Paid
		}
		if input.Done != nil {
			updates["done"] = *input.Done
		}
		if len(updates) == 0 {
			apperr.Fail(c, apperr.Validation("", "缺少付款狀態"))
			return
		}

		result := db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			apperr.Fail(c, apperr.Unknown(result.Error))
			return
		}
		if result.RowsAffected == 0 {
			apperr.Fail(c, apperr.ErrNotFound)
			return
		}
		apperr.OK(c, nil)
	}
}

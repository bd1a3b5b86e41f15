package orderControllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /orders/export (admin) downloads all orders as a spreadsheet.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		headers := []string{
			"ID", "UserID", "Items", "Delivery", "Address",
			"Name", "Phone", "Note", "Paid", "Done", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(itemsSummary(o.Items))
			row.AddCell().SetValue(string(o.Delivery))
			row.AddCell().SetValue(o.Address)
			row.AddCell().SetValue(o.Name)
			row.AddCell().SetValue(o.Phone)
			row.AddCell().SetValue(o.Note)
			row.AddCell().SetValue(o.Paid)
			row.AddCell().SetValue(o.Done)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			apperr.Fail(c, apperr.Unknown(err))
		}
	}
}

func itemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity))
	}
	return strings.Join(parts, "; ")
}

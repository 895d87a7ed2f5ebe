package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/store"
)

const (
	sheetName       = "Products"
	timeLayout      = "2006-01-02 15:04:05"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Column order of the export, which the import reads back.
var columns = []string{
	"ID", "Name", "TeamSlug", "Price", "OriginalPrice", "Image",
	"IsNew", "IsBestseller", "Rating", "CreatedAt", "UpdatedAt",
}

const (
	colID = iota
	colName
	colTeamSlug
	colPrice
	colOriginalPrice
	colImage
	colIsNew
	colIsBestseller
	colRating
)

func ExportProductsToExcel(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := d.Products.List(c.Request.Context(), store.ProductQuery{OrderBy: store.OrderName})
		if err != nil {
			d.Log.Error("export products failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet(sheetName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		header := sheet.AddRow()
		for _, h := range columns {
			header.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.TeamSlug)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			if p.OriginalPrice != nil {
				row.AddCell().SetValue(p.OriginalPrice.StringFixed(2))
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(p.Image)
			row.AddCell().SetValue(strconv.FormatBool(p.IsNew))
			row.AddCell().SetValue(strconv.FormatBool(p.IsBestseller))
			row.AddCell().SetValue(strconv.FormatFloat(p.Rating, 'f', -1, 64))
			row.AddCell().SetValue(p.CreatedAt.UTC().Format(timeLayout))
			row.AddCell().SetValue(p.UpdatedAt.UTC().Format(timeLayout))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			d.Log.Error("write excel failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

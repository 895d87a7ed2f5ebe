package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/store"
)

// ImportProductsFromExcel reads a sheet laid out like the export. Rows whose
// ID matches a product update it; the rest are created. Invalid rows are
// skipped and counted.
func ImportProductsFromExcel(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer f.Close()

		xlFile, err := xlsx.OpenReaderAt(f, fh.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		created, updated, skipped := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			p, err := rowProduct(sheet.Rows[i])
			if err != nil {
				skipped++
				continue
			}

			if p.ID != "" {
				existing, err := d.Products.Get(ctx, p.ID)
				switch {
				case err == nil:
					p.CreatedAt = existing.CreatedAt
					if err := d.Products.Update(ctx, &p); err != nil {
						d.Log.Warn("import row update failed", zap.Int("row", i+1), zap.Error(err))
						skipped++
						continue
					}
					updated++
					continue
				case !errors.Is(err, store.ErrNotFound):
					d.Log.Warn("import row lookup failed", zap.Int("row", i+1), zap.Error(err))
					skipped++
					continue
				}
			}

			if err := d.Products.Create(ctx, &p); err != nil {
				d.Log.Warn("import row create failed", zap.Int("row", i+1), zap.Error(err))
				skipped++
				continue
			}
			created++
		}

		if n := created + updated; n > 0 {
			change := events.NewCatalogChange(events.ProductImported, "")
			change.Count = n
			d.publish(change)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"updated_count": updated,
			"skipped_count": skipped,
		})
	}
}

func rowProduct(row *xlsx.Row) (models.Product, error) {
	if row == nil {
		return models.Product{}, errors.New("empty row")
	}
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	p := models.Product{
		ID:           get(colID),
		Name:         get(colName),
		TeamSlug:     catalog.Slugify(get(colTeamSlug)),
		Image:        get(colImage),
		IsNew:        parseFlag(get(colIsNew)),
		IsBestseller: parseFlag(get(colIsBestseller)),
	}
	if p.Name == "" || p.TeamSlug == "" || p.Image == "" {
		return models.Product{}, errors.New("missing required column")
	}

	price, err := parsePrice(get(colPrice))
	if err != nil {
		return models.Product{}, err
	}
	p.Price = price

	if v := get(colOriginalPrice); v != "" {
		op, err := parsePrice(v)
		if err != nil {
			return models.Product{}, err
		}
		p.OriginalPrice = &op
	}

	if p.Rating, err = parseRating(get(colRating)); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/store"
)

// ListProducts is the admin product table, newest first.
func ListProducts(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := d.Products.List(c.Request.Context(), store.ProductQuery{OrderBy: store.OrderNewest})
		if err != nil {
			d.Log.Error("list products failed", zap.Error(err))
			c.JSON(http.StatusOK, catalog.Result{Notice: notice.Error(notice.MsgLoadProducts)}.View())
			return
		}
		c.JSON(http.StatusOK, catalog.Result{Products: products}.View())
	}
}

// NewProductForm describes the creation form: the teams to pick from.
func NewProductForm(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"teams": d.Menu.Teams()})
	}
}

// EditProductForm is the creation form prefilled with one product.
func EditProductForm(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		p, err := d.Products.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, notice.MsgProductNotFound)
				return
			}
			d.Log.Error("load product failed", zap.String("product_id", id), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgLoadProducts)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product": catalog.View(p),
			"teams":   d.Menu.Teams(),
		})
	}
}

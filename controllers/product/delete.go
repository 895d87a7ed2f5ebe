package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/store"
)

// DeleteProduct removes one product row. Its image stays in the bucket until
// the orphan sweep collects it.
func DeleteProduct(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			fail(c, http.StatusBadRequest, "Product ID is required")
			return
		}

		if err := d.Products.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, notice.MsgProductNotFound)
				return
			}
			d.Log.Error("delete product failed", zap.String("product_id", id), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgProductDeleteFail)
			return
		}

		d.publish(events.NewCatalogChange(events.ProductDeleted, id))
		c.JSON(http.StatusOK, gin.H{
			"message": "Product deleted successfully",
			"notice":  notice.Success(notice.MsgProductDeleted),
		})
	}
}

package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/store"
)

// UpdateProduct updates an existing product by ID. Only the fields sent are
// changed; a new image replaces the old one, which is then removed from the
// bucket.
func UpdateProduct(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		p, err := d.Products.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, notice.MsgProductNotFound)
				return
			}
			d.Log.Error("load product failed", zap.String("product_id", id), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgProductUpdateFail)
			return
		}
		oldImage := p.Image

		if err := readForm(c, &p, true); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		url, uploaded, err := d.storeImage(c)
		if err != nil {
			d.Log.Error("upload product image failed", zap.String("product_id", id), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgImageUploadFail)
			return
		}
		if url != "" {
			p.Image = url
		}

		if err := d.Products.Update(ctx, &p); err != nil {
			d.discard(ctx, uploaded)
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, notice.MsgProductNotFound)
				return
			}
			d.Log.Error("update product failed", zap.String("product_id", id), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgProductUpdateFail)
			return
		}

		if p.Image != oldImage {
			d.discardURL(ctx, oldImage)
		}

		d.publish(events.NewCatalogChange(events.ProductUpdated, p.ID))
		c.JSON(http.StatusOK, gin.H{
			"product": catalog.View(p),
			"notice":  notice.Success(notice.MsgProductUpdated),
		})
	}
}

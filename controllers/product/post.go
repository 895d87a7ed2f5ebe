package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/notice"
)

// CreateProduct creates a product from a multipart form. The image is an
// uploaded file or, when none is sent, the image_url field.
func CreateProduct(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var p models.Product
		if err := readForm(c, &p, false); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		url, uploaded, err := d.storeImage(c)
		if err != nil {
			d.Log.Error("upload product image failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgImageUploadFail)
			return
		}
		if url == "" {
			fail(c, http.StatusBadRequest, notice.MsgImageRequired)
			return
		}
		p.Image = url

		if err := d.Products.Create(ctx, &p); err != nil {
			d.discard(ctx, uploaded)
			d.Log.Error("create product failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgProductCreateFail)
			return
		}

		d.publish(events.NewCatalogChange(events.ProductCreated, p.ID))
		c.JSON(http.StatusCreated, gin.H{
			"product": catalog.View(p),
			"notice":  notice.Success(notice.MsgProductCreated),
		})
	}
}

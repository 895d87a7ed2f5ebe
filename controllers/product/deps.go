package productcontroller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/storage"
	"github.com/DerickDutraDev/store-GBS/store"
)

// Products is satisfied by *store.ProductStore.
type Products interface {
	List(ctx context.Context, q store.ProductQuery) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

// Deps is shared by the admin product handlers.
type Deps struct {
	Products Products
	Bucket   storage.Bucket
	Changes  *events.Broker[events.CatalogChange] // optional
	Menu     *catalog.Menu
	Log      *zap.Logger
	Now      func() time.Time // upload naming; defaults to time.Now
}

const cleanupTimeout = 10 * time.Second

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) publish(c events.CatalogChange) {
	if d.Changes != nil {
		d.Changes.Publish(c)
	}
}

// discard removes an uploaded object. It runs even when the request that
// uploaded it was cancelled.
func (d Deps) discard(ctx context.Context, objectPath string) {
	if objectPath == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := d.Bucket.Remove(ctx, objectPath); err != nil {
		d.Log.Warn("remove image failed", zap.String("path", objectPath), zap.Error(err))
	}
}

// discardURL removes the object behind a product image URL when it lives in
// our bucket. External URLs are left alone.
func (d Deps) discardURL(ctx context.Context, url string) {
	if p, ok := d.Bucket.PathOf(url); ok {
		d.discard(ctx, p)
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg, "notice": notice.Error(msg)})
}

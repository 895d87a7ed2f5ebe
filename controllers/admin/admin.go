package admincontroller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/session"
	"github.com/DerickDutraDev/store-GBS/storage"
)

// Counter is satisfied by *store.ProductStore and *store.ProfileStore.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Deps struct {
	Products Counter
	Users    Counter
	Hub      *events.Hub
	Sweeper  *storage.Sweeper
	Ping     func(ctx context.Context) error
	Log      *zap.Logger
}

const healthTimeout = 2 * time.Second

// GET /admin
func Dashboard(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products, users int64
		g, ctx := errgroup.WithContext(c.Request.Context())
		g.Go(func() (err error) {
			products, err = d.Products.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			users, err = d.Users.Count(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			d.Log.Error("load dashboard failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
			return
		}

		s, _ := session.From(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"admin":         s,
			"product_count": products,
			"user_count":    users,
			"ws_clients":    d.Hub.Clients(),
		})
	}
}

// GET /admin/ws streams catalog changes to the dashboard.
func LiveUpdates(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.Hub.ServeHTTP(c.Writer, c.Request)
	}
}

// POST /ops/images/sweep
func SweepImages(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := d.Sweeper.Sweep(c.Request.Context())
		if err != nil {
			d.Log.Error("image sweep failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image sweep failed", "report": report})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// GET /health
func Health(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := d.Ping(ctx); err != nil {
			d.Log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

package admincontroller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/storage"
)

type counterFake struct {
	n   int64
	err error
}

func (f counterFake) Count(context.Context) (int64, error) { return f.n, f.err }

type imagesFake []string

func (f imagesFake) ImageURLs(context.Context) ([]string, error) { return f, nil }

func routerFor(d Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Hub == nil {
		d.Hub = events.NewHub(zap.NewNop())
	}
	r := gin.New()
	r.GET("/admin", Dashboard(d))
	r.POST("/ops/images/sweep", SweepImages(d))
	r.GET("/health", Health(d))
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestDashboard(t *testing.T) {
	r := routerFor(Deps{Products: counterFake{n: 12}, Users: counterFake{n: 3}})

	rec := serve(r, http.MethodGet, "/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Products  int64 `json:"product_count"`
		Users     int64 `json:"user_count"`
		WSClients int   `json:"ws_clients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 12, got.Products)
	assert.EqualValues(t, 3, got.Users)
	assert.Zero(t, got.WSClients)

	r = routerFor(Deps{Products: counterFake{n: 12}, Users: counterFake{err: errors.New("timeout")}})
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/admin").Code)
}

func TestSweepImages(t *testing.T) {
	ctx := context.Background()
	bucket, err := storage.NewLocalBucket(t.TempDir(), "/uploads")
	require.NoError(t, err)

	kept, err := bucket.Upload(ctx, "products/1.png", strings.NewReader("a"), "image/png")
	require.NoError(t, err)
	_, err = bucket.Upload(ctx, "products/2.png", strings.NewReader("b"), "image/png")
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	for _, name := range []string{"1.png", "2.png"} {
		require.NoError(t, os.Chtimes(filepath.Join(bucket.Dir(), "products", name), old, old))
	}

	sweeper := storage.NewSweeper(bucket, imagesFake{kept}, time.Hour, zap.NewNop())
	r := routerFor(Deps{Sweeper: sweeper})

	rec := serve(r, http.MethodPost, "/ops/images/sweep")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report storage.SweepReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, storage.SweepReport{Scanned: 2, Kept: 1, Removed: 1}, report)

	_, err = os.Stat(filepath.Join(bucket.Dir(), "products", "2.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestHealth(t *testing.T) {
	var pingErr error
	r := routerFor(Deps{Ping: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return pingErr
	}})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)

	pingErr = errors.New("connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/health").Code)
}

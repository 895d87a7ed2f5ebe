package cartcontroller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/cart"
	"github.com/DerickDutraDev/store-GBS/db"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/session"
	"github.com/DerickDutraDev/store-GBS/store"
)

const shopper = "user-1"

type fixture struct {
	products *store.ProductStore
	router   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := db.Open("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	products := store.NewProductStore(gdb)
	svc := cart.NewService(store.NewCartStore(gdb), products, cart.PriceLive)
	return &fixture{products: products, router: routerFor(svc)}
}

// signedIn stands in for the session middleware: requests carrying an
// X-User header run as that user.
func signedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader("X-User"); uid != "" {
			c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), &session.Session{UserID: uid}))
		}
		c.Next()
	}
}

func routerFor(svc *cart.Service) *gin.Engine {
	log := zap.NewNop()
	r := gin.New()
	r.Use(signedIn())
	r.GET("/cart", GetCart(svc, log))
	r.GET("/cart/preview", Preview(svc, log))
	r.POST("/cart/items", AddItem(svc, log))
	r.PATCH("/cart/items/:id", UpdateItem(svc, log))
	r.DELETE("/cart/items/:id", DeleteItem(svc, log))
	r.DELETE("/cart", Clear(svc, log))
	r.POST("/cart/checkout", Checkout())
	return r
}

func (f *fixture) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, TeamSlug: "flamengo", Price: decimal.RequireFromString(price), Image: "/" + name + ".png"}
	require.NoError(t, f.products.Create(context.Background(), &p))
	return p
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User", shopper)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCartRequiresSession(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddMergesIntoOneLine(t *testing.T) {
	f := newFixture(t)
	home := f.product(t, "home", "349.90")
	away := f.product(t, "away", "299.90")

	rec := f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, home.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q,"quantity":2}`, home.ID))
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, away.ID))

	v := decodeCart(t, f.do(t, http.MethodGet, "/cart?added="+away.ID, ""))
	require.Len(t, v.Lines, 2)
	assert.Equal(t, home.ID, v.Lines[0].ProductID)
	assert.Equal(t, 3, v.Lines[0].Quantity)
	assert.Equal(t, "R$ 1.049,70", v.Lines[0].SubtotalLabel)
	assert.Equal(t, "/products/"+home.ID, v.Lines[0].Path)
	assert.Equal(t, 4, v.ItemCount)
	assert.True(t, v.Total.Equal(decimal.RequireFromString("1349.60")))
	assert.Equal(t, "R$ 1.349,60", v.TotalLabel)
	require.NotNil(t, v.Notice)
	assert.Equal(t, notice.MsgAddedToCart, v.Notice.Message)
}

func TestAddRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "home", "349.90")

	tests := map[string]struct {
		body   string
		status int
	}{
		"missing product": {`{}`, http.StatusBadRequest},
		"zero quantity":   {fmt.Sprintf(`{"product_id":%q,"quantity":0}`, p.ID), http.StatusBadRequest},
		"unknown product": {`{"product_id":"nope"}`, http.StatusNotFound},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/cart/items", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	assert.True(t, decodeCart(t, f.do(t, http.MethodGet, "/cart", "")).Empty)
}

func TestUpdateAndRemoveLines(t *testing.T) {
	f := newFixture(t)
	home := f.product(t, "home", "349.90")
	away := f.product(t, "away", "299.90")
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q,"quantity":3}`, home.ID))
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, away.ID))

	rec := f.do(t, http.MethodPatch, "/cart/items/"+home.ID, `{"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decodeCart(t, f.do(t, http.MethodGet, "/cart", ""))
	assert.Equal(t, 2, v.ItemCount)

	rec = f.do(t, http.MethodPatch, "/cart/items/"+home.ID, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeCart(t, f.do(t, http.MethodGet, "/cart", ""))
	require.Len(t, v.Lines, 1)
	assert.Equal(t, away.ID, v.Lines[0].ProductID)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPatch, "/cart/items/"+home.ID, `{"quantity":2}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPatch, "/cart/items/"+away.ID, `{}`).Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/cart/items/"+away.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/cart/items/"+away.ID, "").Code)
	assert.True(t, decodeCart(t, f.do(t, http.MethodGet, "/cart", "")).Empty)
}

func TestClearAndCheckout(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "home", "349.90")
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, p.ID))

	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/cart", "").Code)
	assert.True(t, decodeCart(t, f.do(t, http.MethodGet, "/cart", "")).Empty)

	rec := f.do(t, http.MethodPost, "/cart/checkout", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), notice.MsgCheckoutDisabled)
}

func TestDeletedProductStaysAsPlaceholder(t *testing.T) {
	f := newFixture(t)
	home := f.product(t, "home", "349.90")
	away := f.product(t, "away", "299.90")
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, home.ID))
	f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q,"quantity":2}`, away.ID))
	require.NoError(t, f.products.Delete(context.Background(), away.ID))

	v := decodeCart(t, f.do(t, http.MethodGet, "/cart", ""))
	require.Len(t, v.Lines, 2)
	gone := v.Lines[1]
	assert.True(t, gone.Missing)
	assert.Equal(t, cart.PlaceholderImage, gone.Image)
	assert.Empty(t, gone.Path)
	assert.True(t, gone.Subtotal.IsZero())
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, "R$ 349,90", v.TotalLabel)
}

func TestPreviewListsFirstLines(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 4; i++ {
		p := f.product(t, fmt.Sprintf("p%d", i), "10.00")
		f.do(t, http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, p.ID))
	}

	rec := f.do(t, http.MethodGet, "/cart/preview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var v struct {
		Lines      []lineView `json:"lines"`
		MoreLines  int        `json:"more_lines"`
		ItemCount  int        `json:"item_count"`
		TotalLabel string     `json:"total_label"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Len(t, v.Lines, previewLines)
	assert.Equal(t, 1, v.MoreLines)
	assert.Equal(t, 4, v.ItemCount)
	assert.Equal(t, "R$ 40,00", v.TotalLabel)
}

type brokenItems struct {
	cart.ItemStore
}

func (brokenItems) List(context.Context, string) ([]models.CartItem, error) {
	return nil, errors.New("connection refused")
}

func TestLoadFailureRendersEmptyCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := cart.NewService(brokenItems{}, nil, cart.PriceLive)
	r := routerFor(svc)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User", shopper)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	v := decodeCart(t, rec)
	assert.True(t, v.Empty)
	assert.Equal(t, "R$ 0,00", v.TotalLabel)
	require.NotNil(t, v.Notice)
	assert.Equal(t, notice.MsgLoadCart, v.Notice.Message)
}

package catalogcontroller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/store"
)

type listerFake struct {
	ListFunc func(q store.ProductQuery) ([]models.Product, error)
	GetFunc  func(id string) (models.Product, error)
}

func (f *listerFake) List(_ context.Context, q store.ProductQuery) ([]models.Product, error) {
	return f.ListFunc(q)
}

func (f *listerFake) Get(_ context.Context, id string) (models.Product, error) {
	return f.GetFunc(id)
}

var jersey = models.Product{ID: "p1", Name: "Camisa Flamengo I", TeamSlug: "flamengo", Price: decimal.RequireFromString("349.90")}

func routerFor(t *testing.T, lister *listerFake) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	menu, err := catalog.LoadMenu("")
	require.NoError(t, err)

	d := Deps{Catalog: catalog.NewService(lister, zap.NewNop()), Menu: menu}
	r := gin.New()
	r.GET("/", Home(d))
	r.GET("/products", Products(d))
	r.GET("/products/:id", Product(d))
	r.GET("/times/:team_slug", Team(d))
	r.GET("/search", Search(d))
	r.GET("/search/suggestions", Suggestions(d))
	r.GET("/menu", Menu(d))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHomeRails(t *testing.T) {
	r := routerFor(t, &listerFake{ListFunc: func(q store.ProductQuery) ([]models.Product, error) {
		if q.OnlyBestsellers {
			return nil, errors.New("timeout")
		}
		return []models.Product{jersey}, nil
	}})

	rec := get(r, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var home struct {
		NewArrivals catalog.ResultView `json:"new_arrivals"`
		Bestsellers catalog.ResultView `json:"bestsellers"`
	}
	decode(t, rec, &home)
	require.Len(t, home.NewArrivals.Products, 1)
	assert.Equal(t, "R$ 349,90", home.NewArrivals.Products[0].PriceLabel)
	assert.Nil(t, home.NewArrivals.Notice)
	assert.Empty(t, home.Bestsellers.Products)
	require.NotNil(t, home.Bestsellers.Notice)
	assert.Equal(t, notice.MsgLoadProducts, home.Bestsellers.Notice.Message)
}

func TestProductPage(t *testing.T) {
	r := routerFor(t, &listerFake{GetFunc: func(id string) (models.Product, error) {
		switch id {
		case "p1":
			return jersey, nil
		case "broken":
			return models.Product{}, errors.New("connection reset")
		default:
			return models.Product{}, store.ErrNotFound
		}
	}})

	rec := get(r, "/products/p1")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Product *catalog.ProductView `json:"product"`
		Notice  *notice.Notice       `json:"notice"`
	}
	decode(t, rec, &page)
	require.NotNil(t, page.Product)
	assert.Equal(t, "/products/p1", page.Product.Path)

	assert.Equal(t, http.StatusNotFound, get(r, "/products/nope").Code)

	rec = get(r, "/products/broken")
	require.Equal(t, http.StatusOK, rec.Code)
	page.Product, page.Notice = nil, nil
	decode(t, rec, &page)
	assert.Nil(t, page.Product)
	require.NotNil(t, page.Notice)
}

func TestTeamPage(t *testing.T) {
	var failing bool
	r := routerFor(t, &listerFake{ListFunc: func(q store.ProductQuery) ([]models.Product, error) {
		if failing {
			return nil, errors.New("timeout")
		}
		if q.TeamSlug == "flamengo" {
			return []models.Product{jersey}, nil
		}
		return []models.Product{}, nil
	}})

	rec := get(r, "/times/flamengo")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Team   catalog.Team       `json:"team"`
		Result catalog.ResultView `json:"result"`
	}
	decode(t, rec, &page)
	assert.Equal(t, "Flamengo", page.Team.Name)
	assert.Equal(t, 1, page.Result.Count)

	rec = get(r, "/times/ibis")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), notice.MsgTeamNotFound)

	failing = true
	rec = get(r, "/times/ibis")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	assert.Equal(t, "ibis", page.Team.Name)
	assert.NotNil(t, page.Result.Notice)
}

func TestSearchPages(t *testing.T) {
	var queries []store.ProductQuery
	r := routerFor(t, &listerFake{ListFunc: func(q store.ProductQuery) ([]models.Product, error) {
		queries = append(queries, q)
		return []models.Product{jersey}, nil
	}})

	rec := get(r, "/search?q=+fla+")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Query  string             `json:"query"`
		Result catalog.ResultView `json:"result"`
	}
	decode(t, rec, &page)
	assert.Equal(t, "fla", page.Query)
	assert.Equal(t, 1, page.Result.Count)

	rec = get(r, "/search?q=")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	assert.Zero(t, page.Result.Count)
	assert.NotNil(t, page.Result.Products)
	assert.Len(t, queries, 1)

	rec = get(r, "/search/suggestions?q=ma")
	require.Equal(t, http.StatusOK, rec.Code)
	var sugg struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, rec, &sugg)
	assert.Equal(t, []string{"Real Madrid", "Manchester City"}, sugg.Suggestions)

	rec = get(r, "/menu")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/times/flamengo"`)
}

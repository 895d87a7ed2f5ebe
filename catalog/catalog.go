// Package catalog answers the storefront's named product queries. Read
// failures never surface as errors: callers get an empty list and a notice
// to show instead.
package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/store"
)

// Lister runs product queries. *store.ProductStore satisfies it.
type Lister interface {
	List(ctx context.Context, q store.ProductQuery) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
}

// Result is what a page renders: the products, and a notice when the query
// failed.
type Result struct {
	Products []models.Product `json:"products"`
	Notice   *notice.Notice   `json:"notice,omitempty"`
}

// Failed reports whether the query behind r could not be run.
func (r Result) Failed() bool { return r.Notice != nil }

type Home struct {
	NewArrivals Result `json:"new_arrivals"`
	Bestsellers Result `json:"bestsellers"`
}

type Service struct {
	products Lister
	log      *zap.Logger
}

func NewService(products Lister, log *zap.Logger) *Service {
	return &Service{products: products, log: log.Named("catalog")}
}

func (s *Service) All(ctx context.Context) Result {
	return s.run(ctx, "all", store.ProductQuery{OrderBy: store.OrderPriceDesc})
}

func (s *Service) ByTeam(ctx context.Context, slug string) Result {
	return s.run(ctx, "by_team", store.ProductQuery{TeamSlug: slug, OrderBy: store.OrderPriceDesc})
}

func (s *Service) NewArrivals(ctx context.Context) Result {
	return s.run(ctx, "new_arrivals", store.ProductQuery{OnlyNew: true, OrderBy: store.OrderNewest})
}

func (s *Service) Bestsellers(ctx context.Context) Result {
	return s.run(ctx, "bestsellers", store.ProductQuery{OnlyBestsellers: true, OrderBy: store.OrderRatingDesc})
}

// Search matches q against product names. A blank q matches nothing and is
// not sent to the store.
func (s *Service) Search(ctx context.Context, q string) Result {
	q = strings.TrimSpace(q)
	if q == "" {
		return Result{Products: []models.Product{}}
	}
	return s.run(ctx, "search", store.ProductQuery{NameContains: q, OrderBy: store.OrderName})
}

// Home loads the two featured rails of the landing page concurrently. Each
// rail fails on its own.
func (s *Service) Home(ctx context.Context) Home {
	var h Home
	var g errgroup.Group
	g.Go(func() error {
		h.NewArrivals = s.NewArrivals(ctx)
		return nil
	})
	g.Go(func() error {
		h.Bestsellers = s.Bestsellers(ctx)
		return nil
	})
	_ = g.Wait()
	return h
}

// Product returns one product. ok is false when it does not exist; n is set
// when it could not be loaded.
func (s *Service) Product(ctx context.Context, id string) (p models.Product, ok bool, n *notice.Notice) {
	p, err := s.products.Get(ctx, id)
	switch {
	case err == nil:
		return p, true, nil
	case errors.Is(err, store.ErrNotFound):
		return models.Product{}, false, nil
	default:
		s.log.Error("load product failed", zap.String("product_id", id), zap.Error(err))
		return models.Product{}, false, notice.Error(notice.MsgLoadProducts)
	}
}

func (s *Service) run(ctx context.Context, name string, q store.ProductQuery) Result {
	products, err := s.products.List(ctx, q)
	if err != nil {
		s.log.Error("product query failed", zap.String("query", name), zap.Error(err))
		return Result{Products: []models.Product{}, Notice: notice.Error(notice.MsgLoadProducts)}
	}
	return Result{Products: products}
}

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/store"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownProduct  = errors.New("product does not exist")
	ErrLineNotFound    = errors.New("cart line not found")
)

// ItemStore persists cart rows. *store.CartStore satisfies it.
type ItemStore interface {
	Add(ctx context.Context, userID, productID string, qty int, unitPrice *decimal.Decimal) (models.CartItem, error)
	List(ctx context.Context, userID string) ([]models.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// Catalog resolves products referenced by cart rows. *store.ProductStore
// satisfies it.
type Catalog interface {
	Get(ctx context.Context, id string) (models.Product, error)
	GetMany(ctx context.Context, ids []string) ([]models.Product, error)
}

type Service struct {
	items   ItemStore
	catalog Catalog
	policy  PricePolicy
}

func NewService(items ItemStore, catalog Catalog, policy PricePolicy) *Service {
	return &Service{items: items, catalog: catalog, policy: policy}
}

func (s *Service) Policy() PricePolicy { return s.policy }

// Add puts qty units of productID into the user's cart. The current price is
// recorded on the row so the snapshot policy can charge it later.
func (s *Service) Add(ctx context.Context, userID, productID string, qty int) (models.CartItem, error) {
	if qty < 1 {
		return models.CartItem{}, ErrInvalidQuantity
	}
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.CartItem{}, ErrUnknownProduct
		}
		return models.CartItem{}, fmt.Errorf("look up product: %w", err)
	}

	price := p.Price
	item, err := s.items.Add(ctx, userID, productID, qty, &price)
	if err != nil {
		return models.CartItem{}, fmt.Errorf("add cart item: %w", err)
	}
	return item, nil
}

// View reads the user's rows and folds them into a summary.
func (s *Service) View(ctx context.Context, userID string) (Summary, error) {
	items, err := s.items.List(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("list cart items: %w", err)
	}

	rows := make([]Row, 0, len(items))
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			SnapshotPrice: it.UnitPrice,
		})
		if _, ok := seen[it.ProductID]; !ok {
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
	}

	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return Summary{}, fmt.Errorf("load cart products: %w", err)
	}
	lookup := make(map[string]Product, len(products))
	for _, p := range products {
		lookup[p.ID] = Product{Name: p.Name, Price: p.Price, Image: p.Image}
	}

	return Aggregate(rows, lookup, s.policy), nil
}

// SetQuantity changes the quantity of the line for productID. A quantity of
// zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, userID, productID)
	}
	if err := s.items.SetQuantity(ctx, userID, productID, qty); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLineNotFound
		}
		return fmt.Errorf("set quantity: %w", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	if err := s.items.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLineNotFound
		}
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.items.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

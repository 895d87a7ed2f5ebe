package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/DerickDutraDev/store-GBS/models"
)

const productsTable = "products"

type ProductOrder int

const (
	OrderPriceDesc ProductOrder = iota
	OrderNewest
	OrderRatingDesc
	OrderName
)

// ProductQuery is a filter over the products collection. Zero fields do not
// filter.
type ProductQuery struct {
	TeamSlug        string
	OnlyNew         bool
	OnlyBestsellers bool
	NameContains    string // case-insensitive substring
	OrderBy         ProductOrder
	Limit           int
}

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	tx := s.db.WithContext(ctx).Model(&models.Product{})

	if q.TeamSlug != "" {
		tx = tx.Where("team_slug = ?", q.TeamSlug)
	}
	if q.OnlyNew {
		tx = tx.Where("is_new = ?", true)
	}
	if q.OnlyBestsellers {
		tx = tx.Where("is_bestseller = ?", true)
	}
	if q.NameContains != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.NameContains))+"%")
	}

	switch q.OrderBy {
	case OrderNewest:
		tx = tx.Order("created_at DESC")
	case OrderRatingDesc:
		tx = tx.Order("rating DESC")
	case OrderName:
		tx = tx.Order("name ASC")
	default:
		tx = tx.Order("price DESC")
	}
	tx = tx.Order("id")

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	products := []models.Product{}
	if err := tx.Find(&products).Error; err != nil {
		return nil, wrap("list", productsTable, err)
	}
	return products, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return models.Product{}, wrap("get", productsTable, err)
	}
	return p, nil
}

// GetMany returns the products that exist among ids, in no particular order.
func (s *ProductStore) GetMany(ctx context.Context, ids []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, wrap("get many", productsTable, err)
	}
	return products, nil
}

func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	return wrap("create", productsTable, s.db.WithContext(ctx).Create(p).Error)
}

// Update overwrites the editable fields of an existing product.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{ID: p.ID}).
		Select("name", "price", "original_price", "image", "team_slug", "is_new", "is_bestseller", "rating", "updated_at").
		Updates(p)
	if res.Error != nil {
		return wrap("update", productsTable, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update", productsTable, ErrNotFound)
	}
	return nil
}

// Delete removes exactly one product. Cart rows that reference it are kept.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return wrap("delete", productsTable, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete", productsTable, ErrNotFound)
	}
	return nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, wrap("count", productsTable, err)
	}
	return n, nil
}

// ImageURLs lists the image reference of every product.
func (s *ProductStore) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Pluck("image", &urls).Error; err != nil {
		return nil, wrap("list images", productsTable, err)
	}
	return urls, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

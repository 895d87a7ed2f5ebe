package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DerickDutraDev/store-GBS/models"
)

const cartItemsTable = "cart_items"

type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// Add inserts a row for (userID, productID) or, when one exists, increments
// its quantity by qty. unitPrice is only stored on insert.
func (s *CartStore) Add(ctx context.Context, userID, productID string, qty int, unitPrice *decimal.Decimal) (models.CartItem, error) {
	item := models.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
	}

	var got models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + ?", qty)},
				{Column: clause.Column{Name: "updated_at"}, Value: time.Now()},
			},
		}).Create(&item).Error
		if err != nil {
			return err
		}
		// read into a fresh value: item.ID is not the stored id when the row existed
		return tx.Where("user_id = ? AND product_id = ?", userID, productID).Take(&got).Error
	})
	if err != nil {
		return models.CartItem{}, wrap("add", cartItemsTable, err)
	}
	return got, nil
}

// List returns the user's rows in insertion order.
func (s *CartStore) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, wrap("list", cartItemsTable, err)
	}
	return items, nil
}

// SetQuantity sets the quantity of the user's line for productID. Rows left
// over from before the (user, product) constraint are folded into the first.
func (s *CartStore) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.CartItem
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Order("created_at ASC").Order("id ASC").
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&rows[0]).Update("quantity", qty).Error; err != nil {
			return err
		}
		if len(rows) > 1 {
			ids := make([]string, 0, len(rows)-1)
			for _, r := range rows[1:] {
				ids = append(ids, r.ID)
			}
			return tx.Where("id IN ?", ids).Delete(&models.CartItem{}).Error
		}
		return nil
	})
	return wrap("set quantity", cartItemsTable, err)
}

// Remove deletes every row of the user's cart that references productID.
func (s *CartStore) Remove(ctx context.Context, userID, productID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return wrap("remove", cartItemsTable, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("remove", cartItemsTable, ErrNotFound)
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	return wrap("clear", cartItemsTable, err)
}

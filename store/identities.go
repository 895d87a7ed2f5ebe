package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DerickDutraDev/store-GBS/models"
)

const identitiesTable = "auth_identities"

type IdentityStore struct {
	db *gorm.DB
}

func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

func (s *IdentityStore) Create(ctx context.Context, id *models.AuthIdentity) error {
	return wrap("create", identitiesTable, s.db.WithContext(ctx).Create(id).Error)
}

func (s *IdentityStore) Get(ctx context.Context, id string) (models.AuthIdentity, error) {
	var ident models.AuthIdentity
	if err := s.db.WithContext(ctx).First(&ident, "id = ?", id).Error; err != nil {
		return models.AuthIdentity{}, wrap("get", identitiesTable, err)
	}
	return ident, nil
}

func (s *IdentityStore) GetByEmail(ctx context.Context, email string) (models.AuthIdentity, error) {
	var ident models.AuthIdentity
	if err := s.db.WithContext(ctx).First(&ident, "email = ?", email).Error; err != nil {
		return models.AuthIdentity{}, wrap("get by email", identitiesTable, err)
	}
	return ident, nil
}

func (s *IdentityStore) MarkSignedOut(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.AuthIdentity{}).Where("id = ?", id).Update("signed_out_at", at)
	if res.Error != nil {
		return wrap("sign out", identitiesTable, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("sign out", identitiesTable, ErrNotFound)
	}
	return nil
}

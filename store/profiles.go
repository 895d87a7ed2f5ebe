package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/DerickDutraDev/store-GBS/models"
)

const profilesTable = "user_profiles"

type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Create(ctx context.Context, p *models.UserProfile) error {
	return wrap("create", profilesTable, s.db.WithContext(ctx).Create(p).Error)
}

func (s *ProfileStore) Get(ctx context.Context, id string) (models.UserProfile, error) {
	var p models.UserProfile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return models.UserProfile{}, wrap("get", profilesTable, err)
	}
	return p, nil
}

// SetAdmin flips the admin flag of the profile registered under email.
func (s *ProfileStore) SetAdmin(ctx context.Context, email string, admin bool) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "email = ?", email).Error; err != nil {
			return err
		}
		return tx.Model(&p).Update("is_admin", admin).Error
	})
	if err != nil {
		return models.UserProfile{}, wrap("set admin", profilesTable, err)
	}
	p.IsAdmin = admin
	return p, nil
}

func (s *ProfileStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.UserProfile{}).Count(&n).Error; err != nil {
		return 0, wrap("count", profilesTable, err)
	}
	return n, nil
}

// List returns profiles newest first. limit <= 0 means no limit.
func (s *ProfileStore) List(ctx context.Context, limit int) ([]models.UserProfile, error) {
	tx := s.db.WithContext(ctx).Order("created_at DESC").Order("id")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	profiles := []models.UserProfile{}
	if err := tx.Find(&profiles).Error; err != nil {
		return nil, wrap("list", profilesTable, err)
	}
	return profiles, nil
}

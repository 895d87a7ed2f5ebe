package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/config"
	"github.com/DerickDutraDev/store-GBS/db"
	"github.com/DerickDutraDev/store-GBS/storage"
	"github.com/DerickDutraDev/store-GBS/store"
)

// services are the stores and the bucket every command works against.
type services struct {
	db         *gorm.DB
	products   *store.ProductStore
	carts      *store.CartStore
	profiles   *store.ProfileStore
	identities *store.IdentityStore
	bucket     storage.Bucket
	menu       *catalog.Menu
}

func openServices(ctx context.Context, cfg config.Config, log *zap.Logger) (*services, error) {
	if err := migrateSchema(cfg, log); err != nil {
		return nil, err
	}

	gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log.Named("gorm"))
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate && cfg.DBDriver == "sqlite" {
		if err := db.AutoMigrate(gdb); err != nil {
			_ = db.Close(gdb)
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	bucket, err := storage.New(ctx, cfg.StorageDriver, storage.Options{
		Dir:                     cfg.UploadsDir,
		PublicBaseURL:           cfg.PublicBaseURL,
		FirebaseCredentialsJSON: cfg.FirebaseCredentialsJSON,
		FirebaseProjectID:       cfg.FirebaseProjectID,
		FirebaseBucket:          cfg.FirebaseBucket,
	})
	if err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	menu, err := catalog.LoadMenu(cfg.CatalogMenuFile)
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	return &services{
		db:         gdb,
		products:   store.NewProductStore(gdb),
		carts:      store.NewCartStore(gdb),
		profiles:   store.NewProfileStore(gdb),
		identities: store.NewIdentityStore(gdb),
		bucket:     bucket,
		menu:       menu,
	}, nil
}

// migrateSchema applies the versioned PostgreSQL migrations when
// DB_AUTO_MIGRATE is set. SQLite databases are migrated from the models once
// opened.
func migrateSchema(cfg config.Config, log *zap.Logger) error {
	if !cfg.AutoMigrate || cfg.DBDriver != "postgres" {
		return nil
	}
	return db.RunMigrations(cfg.DatabaseURL, log)
}

func (s *services) Close() error {
	return db.Close(s.db)
}

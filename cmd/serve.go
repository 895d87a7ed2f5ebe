package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/auth"
	"github.com/DerickDutraDev/store-GBS/cart"
	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/config"
	admincontroller "github.com/DerickDutraDev/store-GBS/controllers/admin"
	catalogcontroller "github.com/DerickDutraDev/store-GBS/controllers/catalog"
	productcontroller "github.com/DerickDutraDev/store-GBS/controllers/product"
	usercontroller "github.com/DerickDutraDev/store-GBS/controllers/user"
	"github.com/DerickDutraDev/store-GBS/db"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/routes"
	"github.com/DerickDutraDev/store-GBS/session"
	"github.com/DerickDutraDev/store-GBS/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	sessionCacheTTL = time.Minute
	subscriberQueue = 64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := openServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	policy, err := cart.ParsePricePolicy(cfg.CartPricePolicy)
	if err != nil {
		return err
	}

	authChanges := events.NewBroker[auth.StateChange]()
	defer authChanges.Close()
	catalogChanges := events.NewBroker[events.CatalogChange]()
	defer catalogChanges.Close()

	var google auth.GoogleVerifier
	if cfg.FirebaseEnabled() {
		v, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseProjectID)
		if err != nil {
			return err
		}
		google = v
	}

	provider := auth.NewProvider(auth.Deps{
		Identities: svc.identities,
		Profiles:   svc.profiles,
		Tokens:     auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Changes:    authChanges,
		Google:     google,
		Log:        log,
	})
	sessions := session.NewRegistry(svc.profiles, sessionCacheTTL, log)
	carts := cart.NewService(svc.carts, svc.products, policy)
	hub := events.NewHub(log)
	sweeper := storage.NewSweeper(svc.bucket, svc.products, cfg.SweepGrace, log)

	// background loops stop with ctx; wg lets shutdown wait for them
	var wg sync.WaitGroup
	background := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	authFeed, cancelAuthFeed := authChanges.Subscribe(subscriberQueue)
	defer cancelAuthFeed()
	background(func() { sessions.Watch(ctx, authFeed) })

	hubFeed, cancelHubFeed := catalogChanges.Subscribe(subscriberQueue)
	defer cancelHubFeed()
	background(func() { hub.Run(ctx, hubFeed) })

	background(func() { sweeper.RunDaily(ctx, cfg.SweepHour) })

	if cfg.AMQPURL != "" {
		publisher, err := events.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer publisher.Close()

		amqpFeed, cancelAMQPFeed := catalogChanges.Subscribe(subscriberQueue)
		defer cancelAMQPFeed()
		background(func() {
			events.Pump(ctx, amqpFeed, publisher.PublishCatalogChange, func(c events.CatalogChange, err error) {
				log.Warn("publish catalog change failed", zap.String("kind", string(c.Kind)), zap.Error(err))
			})
		})
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := routes.NewEngine(newApp(cfg, log, svc, provider, sessions, carts, hub, sweeper, catalogChanges))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		stop()
		wg.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown error", zap.Error(err))
	}
	hub.Close()
	wg.Wait()
	return nil
}

func newApp(
	cfg config.Config,
	log *zap.Logger,
	svc *services,
	provider *auth.Provider,
	sessions *session.Registry,
	carts *cart.Service,
	hub *events.Hub,
	sweeper *storage.Sweeper,
	catalogChanges *events.Broker[events.CatalogChange],
) routes.App {
	app := routes.App{
		Catalog: catalogcontroller.Deps{
			Catalog: catalog.NewService(svc.products, log),
			Menu:    svc.menu,
		},
		Products: productcontroller.Deps{
			Products: svc.products,
			Bucket:   svc.bucket,
			Changes:  catalogChanges,
			Menu:     svc.menu,
			Log:      log.Named("products"),
		},
		Users: usercontroller.Deps{
			Auth:         provider,
			Cart:         carts,
			Profiles:     svc.profiles,
			CookieName:   cfg.CookieName,
			SecureCookie: strings.HasPrefix(cfg.PublicBaseURL, "https://"),
			Log:          log.Named("users"),
		},
		Admin: admincontroller.Deps{
			Products: svc.products,
			Users:    svc.profiles,
			Hub:      hub,
			Sweeper:  sweeper,
			Ping:     func(ctx context.Context) error { return db.Ping(ctx, svc.db) },
			Log:      log.Named("admin"),
		},
		Cart:             carts,
		Verifier:         provider,
		Sessions:         sessions,
		CookieName:       cfg.CookieName,
		OpsAPIKey:        cfg.OpsAPIKey,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RequestTimeout:   cfg.RequestTimeout,
		Log:              log,
	}
	if local, ok := svc.bucket.(*storage.LocalBucket); ok {
		app.UploadsDir = local.Dir()
	}
	return app
}

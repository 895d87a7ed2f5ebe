package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/cart"
	admincontroller "github.com/DerickDutraDev/store-GBS/controllers/admin"
	catalogcontroller "github.com/DerickDutraDev/store-GBS/controllers/catalog"
	productcontroller "github.com/DerickDutraDev/store-GBS/controllers/product"
	usercontroller "github.com/DerickDutraDev/store-GBS/controllers/user"
	"github.com/DerickDutraDev/store-GBS/middleware"
	"github.com/DerickDutraDev/store-GBS/storage"
)

// maxUploadMemory is how much of a multipart body is kept in memory; the
// rest spills to temp files.
const maxUploadMemory = 32 << 20

// App holds everything the route groups hand to their controllers.
type App struct {
	Catalog  catalogcontroller.Deps
	Products productcontroller.Deps
	Users    usercontroller.Deps
	Admin    admincontroller.Deps
	Cart     *cart.Service

	Verifier middleware.TokenVerifier
	Sessions middleware.SessionResolver

	CookieName       string
	UploadsDir       string // served under /uploads when set
	OpsAPIKey        string
	CORSAllowOrigins []string
	RequestTimeout   time.Duration
	Log              *zap.Logger
}

// NewEngine builds the gin engine with the shared middleware chain and all
// route groups.
func NewEngine(app App) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory

	r.Use(
		middleware.Recovery(app.Log),
		middleware.CorrelationID(),
		middleware.Logger(app.Log),
		cors.New(corsConfig(app.CORSAllowOrigins)),
		middleware.LoadSession(app.Verifier, app.Sessions, app.CookieName, app.Log),
	)

	if app.UploadsDir != "" {
		r.Static(storage.LocalURLPrefix, app.UploadsDir)
	}

	SetupRoutes(r, app)
	return r
}

// SetupRoutes is the single entry point that wires up the page, auth,
// cart, admin and operator route groups.
func SetupRoutes(r *gin.Engine, app App) {
	timeout := middleware.Timeout(app.RequestTimeout)

	SetupCatalogRoutes(r, app, timeout)
	SetupAuthRoutes(r, app, timeout)
	SetupUserRoutes(r, app, timeout)
	SetupAdminRoutes(r, app, timeout)
	SetupOpsRoutes(r, app, timeout)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.HeaderCorrelationID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderCorrelationID},
		MaxAge:        12 * time.Hour,
	}
	// credentials cannot be combined with a wildcard origin
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

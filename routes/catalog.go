package routes

import (
	"github.com/gin-gonic/gin"

	catalogcontroller "github.com/DerickDutraDev/store-GBS/controllers/catalog"
)

// SetupCatalogRoutes registers the public storefront pages.
func SetupCatalogRoutes(r *gin.Engine, app App, timeout gin.HandlerFunc) {
	pages := r.Group("/", timeout)
	{
		pages.GET("", catalogcontroller.Home(app.Catalog))
		pages.GET("/products", catalogcontroller.Products(app.Catalog))
		pages.GET("/products/:id", catalogcontroller.Product(app.Catalog))
		pages.GET("/times/:team_slug", catalogcontroller.Team(app.Catalog))
		pages.GET("/search", catalogcontroller.Search(app.Catalog))
		pages.GET("/search/suggestions", catalogcontroller.Suggestions(app.Catalog))
		pages.GET("/menu", catalogcontroller.Menu(app.Catalog))
	}
}

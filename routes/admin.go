package routes

import (
	"github.com/gin-gonic/gin"

	admincontroller "github.com/DerickDutraDev/store-GBS/controllers/admin"
	productcontroller "github.com/DerickDutraDev/store-GBS/controllers/product"
	usercontroller "github.com/DerickDutraDev/store-GBS/controllers/user"
	"github.com/DerickDutraDev/store-GBS/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an admin
// session.
func SetupAdminRoutes(r *gin.Engine, app App, timeout gin.HandlerFunc) {
	// the websocket outlives any request timeout
	r.GET("/admin/ws", middleware.RequireAdmin(), admincontroller.LiveUpdates(app.Admin))

	adminGroup := r.Group("/admin", timeout, middleware.RequireAdmin())
	{
		adminGroup.GET("", admincontroller.Dashboard(app.Admin))
		adminGroup.GET("/users", usercontroller.GetAllUsers(app.Users))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.ListProducts(app.Products))
			productAdmin.GET("/new", productcontroller.NewProductForm(app.Products))
			productAdmin.GET("/export", productcontroller.ExportProductsToExcel(app.Products))
			productAdmin.POST("/import", productcontroller.ImportProductsFromExcel(app.Products))
			productAdmin.GET("/:id/edit", productcontroller.EditProductForm(app.Products))
			productAdmin.POST("", productcontroller.CreateProduct(app.Products))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(app.Products))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(app.Products))
		}
	}
}

// SetupOpsRoutes registers operator endpoints. Requires the X-API-KEY header.
func SetupOpsRoutes(r *gin.Engine, app App, timeout gin.HandlerFunc) {
	r.GET("/health", timeout, admincontroller.Health(app.Admin))

	ops := r.Group("/ops", middleware.ValidateAPIKey(app.OpsAPIKey))
	{
		ops.POST("/images/sweep", admincontroller.SweepImages(app.Admin))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	cartcontroller "github.com/DerickDutraDev/store-GBS/controllers/cart"
	usercontroller "github.com/DerickDutraDev/store-GBS/controllers/user"
	"github.com/DerickDutraDev/store-GBS/middleware"
)

// SetupUserRoutes registers the signed-in shopper's endpoints.
func SetupUserRoutes(r *gin.Engine, app App, timeout gin.HandlerFunc) {
	r.GET("/me", timeout, usercontroller.GetUser())

	cartGroup := r.Group("/cart", timeout, middleware.RequireUser())
	{
		cartGroup.GET("", cartcontroller.GetCart(app.Cart, app.Log))
		cartGroup.GET("/preview", cartcontroller.Preview(app.Cart, app.Log))
		cartGroup.POST("/items", cartcontroller.AddItem(app.Cart, app.Log))
		cartGroup.PATCH("/items/:id", cartcontroller.UpdateItem(app.Cart, app.Log)) // :id is the product ID
		cartGroup.DELETE("/items/:id", cartcontroller.DeleteItem(app.Cart, app.Log))
		cartGroup.DELETE("", cartcontroller.Clear(app.Cart, app.Log))
		cartGroup.POST("/checkout", cartcontroller.Checkout())
	}
}

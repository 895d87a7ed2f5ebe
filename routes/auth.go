package routes

import (
	"github.com/gin-gonic/gin"

	usercontroller "github.com/DerickDutraDev/store-GBS/controllers/user"
)

// SetupAuthRoutes registers login, registration and logout.
func SetupAuthRoutes(r *gin.Engine, app App, timeout gin.HandlerFunc) {
	authGroup := r.Group("/", timeout)
	{
		authGroup.GET("/login", usercontroller.LoginPage(app.Users))
		authGroup.POST("/login", usercontroller.Login(app.Users))
		authGroup.GET("/register", usercontroller.RegisterPage(app.Users))
		authGroup.POST("/register", usercontroller.Register(app.Users))
		authGroup.POST("/logout", usercontroller.Logout(app.Users))
		authGroup.POST("/auth/google", usercontroller.GoogleLogin(app.Users))
	}
}

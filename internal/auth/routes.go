package auth

import (
	"mortgage-office-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, authService AuthServiceAPI) {
	authController := &AuthController{AuthService: authService}

	userGroup := r.Group("/auth")
	{
		userGroup.POST("/register", authController.Register)
		userGroup.POST("/login", authController.Login)
	}

	protected := r.Group("/auth")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/users", authController.GetUsers)
		protected.GET("/users/:id", authController.GetUser)
		protected.POST("/credentials", authController.SaveCredential)
	}
}

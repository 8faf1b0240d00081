package content

import (
	"mortgage-office-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, contentService ContentServiceAPI) {
	contentController := &ContentController{Service: contentService}

	contentGroup := r.Group("/content")
	contentGroup.Use(middlewares.AuthMiddleware())
	{
		contentGroup.POST("/generate", contentController.Generate)
		contentGroup.GET("/history", contentController.History)
	}
}

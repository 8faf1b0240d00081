package docs

import (
	"mortgage-office-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, documentService DocumentServiceAPI) {
	documentController := &DocumentController{Service: documentService}

	docGroup := r.Group("/documents")
	docGroup.Use(middlewares.AuthMiddleware())
	{
		docGroup.POST("", documentController.Upload)
		docGroup.GET("", documentController.List)
		docGroup.GET("/:id/url", documentController.DownloadURL)
		docGroup.DELETE("/:id", documentController.Delete)
	}
}

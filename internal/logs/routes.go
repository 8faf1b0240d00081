package logs

import (
	"mortgage-office-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, logService *LogService) {
	logController := &LogController{LogService: logService}

	logGroup := r.Group("/logs")
	logGroup.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		logGroup.POST("/search", logController.GetLogs)
	}
}

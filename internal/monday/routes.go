package monday

import (
	"mortgage-office-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, syncService SyncServiceAPI) {
	syncController := &SyncController{Service: syncService}

	syncGroup := r.Group("/monday")
	syncGroup.Use(middlewares.AuthMiddleware())
	{
		syncGroup.POST("/sync", syncController.TriggerSync)
		syncGroup.GET("/sync/history", syncController.GetSyncHistory)
		syncGroup.GET("/sections/:section/fields", syncController.GetSectionFields)
	}

	adminGroup := r.Group("/monday")
	adminGroup.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		adminGroup.GET("/boards", syncController.GetBoards)
		adminGroup.POST("/boards", syncController.CreateBoard)
		adminGroup.PUT("/boards/:boardId", syncController.UpdateBoard)
		adminGroup.DELETE("/boards/:boardId", syncController.DeleteBoard)
		adminGroup.GET("/boards/:boardId/mappings", syncController.GetMappings)
		adminGroup.POST("/boards/:boardId/mappings", syncController.SaveMapping)
		adminGroup.DELETE("/boards/:boardId/mappings/:columnId", syncController.DeleteMapping)
	}
}

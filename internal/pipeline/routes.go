package pipeline

import (
	"mortgage-office-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, pipelineService PipelineServiceAPI) {
	pipelineController := &PipelineController{Service: pipelineService}

	pipelineGroup := r.Group("/pipeline")
	pipelineGroup.Use(middlewares.AuthMiddleware())
	{
		pipelineGroup.GET("", pipelineController.GetPipelineLoans)
		pipelineGroup.GET("/pre-approvals", pipelineController.GetPreApprovals)
		pipelineGroup.GET("/funded", pipelineController.GetFundedLoans)
		pipelineGroup.GET("/export", pipelineController.ExportPipeline)
		pipelineGroup.POST("", pipelineController.CreatePipelineLoan)
		pipelineGroup.PUT("/:id", pipelineController.UpdatePipelineLoan)
		pipelineGroup.DELETE("/:id", pipelineController.DeletePipelineLoan)
	}
}

package scene_audio_analysis_api_route

import (
	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/controller/controller_file_entity/scene_audio_analysis_api_controller"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
)

func NewPageRouter(
	analysis scene_audio_analysis_interface.AnalysisUsecase,
	generation scene_audio_analysis_interface.GenerationUsecase,
	group *gin.RouterGroup,
) {
	ctrl := scene_audio_analysis_api_controller.NewPageController(analysis, generation)

	group.GET("/", ctrl.Index)
	group.POST("/analyze", ctrl.Analyze)
	group.POST("/generate/:id", ctrl.Generate)
}

// NewAnalysisRouter 删除接口挂在受保护分组
func NewAnalysisRouter(
	usecase scene_audio_analysis_interface.AnalysisUsecase,
	group *gin.RouterGroup,
	protected *gin.RouterGroup,
) {
	ctrl := scene_audio_analysis_api_controller.NewAnalysisController(usecase)

	analysisGroup := group.Group("/analyses")
	{
		analysisGroup.POST("", ctrl.Create)
		analysisGroup.GET("", ctrl.List)
		analysisGroup.GET("/:id", ctrl.Get)
		analysisGroup.GET("/:id/waveform.png", ctrl.Waveform)
	}
	protected.DELETE("/analyses/:id", ctrl.Delete)
}

func NewGenerationRouter(
	usecase scene_audio_analysis_interface.GenerationUsecase,
	group *gin.RouterGroup,
) {
	ctrl := scene_audio_analysis_api_controller.NewGenerationController(usecase)

	group.POST("/analyses/:id/generations", ctrl.Create)
	group.GET("/analyses/:id/generations", ctrl.ListByAnalysis)

	generationGroup := group.Group("/generations")
	{
		generationGroup.GET("/:id", ctrl.Get)
		generationGroup.GET("/:id/audio", ctrl.Audio)
	}
}

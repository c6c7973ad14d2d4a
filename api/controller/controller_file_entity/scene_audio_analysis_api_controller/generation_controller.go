package scene_audio_analysis_api_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/controller"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
)

type GenerationController struct {
	GenerationUsecase scene_audio_analysis_interface.GenerationUsecase
}

func NewGenerationController(uc scene_audio_analysis_interface.GenerationUsecase) *GenerationController {
	return &GenerationController{GenerationUsecase: uc}
}

func (c *GenerationController) Create(ctx *gin.Context) {
	var params scene_audio_analysis_models.GenerationParams
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBind(&params); err != nil {
			controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAMETERS", err.Error())
			return
		}
	}
	if params.Steps < 0 || params.Temperature < 0 {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAMETERS", "steps 与 temperature 不能为负数")
		return
	}

	generation, err := c.GenerationUsecase.Generate(ctx.Request.Context(), ctx.Param("id"), params)
	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, "generation", generation, 1)
}

func (c *GenerationController) ListByAnalysis(ctx *gin.Context) {
	items, err := c.GenerationUsecase.ListByAnalysis(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	if items == nil {
		items = []*scene_audio_analysis_models.AudioGeneration{}
	}
	controller.SuccessResponse(ctx, "generations", items, len(items))
}

func (c *GenerationController) Get(ctx *gin.Context) {
	generation, err := c.GenerationUsecase.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, "generation", generation, 1)
}

func (c *GenerationController) Audio(ctx *gin.Context) {
	path, err := c.GenerationUsecase.AudioPath(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	ctx.Header("Content-Type", "audio/wav")
	ctx.File(path)
}

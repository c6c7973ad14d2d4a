package scene_audio_analysis_api_controller

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/controller"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
)

type AnalysisController struct {
	AnalysisUsecase scene_audio_analysis_interface.AnalysisUsecase
}

func NewAnalysisController(uc scene_audio_analysis_interface.AnalysisUsecase) *AnalysisController {
	return &AnalysisController{AnalysisUsecase: uc}
}

// analysisResponse 附带格式化后的表格行
type analysisResponse struct {
	*scene_audio_analysis_models.AudioAnalysis
	Rows []scene_audio_analysis_models.FeatureRow `json:"rows"`
}

func newAnalysisResponse(a *scene_audio_analysis_models.AudioAnalysis) analysisResponse {
	return analysisResponse{AudioAnalysis: a, Rows: a.Rows()}
}

func (c *AnalysisController) Create(ctx *gin.Context) {
	var (
		analysis *scene_audio_analysis_models.AudioAnalysis
		err      error
	)

	fileHeader, formErr := ctx.FormFile("file")
	switch {
	case formErr == nil:
		file, openErr := fileHeader.Open()
		if openErr != nil {
			controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_UPLOAD", openErr.Error())
			return
		}
		defer file.Close()
		analysis, err = c.AnalysisUsecase.AnalyzeUpload(ctx.Request.Context(), fileHeader.Filename, file)
	case errors.Is(formErr, http.ErrMissingFile), errors.Is(formErr, http.ErrNotMultipart):
		analysis, err = c.AnalysisUsecase.AnalyzeDefault(ctx.Request.Context())
	default:
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_UPLOAD", formErr.Error())
		return
	}

	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, "analysis", newAnalysisResponse(analysis), 1)
}

func (c *AnalysisController) List(ctx *gin.Context) {
	var query scene_audio_analysis_models.AnalysisQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAMETERS", err.Error())
		return
	}

	items, total, err := c.AnalysisUsecase.List(ctx.Request.Context(), query)
	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	if items == nil {
		items = []*scene_audio_analysis_models.AudioAnalysis{}
	}
	controller.SuccessResponse(ctx, "analyses", items, int(total))
}

func (c *AnalysisController) Get(ctx *gin.Context) {
	analysis, err := c.AnalysisUsecase.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, "analysis", newAnalysisResponse(analysis), 1)
}

func (c *AnalysisController) Waveform(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.AnalysisUsecase.RenderWaveform(ctx.Request.Context(), ctx.Param("id"), &buf); err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (c *AnalysisController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.AnalysisUsecase.Delete(ctx.Request.Context(), id); err != nil {
		controller.DomainErrorResponse(ctx, err)
		return
	}
	controller.SuccessResponse(ctx, "deleted", id, 1)
}

package scene_audio_analysis_api_controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/controller"
	"github.com/riddim-exe/riddim/api/view"
	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
)

// PageController 服务端渲染的上传与结果页面
type PageController struct {
	AnalysisUsecase   scene_audio_analysis_interface.AnalysisUsecase
	GenerationUsecase scene_audio_analysis_interface.GenerationUsecase
}

func NewPageController(
	analysis scene_audio_analysis_interface.AnalysisUsecase,
	generation scene_audio_analysis_interface.GenerationUsecase,
) *PageController {
	return &PageController{AnalysisUsecase: analysis, GenerationUsecase: generation}
}

func (c *PageController) Index(ctx *gin.Context) {
	data := view.PageData{}
	c.withDefaultFileNotice(&data)

	recent, _, err := c.AnalysisUsecase.List(ctx.Request.Context(), scene_audio_analysis_models.AnalysisQuery{PageSize: 5})
	if err != nil {
		log.Printf("历史记录加载失败: %v", err)
	}
	data.Recent = recent
	ctx.HTML(http.StatusOK, view.PageName, data)
}

// Analyze 有上传文件时分析上传文件，否则分析默认文件
func (c *PageController) Analyze(ctx *gin.Context) {
	data := view.PageData{}

	var analysis *scene_audio_analysis_models.AudioAnalysis
	fileHeader, err := ctx.FormFile("file")
	switch {
	case err == nil:
		file, openErr := fileHeader.Open()
		if openErr != nil {
			data.Error = openErr.Error()
			ctx.HTML(http.StatusBadRequest, view.PageName, data)
			return
		}
		defer file.Close()
		analysis, err = c.AnalysisUsecase.AnalyzeUpload(ctx.Request.Context(), fileHeader.Filename, file)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		if !c.withDefaultFileNotice(&data) {
			ctx.HTML(http.StatusNotFound, view.PageName, data)
			return
		}
		analysis, err = c.AnalysisUsecase.AnalyzeDefault(ctx.Request.Context())
	default:
		data.Error = err.Error()
		ctx.HTML(http.StatusBadRequest, view.PageName, data)
		return
	}

	if err != nil {
		status, _ := controller.ErrorStatus(err)
		data.Error = err.Error()
		ctx.HTML(status, view.PageName, data)
		return
	}

	data.Analysis = analysis
	data.Rows = analysis.Rows()
	ctx.HTML(http.StatusOK, view.PageName, data)
}

// Generate 生成失败时在页面上显示错误信息
func (c *PageController) Generate(ctx *gin.Context) {
	data := view.PageData{}
	id := ctx.Param("id")

	analysis, err := c.AnalysisUsecase.GetByID(ctx.Request.Context(), id)
	if err != nil {
		status, _ := controller.ErrorStatus(err)
		data.Error = err.Error()
		ctx.HTML(status, view.PageName, data)
		return
	}
	data.Analysis = analysis
	data.Rows = analysis.Rows()

	var params scene_audio_analysis_models.GenerationParams
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBind(&params); err != nil {
			data.Error = fmt.Sprintf("Invalid generation parameters: %v", err)
			ctx.HTML(http.StatusBadRequest, view.PageName, data)
			return
		}
	}
	if params.Steps < 0 || params.Temperature < 0 {
		data.Error = "Invalid generation parameters: steps and temperature must not be negative"
		ctx.HTML(http.StatusBadRequest, view.PageName, data)
		return
	}

	generation, err := c.GenerationUsecase.Generate(ctx.Request.Context(), id, params)
	data.Generation = generation
	if err != nil && generation == nil {
		data.Error = fmt.Sprintf("Generation failed: %v", err)
	}
	ctx.HTML(http.StatusOK, view.PageName, data)
}

// withDefaultFileNotice 写入默认文件提示，文件不存在时返回 false
func (c *PageController) withDefaultFileNotice(data *view.PageData) bool {
	name, path, err := c.AnalysisUsecase.DefaultFile()
	if errors.Is(err, domain.ErrDefaultFileNotFound) {
		data.Error = fmt.Sprintf("Default file '%s' not found.", path)
		return false
	}
	data.Info = fmt.Sprintf("Using default file: %s", name)
	return true
}

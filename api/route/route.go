package route

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riddim-exe/riddim/api/middleware"
	"github.com/riddim-exe/riddim/api/route/route_file_entity/scene_audio_analysis_api_route"
	"github.com/riddim-exe/riddim/api/view"
	"github.com/riddim-exe/riddim/bootstrap"
)

func Setup(app *bootstrap.Application, engine *gin.Engine) {
	engine.Use(middleware.MetricsMiddleware())
	engine.SetHTMLTemplate(view.Templates())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": app.Store.Driver})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 页面
	pageRouter := engine.Group("")
	scene_audio_analysis_api_route.NewPageRouter(app.Analysis, app.Generation, pageRouter)

	// JSON 接口
	publicRouter := engine.Group("/api")
	protectedRouter := engine.Group("/api")
	if app.Env.AccessTokenSecret == "" {
		log.Printf("ACCESS_TOKEN_SECRET 未配置，管理接口已禁用")
	}
	protectedRouter.Use(middleware.JwtAuthMiddleware(app.Env.AccessTokenSecret))

	scene_audio_analysis_api_route.NewAnalysisRouter(app.Analysis, publicRouter, protectedRouter)
	scene_audio_analysis_api_route.NewGenerationRouter(app.Generation, publicRouter)
}

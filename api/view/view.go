package view

import (
	"embed"
	"html/template"
	"strings"

	"github.com/riddim-exe/riddim/domain/domain_file_entity"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
)

const (
	PageTitle   = "riddim.exe · ⋆.˚✮🎧✮˚.⋆ · "
	PageHeading = "🎵 riddim.exe · ⋆.˚✮🎧✮˚.⋆ · "
	PageName    = "index.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData 页面渲染数据
type PageData struct {
	Info       string
	Error      string
	Analysis   *scene_audio_analysis_models.AudioAnalysis
	Rows       []scene_audio_analysis_models.FeatureRow
	Generation *scene_audio_analysis_models.AudioGeneration
	Recent     []*scene_audio_analysis_models.AudioAnalysis
}

func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"pageTitle":   func() string { return PageTitle },
		"pageHeading": func() string { return PageHeading },
		"accept": func() string {
			exts := make([]string, len(domain_file_entity.UploadFormats))
			for i, f := range domain_file_entity.UploadFormats {
				exts[i] = "." + f
			}
			return strings.Join(exts, ",")
		},
		"fmtValue": scene_audio_analysis_models.FormatFeatureValue,
	}).ParseFS(templateFS, "templates/*.html"))
}

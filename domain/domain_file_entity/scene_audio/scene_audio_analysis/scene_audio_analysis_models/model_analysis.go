package scene_audio_analysis_models

import (
	"time"

	"github.com/riddim-exe/riddim/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 分析来源
const (
	SourceUpload  = "upload"
	SourceDefault = "default"
	SourceCLI     = "cli"
)

// AudioAnalysis 单个音频文件的特征分析结果
type AudioAnalysis struct {
	// 系统保留字段
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`    // 文档唯一标识符
	CreatedAt time.Time          `bson:"created_at" json:"created_at"` // 文档创建时间
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"` // 文档最后更新时间

	// 文件信息
	Name       string   `bson:"name" json:"name"`               // 显示名称（上传文件名或默认文件名）
	NamePinyin []string `bson:"name_pinyin" json:"name_pinyin"` // 名称拼音（用于排序）
	SortName   string   `bson:"sort_name" json:"-"`             // 排序键
	Source     string   `bson:"source" json:"source"`           // upload / default / cli
	FilePath   string   `bson:"file_path" json:"-"`             // 服务器上的文件路径
	Format     string   `bson:"format" json:"format"`           // mp3 / wav / ...
	Size       int64    `bson:"size" json:"size"`               // 文件大小（字节）
	Checksum   string   `bson:"checksum" json:"checksum"`       // SHA-256，作为缓存键

	// 标签元数据 (github.com/dhowden/tag、go.senan.xyz/taglib)
	Title  string `bson:"title" json:"title"`
	Artist string `bson:"artist" json:"artist"`
	Album  string `bson:"album" json:"album"`
	Genre  string `bson:"genre" json:"genre"`

	// 源文件流属性
	SourceSampleRate int `bson:"source_sample_rate" json:"source_sample_rate"`
	Channels         int `bson:"channels" json:"channels"`
	BitRate          int `bson:"bit_rate" json:"bit_rate"`

	// 特征向量
	AnalyzerVersion string         `bson:"analyzer_version" json:"analyzer_version"`
	SampleRate      int            `bson:"sample_rate" json:"sample_rate"` // 分析采样率
	Duration        float64        `bson:"duration" json:"duration"`
	Tempo           float64        `bson:"tempo" json:"tempo"`
	Features        []FeatureValue `bson:"features" json:"features"`
	BeatTimes       []float64      `bson:"beat_times" json:"beat_times"`
	Envelope        []float64      `bson:"envelope" json:"-"` // 波形峰值包络

	Cached bool `bson:"-" json:"cached"` // 本次请求是否命中缓存
}

// FeatureValue 特征向量中的一项
type FeatureValue struct {
	Name  string  `bson:"name" json:"name"`
	Value float64 `bson:"value" json:"value"`
}

// DisplayName 优先使用标签标题
func (a *AudioAnalysis) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Title
}

// Rows 表格展示行
func (a *AudioAnalysis) Rows() []FeatureRow {
	rows := make([]FeatureRow, 0, len(a.Features))
	for _, f := range a.Features {
		rows = append(rows, NewFeatureRow(f.Name, f.Value))
	}
	return rows
}

// AnalysisQuery 历史记录查询条件
type AnalysisQuery struct {
	Page     int64  `form:"page"`
	PageSize int64  `form:"page_size"`
	Search   string `form:"search"`
	domain.SortOrder
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Normalize 填充默认分页参数
func (q *AnalysisQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	switch q.Sort {
	case "name", "tempo", "duration", "created_at":
	default:
		q.Sort = "created_at"
	}
}

// SortField 将排序字段映射为存储字段
func (q *AnalysisQuery) SortField() string {
	if q.Sort == "name" {
		return "sort_name"
	}
	return q.Sort
}

func (q *AnalysisQuery) Skip() int64 {
	return (q.Page - 1) * q.PageSize
}

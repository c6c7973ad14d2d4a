package scene_audio_analysis_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationRunning   GenerationStatus = "running"
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

// Note 音符
type Note struct {
	Pitch     int     `bson:"pitch" json:"pitch"`
	Velocity  int     `bson:"velocity" json:"velocity"`
	StartTime float64 `bson:"start_time" json:"start_time"`
	EndTime   float64 `bson:"end_time" json:"end_time"`
}

// NoteSequence 生成模型的输入序列
type NoteSequence struct {
	Notes     []Note  `bson:"notes" json:"notes"`
	TotalTime float64 `bson:"total_time" json:"total_time"`
	QPM       float64 `bson:"qpm" json:"qpm"`
}

// PlaceholderPrimer 空输入序列，不包含任何特征信息
func PlaceholderPrimer() NoteSequence {
	return NoteSequence{Notes: []Note{}, TotalTime: 0, QPM: 120}
}

// GenerationParams 生成参数
type GenerationParams struct {
	Steps       int     `json:"steps" form:"steps"`
	Temperature float64 `json:"temperature" form:"temperature"`
}

// GenerationRequest 交给生成器的请求
type GenerationRequest struct {
	Primer      NoteSequence
	Steps       int
	Temperature float64
	OutputPath  string
}

// GenerationResult 生成器返回值
type GenerationResult struct {
	OutputPath string
	Model      string
	Duration   time.Duration
	Stdout     string
}

// AudioGeneration 一次生成调用的记录
type AudioGeneration struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AnalysisID  primitive.ObjectID `bson:"analysis_id" json:"analysis_id"`
	Status      GenerationStatus   `bson:"status" json:"status"`
	Primer      NoteSequence       `bson:"primer" json:"primer"`
	Steps       int                `bson:"steps" json:"steps"`
	Temperature float64            `bson:"temperature" json:"temperature"`
	Model       string             `bson:"model" json:"model"`
	OutputPath  string             `bson:"output_path" json:"-"`
	Error       string             `bson:"error" json:"error,omitempty"`
	ElapsedMs   int64              `bson:"elapsed_ms" json:"elapsed_ms"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (g *AudioGeneration) HasAudio() bool {
	return g.Status == GenerationSucceeded && g.OutputPath != ""
}

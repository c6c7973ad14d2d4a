package scene_audio_analysis_interface

import (
	"context"
	"io"

	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalysisRepository interface {
	// Upsert 按 ID 写入；同一 (checksum, analyzer_version) 已有其他记录时保留已有记录并回填到 analysis
	Upsert(ctx context.Context, analysis *scene_audio_analysis_models.AudioAnalysis) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*scene_audio_analysis_models.AudioAnalysis, error)
	GetByChecksum(ctx context.Context, checksum, analyzerVersion string) (*scene_audio_analysis_models.AudioAnalysis, error)
	List(
		ctx context.Context,
		query scene_audio_analysis_models.AnalysisQuery,
	) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AnalysisUsecase interface {
	// DefaultFile 返回默认文件名与路径，文件不存在时返回 ErrDefaultFileNotFound
	DefaultFile() (name string, path string, err error)

	AnalyzeUpload(ctx context.Context, fileName string, r io.Reader) (*scene_audio_analysis_models.AudioAnalysis, error)
	AnalyzeDefault(ctx context.Context) (*scene_audio_analysis_models.AudioAnalysis, error)
	AnalyzePath(ctx context.Context, path, displayName, source string) (*scene_audio_analysis_models.AudioAnalysis, error)

	GetByID(ctx context.Context, id string) (*scene_audio_analysis_models.AudioAnalysis, error)
	List(
		ctx context.Context,
		query scene_audio_analysis_models.AnalysisQuery,
	) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error)
	Delete(ctx context.Context, id string) error
	RenderWaveform(ctx context.Context, id string, w io.Writer) error
}

package scene_audio_analysis_interface

import (
	"context"

	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GenerationRepository interface {
	Create(ctx context.Context, generation *scene_audio_analysis_models.AudioGeneration) error
	Update(ctx context.Context, generation *scene_audio_analysis_models.AudioGeneration) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*scene_audio_analysis_models.AudioGeneration, error)
	ListByAnalysis(ctx context.Context, analysisID primitive.ObjectID) ([]*scene_audio_analysis_models.AudioGeneration, error)
}

// SequenceGenerator 外部生成式序列模型
type SequenceGenerator interface {
	Name() string
	Generate(
		ctx context.Context,
		req scene_audio_analysis_models.GenerationRequest,
	) (*scene_audio_analysis_models.GenerationResult, error)
}

type GenerationUsecase interface {
	Generate(
		ctx context.Context,
		analysisID string,
		params scene_audio_analysis_models.GenerationParams,
	) (*scene_audio_analysis_models.AudioGeneration, error)
	GetByID(ctx context.Context, id string) (*scene_audio_analysis_models.AudioGeneration, error)
	ListByAnalysis(ctx context.Context, analysisID string) ([]*scene_audio_analysis_models.AudioGeneration, error)
	// AudioPath 返回成功生成的音频文件路径
	AudioPath(ctx context.Context, id string) (string, error)
}
